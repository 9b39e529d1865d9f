package audio

import (
	"encoding/binary"
	"fmt"
	"os"
)

// targetSampleRate is the rate the transcription backends expect, matching
// AudioConfig.SampleRate's default.
const targetSampleRate = 16000

// ReadWAVFile decodes a 16-bit PCM WAV file into mono float32 samples
// resampled to targetSampleRate, for the one-shot "voxtype transcribe
// <file>" path that bypasses live capture entirely.
func ReadWAVFile(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%q is not a RIFF/WAVE file", path)
	}

	var (
		channels      int
		sampleRate    int
		bitsPerSample int
		pcm           []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			break
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("%q has a malformed fmt chunk", path)
			}
			fmtBody := data[body : body+chunkSize]
			channels = int(binary.LittleEndian.Uint16(fmtBody[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtBody[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtBody[14:16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}

		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if pcm == nil {
		return nil, fmt.Errorf("%q has no data chunk", path)
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("%q: unsupported bits-per-sample %d, only 16-bit PCM is supported", path, bitsPerSample)
	}
	if channels <= 0 {
		channels = 1
	}

	samples := pcm16ToMonoFloat32(pcm, channels)
	if sampleRate > 0 && sampleRate != targetSampleRate {
		samples = ResampleLinear(samples, sampleRate, targetSampleRate)
	}
	return samples, nil
}

// pcm16ToMonoFloat32 converts interleaved little-endian s16 PCM to
// normalized mono float32, averaging channels down when channels > 1.
func pcm16ToMonoFloat32(pcm []byte, channels int) []float32 {
	frameBytes := 2 * channels
	frames := len(pcm) / frameBytes
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum int32
		base := i * frameBytes
		for c := 0; c < channels; c++ {
			v := int16(binary.LittleEndian.Uint16(pcm[base+c*2 : base+c*2+2]))
			sum += int32(v)
		}
		out[i] = float32(sum) / float32(channels) / 32768.0
	}
	return out
}
