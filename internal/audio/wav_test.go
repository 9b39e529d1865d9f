package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal RIFF/WAVE file with a single fmt and data
// chunk around interleaved 16-bit PCM samples.
func buildWAV(t *testing.T, channels, sampleRate int, samples []int16) []byte {
	t.Helper()

	dataBytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dataBytes[i*2:], uint16(s))
	}

	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2

	buf := make([]byte, 0, 44+len(dataBytes))
	buf = append(buf, "RIFF"...)
	buf = append(buf, le32(uint32(36+len(dataBytes)))...)
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...) // PCM
	buf = append(buf, le16(uint16(channels))...)
	buf = append(buf, le32(uint32(sampleRate))...)
	buf = append(buf, le32(uint32(byteRate))...)
	buf = append(buf, le16(uint16(blockAlign))...)
	buf = append(buf, le16(16)...) // bits per sample

	buf = append(buf, "data"...)
	buf = append(buf, le32(uint32(len(dataBytes)))...)
	buf = append(buf, dataBytes...)

	return buf
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func writeTempWAV(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadWAVFileMonoAtTargetRateRoundTrips(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768}
	path := writeTempWAV(t, buildWAV(t, 1, targetSampleRate, samples))

	out, err := ReadWAVFile(path)
	require.NoError(t, err)
	require.Len(t, out, len(samples))
	require.InDelta(t, 0.5, out[1], 0.001)
	require.InDelta(t, -0.5, out[2], 0.001)
}

func TestReadWAVFileStereoDownmixesToMono(t *testing.T) {
	// one stereo frame: left at full scale, right at silence, averages to half.
	samples := []int16{32767, 0}
	path := writeTempWAV(t, buildWAV(t, 2, targetSampleRate, samples))

	out, err := ReadWAVFile(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, 0.5, out[0], 0.01)
}

func TestReadWAVFileResamplesToTargetRate(t *testing.T) {
	samples := make([]int16, 80)
	for i := range samples {
		samples[i] = int16(i * 10)
	}
	path := writeTempWAV(t, buildWAV(t, 1, 8000, samples))

	out, err := ReadWAVFile(path)
	require.NoError(t, err)
	require.Len(t, out, 160)
}

func TestReadWAVFileMissingFile(t *testing.T) {
	_, err := ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}

func TestReadWAVFileRejectsNonRIFFHeader(t *testing.T) {
	path := writeTempWAV(t, []byte("not a wav file at all"))

	_, err := ReadWAVFile(path)
	require.ErrorContains(t, err, "not a RIFF/WAVE file")
}

func TestReadWAVFileRejectsNon16Bit(t *testing.T) {
	data := buildWAV(t, 1, targetSampleRate, []int16{0, 1, 2})
	// bits-per-sample lives at file offset 34 (offset 14 within the fmt body).
	binary.LittleEndian.PutUint16(data[34:36], 8)

	path := writeTempWAV(t, data)
	_, err := ReadWAVFile(path)
	require.ErrorContains(t, err, "unsupported bits-per-sample")
}

func TestReadWAVFileRejectsMissingDataChunk(t *testing.T) {
	data := buildWAV(t, 1, targetSampleRate, []int16{0, 1, 2})
	// truncate before the data chunk ID so only RIFF+fmt remain.
	dataChunkStart := 12 + 8 + 16
	path := writeTempWAV(t, data[:dataChunkStart])

	_, err := ReadWAVFile(path)
	require.ErrorContains(t, err, "no data chunk")
}
