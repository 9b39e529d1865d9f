package audio

import "math"

// VADConfig controls the energy-threshold voice activity gate.
type VADConfig struct {
	Threshold   float64
	MinSpeechMS int
	SampleRate  int
}

// DetectSpeech reports whether samples contain at least MinSpeechMS worth of
// audio whose RMS energy exceeds Threshold. "energy" is the only VAD
// backend voxtype ships; cfg.Threshold is compared against a 0..1 RMS
// amplitude, not dBFS.
func DetectSpeech(samples []float32, cfg VADConfig) bool {
	if cfg.SampleRate <= 0 || len(samples) == 0 {
		return false
	}

	windowSamples := cfg.SampleRate / 100 // 10ms windows
	if windowSamples <= 0 {
		windowSamples = 1
	}

	requiredWindows := 0
	if cfg.MinSpeechMS > 0 {
		requiredWindows = (cfg.MinSpeechMS + 9) / 10
	}

	consecutive := 0
	for start := 0; start < len(samples); start += windowSamples {
		end := start + windowSamples
		if end > len(samples) {
			end = len(samples)
		}
		if rms(samples[start:end]) >= cfg.Threshold {
			consecutive++
			if consecutive >= requiredWindows {
				return true
			}
		} else {
			consecutive = 0
		}
	}

	return requiredWindows == 0 && consecutive > 0
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
