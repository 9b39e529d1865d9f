package audio

// ResampleLinear resamples mono float32 samples from srcRate to dstRate
// using linear interpolation. It exists for audio whose native rate isn't
// already 16kHz (PulseAudio capture requests 16kHz directly from the
// server and never needs it; ReadWAVFile uses it for files recorded at
// other rates).
func ResampleLinear(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(dstRate) / float64(srcRate)
	outLen := int(float64(len(samples)) * ratio)
	if outLen <= 0 {
		return nil
	}

	out := make([]float32, outLen)
	step := float64(srcRate) / float64(dstRate)

	for i := range out {
		srcPos := float64(i) * step
		idx := int(srcPos)
		frac := srcPos - float64(idx)

		if idx+1 >= len(samples) {
			out[i] = samples[len(samples)-1]
			continue
		}
		a := float64(samples[idx])
		b := float64(samples[idx+1])
		out[i] = float32(a + (b-a)*frac)
	}

	return out
}
