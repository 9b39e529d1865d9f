package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResampleLinearSameRateReturnsCopy(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := ResampleLinear(in, 16000, 16000)
	require.Equal(t, in, out)

	out[0] = 99
	require.NotEqual(t, in[0], out[0], "must not alias the source slice")
}

func TestResampleLinearUpsampleDoublesLength(t *testing.T) {
	in := []float32{0, 1, 0, -1}
	out := ResampleLinear(in, 8000, 16000)
	require.Len(t, out, 8)
}

func TestResampleLinearDownsampleHalvesLength(t *testing.T) {
	in := make([]float32, 160)
	for i := range in {
		in[i] = float32(i)
	}
	out := ResampleLinear(in, 16000, 8000)
	require.Len(t, out, 80)
}

func TestResampleLinearEmptyInput(t *testing.T) {
	require.Empty(t, ResampleLinear(nil, 16000, 8000))
}
