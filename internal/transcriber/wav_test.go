package transcriber

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeaderFields(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	out := encodeWAV(samples, 16000)

	require.Equal(t, "RIFF", string(out[0:4]))
	require.Equal(t, "WAVE", string(out[8:12]))
	require.Equal(t, "data", string(out[36:40]))

	dataSize := binary.LittleEndian.Uint32(out[40:44])
	require.EqualValues(t, len(samples)*2, dataSize)
	require.Len(t, out, 44+len(samples)*2)

	sampleRate := binary.LittleEndian.Uint32(out[24:28])
	require.EqualValues(t, 16000, sampleRate)
}

func TestEncodeWAVClampsOutOfRangeSamples(t *testing.T) {
	out := encodeWAV([]float32{2.0, -2.0}, 16000)
	first := int16(binary.LittleEndian.Uint16(out[44:46]))
	second := int16(binary.LittleEndian.Uint16(out[46:48]))
	require.Equal(t, int16(32767), first)
	require.Equal(t, int16(-32767), second)
}
