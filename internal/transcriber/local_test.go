package transcriber

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtype/voxtype/internal/config"
)

func TestLocalTranscriberRejectsEmptyAudio(t *testing.T) {
	l := NewLocalTranscriber(config.TranscribeConfig{})
	_, err := l.Transcribe(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestLocalTranscriberRejectsTranscribeBeforePrepare(t *testing.T) {
	l := NewLocalTranscriber(config.TranscribeConfig{})
	_, err := l.Transcribe(context.Background(), []float32{0.1, 0.2}, Options{})
	require.ErrorContains(t, err, "not prepared")
}

func TestLocalTranscriberCancelWithNoInFlightCallIsNoop(t *testing.T) {
	l := NewLocalTranscriber(config.TranscribeConfig{})
	require.NoError(t, l.Cancel())
}

func TestEncoderBeginCallbackAllowsProcessingUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := encoderBeginCallback(ctx)

	require.True(t, cb(), "must allow the first encode pass to proceed")

	cancel()
	require.False(t, cb(), "must abort once the caller cancels")
}

func TestLocalTranscriberCloseBeforePrepareIsNoop(t *testing.T) {
	l := NewLocalTranscriber(config.TranscribeConfig{})
	require.NotPanics(t, func() { l.Close() })
}
