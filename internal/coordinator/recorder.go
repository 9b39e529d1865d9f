package coordinator

import (
	"context"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
)

// RecordingSession is the subset of *audio.Session the coordinator drives.
// It is an interface so tests can substitute a fake capture source instead
// of requiring a live Pulse connection.
type RecordingSession interface {
	Samples() <-chan []float32
	Timeout() <-chan struct{}
	Stop() error
	Abandoned() bool
}

// Recorder starts one capture session against the named device.
type Recorder interface {
	StartSession(ctx context.Context, device string, maxDuration time.Duration) (RecordingSession, error)
}

// pulseRecorder is the production Recorder, resolving a device through
// audio.SelectDevice and capturing through audio.NewSession.
type pulseRecorder struct{}

func (pulseRecorder) StartSession(ctx context.Context, device string, maxDuration time.Duration) (RecordingSession, error) {
	selection, err := audio.SelectDevice(ctx, device, "default")
	if err != nil {
		return nil, err
	}
	return audio.NewSession(ctx, selection.Device, maxDuration)
}
