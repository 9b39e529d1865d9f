package audio

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"
)

// Session wraps a Capture with the higher-level concerns the coordinator
// needs: float32 samples instead of raw PCM bytes, a max-duration timer
// that fires once and only once, and a count of chunks dropped because the
// consumer fell behind.
type Session struct {
	capture *Capture
	samples chan []float32
	timeout chan struct{}
	dropped atomic.Int64

	timeoutOnce func()
}

// NewSession starts a capture against the selected device and begins
// converting its PCM stream to float32 samples. maxDuration <= 0 disables
// the timer.
func NewSession(ctx context.Context, selected Device, maxDuration time.Duration) (*Session, error) {
	capture, err := StartCapture(ctx, selected)
	if err != nil {
		return nil, err
	}

	s := &Session{
		capture: capture,
		samples: make(chan []float32, 128),
		timeout: make(chan struct{}),
	}

	var timeoutFired atomic.Bool
	s.timeoutOnce = func() {
		if timeoutFired.CompareAndSwap(false, true) {
			close(s.timeout)
		}
	}

	go s.convertLoop()

	if maxDuration > 0 {
		go func() {
			timer := time.NewTimer(maxDuration)
			defer timer.Stop()
			select {
			case <-timer.C:
				s.timeoutOnce()
			case <-capture.stopCh:
			case <-ctx.Done():
			}
		}()
	}

	return s, nil
}

// Samples returns the converted float32 PCM stream, closed when the
// underlying capture stops.
func (s *Session) Samples() <-chan []float32 {
	return s.samples
}

// Timeout fires exactly once if maxDuration elapses before Stop is called.
func (s *Session) Timeout() <-chan struct{} {
	return s.timeout
}

// DroppedChunks reports how many converted sample chunks were discarded
// because a consumer was not keeping up with Samples().
func (s *Session) DroppedChunks() int64 {
	return s.dropped.Load()
}

// Device returns the underlying capture device.
func (s *Session) Device() Device {
	return s.capture.Device()
}

// BytesCaptured reports total raw PCM bytes accepted from Pulse.
func (s *Session) BytesCaptured() int64 {
	return s.capture.BytesCaptured()
}

// Abandoned reports whether the captured buffer is below the minimum
// duration worth transcribing. Valid only after Stop returns.
func (s *Session) Abandoned() bool {
	return s.capture.Abandoned()
}

// RawPCM returns a snapshot of all captured raw PCM bytes, for transcriber
// variants that want the whole buffer rather than the streamed samples.
func (s *Session) RawPCM() []byte {
	return s.capture.RawPCM()
}

// Stop halts capture and closes Samples() once the conversion loop drains.
func (s *Session) Stop() error {
	return s.capture.Stop()
}

func (s *Session) convertLoop() {
	defer close(s.samples)

	for chunk := range s.capture.Chunks() {
		converted := bytesToFloat32(chunk)
		select {
		case s.samples <- converted:
		default:
			s.dropped.Add(1)
		}
	}
}

// bytesToFloat32 converts little-endian s16 PCM to normalized float32.
func bytesToFloat32(pcm []byte) []float32 {
	n := len(pcm) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		out[i] = float32(v) / 32768.0
	}
	return out
}
