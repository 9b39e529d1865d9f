package hotkey

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalSource maps POSIX signals to hotkey events, for headless or scripted
// control of voxtype without a keyboard grab: SIGUSR1 starts recording,
// SIGUSR2 stops it, and SIGHUP cancels it.
type SignalSource struct {
	mu       sync.Mutex
	stopOnce sync.Once
	cancel   context.CancelFunc
}

// NewSignalSource constructs a signal-driven hotkey source.
func NewSignalSource() *SignalSource {
	return &SignalSource{}
}

// Name identifies the source for logging.
func (s *SignalSource) Name() string { return "signal" }

// Events starts listening for SIGUSR1, SIGUSR2, and SIGHUP.
func (s *SignalSource) Events(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event, 8)
	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP)

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(out)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-runCtx.Done():
				return
			case sig := <-sigCh:
				var ev Event
				switch sig {
				case syscall.SIGUSR1:
					ev = Event{Kind: EventPress}
				case syscall.SIGUSR2:
					ev = Event{Kind: EventRelease}
				case syscall.SIGHUP:
					ev = Event{Kind: EventCancel}
				default:
					continue
				}

				select {
				case out <- ev:
				case <-runCtx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Stop releases the signal registration.
func (s *SignalSource) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	})
}
