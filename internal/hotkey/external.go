package hotkey

import (
	"context"
	"sync"
)

// ExternalTriggerSource emits no events on its own; it exists purely so the
// IPC server can inject hotkey-equivalent events (from `voxtype record
// start`, a window-manager keybind calling out to the CLI, etc.) through the
// same Source abstraction the coordinator already merges over.
type ExternalTriggerSource struct {
	mu   sync.Mutex
	out  chan Event
	done chan struct{}
}

// NewExternalTriggerSource constructs an empty external trigger source.
func NewExternalTriggerSource() *ExternalTriggerSource {
	return &ExternalTriggerSource{}
}

// Name identifies the source for logging.
func (s *ExternalTriggerSource) Name() string { return "external" }

// Events returns the channel external callers should feed via Inject.
func (s *ExternalTriggerSource) Events(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	s.out = make(chan Event, 8)
	s.done = make(chan struct{})
	out := s.out
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
		case <-done:
		}
	}()

	return out, nil
}

// Inject delivers one externally-sourced event, e.g. from an IPC command.
// It is a no-op if Events has not been called yet or the source was
// stopped.
func (s *ExternalTriggerSource) Inject(ev Event) {
	s.mu.Lock()
	out := s.out
	s.mu.Unlock()
	if out == nil {
		return
	}
	select {
	case out <- ev:
	default:
	}
}

// Stop releases the source's internal channel.
func (s *ExternalTriggerSource) Stop() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return
	}
	select {
	case <-done:
	default:
		close(done)
	}
}
