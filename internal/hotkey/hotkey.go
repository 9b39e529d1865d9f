// Package hotkey detects the key combinations that arm, release, or cancel
// a recording session, from whichever input sources are enabled.
package hotkey

import "context"

// EventKind is the kind of hotkey activity a Source reports.
type EventKind string

const (
	// EventPress fires when the configured key (or combination) goes down.
	EventPress EventKind = "press"
	// EventRelease fires when it comes back up (push-to-talk mode only).
	EventRelease EventKind = "release"
	// EventToggle fires once per activation in toggle mode.
	EventToggle EventKind = "toggle"
	// EventCancel fires when the configured cancel key is seen.
	EventCancel EventKind = "cancel"
)

// Event is one hotkey activation reported by the source that saw it.
type Event struct {
	Kind EventKind
	// ModelModifier reports whether the configured model-modifier key was
	// held down at the moment of the event, letting the coordinator pin a
	// secondary model for this session only.
	ModelModifier bool
}

// Source is one pluggable way of detecting hotkey activity: physical
// keyboard input, OS signals, or an external trigger fed only through IPC.
// Implementations must not block Events()'s caller; they run their own
// internal goroutine and close the returned channel when Stop is called or
// ctx is cancelled, whichever comes first.
type Source interface {
	// Events starts the source and returns a channel of hotkey events. The
	// channel is closed when ctx is done or Stop is called.
	Events(ctx context.Context) (<-chan Event, error)
	// Stop releases any OS-level resources (hook handles, signal channels)
	// held by the source. Safe to call more than once.
	Stop()
	// Name identifies the source for logging.
	Name() string
}

// Merge fans events from multiple sources into one channel. The returned
// channel closes once every source's channel has closed.
func Merge(ctx context.Context, sources ...<-chan Event) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)
		if len(sources) == 0 {
			return
		}

		remaining := len(sources)
		done := make(chan struct{}, len(sources))

		for _, src := range sources {
			src := src
			go func() {
				for {
					select {
					case <-ctx.Done():
						done <- struct{}{}
						return
					case ev, ok := <-src:
						if !ok {
							done <- struct{}{}
							return
						}
						select {
						case out <- ev:
						case <-ctx.Done():
							done <- struct{}{}
							return
						}
					}
				}
			}()
		}

		for remaining > 0 {
			<-done
			remaining--
		}
	}()

	return out
}
