package hotkey

import (
	"context"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/voxtype/voxtype/internal/config"
)

// KernelInputSource detects hotkey activity directly from the kernel input
// layer via a global keyboard hook. It is the primary hotkey source on a
// bare Wayland/X11 session with no compositor-level binding support.
type KernelInputSource struct {
	cfg config.HotkeyConfig

	mu            sync.Mutex
	modifierHeld  bool
	stopOnce      sync.Once
	cancelStarted context.CancelFunc
}

// NewKernelInputSource constructs a hook-based hotkey source for cfg.
func NewKernelInputSource(cfg config.HotkeyConfig) *KernelInputSource {
	return &KernelInputSource{cfg: cfg}
}

// Name identifies the source for logging.
func (s *KernelInputSource) Name() string { return "kernel_input" }

// Events registers the configured combination(s) with gohook and starts the
// global hook. The returned channel is bounded; a caller that falls behind
// drops events rather than blocking the OS-level hook callback.
func (s *KernelInputSource) Events(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event, 8)

	combo := make([]string, 0, len(s.cfg.Modifiers)+1)
	for _, m := range s.cfg.Modifiers {
		combo = append(combo, strings.ToLower(m))
	}
	combo = append(combo, strings.ToLower(s.cfg.Key))

	if s.cfg.ModelModifier != "" {
		modKey := strings.ToLower(s.cfg.ModelModifier)
		hook.Register(hook.KeyDown, []string{modKey}, func(hook.Event) {
			s.mu.Lock()
			s.modifierHeld = true
			s.mu.Unlock()
		})
		hook.Register(hook.KeyUp, []string{modKey}, func(hook.Event) {
			s.mu.Lock()
			s.modifierHeld = false
			s.mu.Unlock()
		})
	}

	switch s.cfg.Mode {
	case config.HotkeyModeToggle:
		hook.Register(hook.KeyDown, combo, func(hook.Event) {
			s.emit(out, EventToggle)
		})
	default:
		hook.Register(hook.KeyDown, combo, func(hook.Event) {
			s.emit(out, EventPress)
		})
		hook.Register(hook.KeyUp, combo, func(hook.Event) {
			s.emit(out, EventRelease)
		})
	}

	if strings.TrimSpace(s.cfg.CancelKey) != "" {
		hook.Register(hook.KeyDown, []string{strings.ToLower(s.cfg.CancelKey)}, func(hook.Event) {
			s.emit(out, EventCancel)
		})
	}

	evChan := hook.Start()
	processDone := hook.Process(evChan)

	started, cancelStarted := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancelStarted = cancelStarted
	s.mu.Unlock()

	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
		case <-started.Done():
		}
		hook.End()
		<-processDone
	}()

	return out, nil
}

// Stop unregisters the hook and releases the kernel input grab.
func (s *KernelInputSource) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancelStarted
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	})
}

func (s *KernelInputSource) emit(out chan<- Event, kind EventKind) {
	s.mu.Lock()
	modifierHeld := s.modifierHeld
	s.mu.Unlock()

	select {
	case out <- Event{Kind: kind, ModelModifier: modifierHeld}:
	default:
	}
}
