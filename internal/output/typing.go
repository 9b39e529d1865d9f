package output

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/voxtype/voxtype/internal/compositor"
	"github.com/voxtype/voxtype/internal/config"
)

// compositorTypeSink injects a virtual keystroke per character through
// the Hyprland compositor's dispatcher. It is the fastest typing path on
// Hyprland, but has no equivalent on other compositors.
type compositorTypeSink struct {
	preDelay  time.Duration
	charDelay time.Duration
}

func newCompositorTypeSink() *compositorTypeSink {
	return &compositorTypeSink{}
}

func (s *compositorTypeSink) configure(cfg config.OutputConfig) *compositorTypeSink {
	s.preDelay = time.Duration(cfg.PreTypeDelayMS) * time.Millisecond
	s.charDelay = time.Duration(cfg.TypeDelayMS) * time.Millisecond
	return s
}

func (s *compositorTypeSink) Name() string { return "compositor-type" }

func (s *compositorTypeSink) Probe(ctx context.Context) error {
	if !compositor.Available() {
		return fmt.Errorf("hyprctl not found on PATH")
	}
	if _, err := compositor.QueryActiveWindow(ctx); err != nil {
		return fmt.Errorf("no active window to receive keystrokes: %w", err)
	}
	return nil
}

func (s *compositorTypeSink) Deliver(ctx context.Context, text string) error {
	if s.preDelay > 0 {
		time.Sleep(s.preDelay)
	}
	for _, r := range text {
		if err := compositor.SendShortcut(ctx, fmt.Sprintf("none,%c", r)); err != nil {
			return fmt.Errorf("type character %q: %w", r, err)
		}
		if s.charDelay > 0 {
			time.Sleep(s.charDelay)
		}
	}
	return nil
}

// wtypeSink shells out to wtype, the layout-aware Wayland virtual
// keyboard text injector.
type wtypeSink struct {
	preDelayMS int
	charDelay  time.Duration
}

func newWtypeSink(cfg config.OutputConfig) *wtypeSink {
	return &wtypeSink{preDelayMS: cfg.PreTypeDelayMS, charDelay: time.Duration(cfg.TypeDelayMS) * time.Millisecond}
}

func (s *wtypeSink) Name() string { return "wtype" }

func (s *wtypeSink) Probe(ctx context.Context) error {
	if _, err := exec.LookPath("wtype"); err != nil {
		return fmt.Errorf("wtype not found on PATH: %w", err)
	}
	return nil
}

func (s *wtypeSink) Deliver(ctx context.Context, text string) error {
	args := []string{"wtype"}
	if s.preDelayMS > 0 {
		args = append(args, "-s", msToString(s.preDelayMS))
	}
	if s.charDelay > 0 {
		args = append(args, "-d", msToString(int(s.charDelay.Milliseconds())))
	}
	args = append(args, text)
	return runCommandWithInput(ctx, args, "")
}

// ydotoolSink shells out to ydotool, the uinput-backed virtual keyboard
// typing tool that works without compositor cooperation.
type ydotoolSink struct {
	charDelay time.Duration
}

func newYdotoolSink(cfg config.OutputConfig) *ydotoolSink {
	return &ydotoolSink{charDelay: time.Duration(cfg.TypeDelayMS) * time.Millisecond}
}

func (s *ydotoolSink) Name() string { return "ydotool" }

func (s *ydotoolSink) Probe(ctx context.Context) error {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return fmt.Errorf("ydotool not found on PATH: %w", err)
	}
	return nil
}

func (s *ydotoolSink) Deliver(ctx context.Context, text string) error {
	args := []string{"ydotool", "type"}
	if s.charDelay > 0 {
		args = append(args, "--key-delay", msToString(int(s.charDelay.Milliseconds())))
	}
	args = append(args, text)
	return runCommandWithInput(ctx, args, "")
}

func msToString(ms int) string {
	return fmt.Sprintf("%d", ms)
}

// sendEnter dispatches a single Return keystroke for auto_submit,
// trying each typing backend in turn.
func sendEnter(ctx context.Context) error {
	if compositor.Available() {
		if err := compositor.SendShortcut(ctx, "none,Return"); err == nil {
			return nil
		}
	}
	if _, err := exec.LookPath("wtype"); err == nil {
		if err := runCommandWithInput(ctx, []string{"wtype", "-k", "Return"}, ""); err == nil {
			return nil
		}
	}
	if _, err := exec.LookPath("ydotool"); err == nil {
		return runCommandWithInput(ctx, []string{"ydotool", "key", "28:1", "28:0"}, "")
	}
	return fmt.Errorf("no typing backend available for auto-submit")
}
