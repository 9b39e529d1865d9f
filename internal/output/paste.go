package output

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/voxtype/voxtype/internal/compositor"
	"github.com/voxtype/voxtype/internal/config"
)

// pasteSink writes text to the clipboard, then simulates a paste
// keystroke in the focused window via the compositor. The clipboard's
// prior contents are preserved and restored after restoreDelay, giving
// the target application time to read the pasted value first.
type pasteSink struct {
	shortcut     string
	restoreDelay time.Duration
	clipboard    *clipboardSink
	logger       *slog.Logger
}

func newPasteSink(cfg config.OutputConfig, clip *clipboardSink) *pasteSink {
	delay := time.Duration(cfg.RestoreDelayMS) * time.Millisecond
	if delay <= 0 {
		delay = 1200 * time.Millisecond
	}
	shortcut := cfg.PasteKeys
	if shortcut == "" {
		shortcut = "CTRL,V"
	}
	return &pasteSink{shortcut: shortcut, restoreDelay: delay, clipboard: clip}
}

func (s *pasteSink) Name() string { return "paste" }

func (s *pasteSink) Probe(ctx context.Context) error {
	return s.clipboard.Probe(ctx)
}

func (s *pasteSink) Deliver(ctx context.Context, text string) error {
	previous, hadPrevious := "", false
	if prior, err := clipboard.ReadAll(); err == nil {
		previous, hadPrevious = prior, true
	}

	if err := s.clipboard.Deliver(ctx, text); err != nil {
		return err
	}

	if err := s.sendPasteShortcut(ctx); err != nil {
		s.warn("paste keystroke failed; clipboard remains set", "error", err.Error())
	}

	if hadPrevious {
		s.scheduleRestore(previous)
	}
	return nil
}

func (s *pasteSink) sendPasteShortcut(ctx context.Context) error {
	if !compositor.Available() {
		return fmt.Errorf("compositor dispatch unavailable for paste keystroke")
	}

	window, err := activeWindowWithRetry(ctx, 5, 10*time.Millisecond)
	if err != nil {
		return err
	}

	payload, err := buildPasteShortcut(s.shortcut, window.Address)
	if err != nil {
		return err
	}
	return compositor.SendShortcut(ctx, payload)
}

// scheduleRestore writes the saved clipboard value back after the
// configured delay, detached from the delivering request's context so a
// short-lived Deliver call doesn't cut the restore short.
func (s *pasteSink) scheduleRestore(previous string) {
	go func() {
		time.Sleep(s.restoreDelay)
		if err := clipboard.WriteAll(previous); err != nil {
			s.warn("clipboard restore failed", "error", err.Error())
		}
	}()
}

func (s *pasteSink) warn(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, args...)
}

func buildPasteShortcut(shortcut string, windowAddress string) (string, error) {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" {
		return "", fmt.Errorf("paste shortcut cannot be empty")
	}

	address := strings.TrimSpace(windowAddress)
	if address == "" {
		return "", fmt.Errorf("active window address is required")
	}

	return fmt.Sprintf("%s,address:%s", shortcut, address), nil
}

func activeWindowWithRetry(ctx context.Context, attempts int, delay time.Duration) (compositor.ActiveWindow, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		window, err := compositor.QueryActiveWindow(ctx)
		if err == nil {
			return window, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return compositor.ActiveWindow{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("active window unavailable")
	}
	return compositor.ActiveWindow{}, fmt.Errorf("resolve active window: %w", lastErr)
}
