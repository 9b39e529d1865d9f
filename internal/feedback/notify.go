package feedback

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/voxtype/voxtype/internal/compositor"
	"github.com/voxtype/voxtype/internal/config"
)

// Notifier dispatches desktop or compositor notifications for the
// recording/transcribing/final-text lifecycle events, gated by
// per-event enable flags.
type Notifier struct {
	cfg config.NotifyConfig

	mu          sync.Mutex
	desktopID   uint32
	lastTimeout int
}

// NewNotifier builds a Notifier from runtime config.
func NewNotifier(cfg config.NotifyConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// NotifyRecordingStarted emits the "recording" event notification.
func (n *Notifier) NotifyRecordingStarted(ctx context.Context) error {
	if !n.cfg.OnStart {
		return nil
	}
	return n.send(ctx, 1, 300000, "rgb(89b4fa)", "Recording…")
}

// NotifyTranscribing emits the "stop" event notification.
func (n *Notifier) NotifyTranscribing(ctx context.Context) error {
	if !n.cfg.OnStop {
		return nil
	}
	return n.send(ctx, 1, 300000, "rgb(cba6f7)", "Transcribing…")
}

// NotifyFinalText emits the "final text" event notification.
func (n *Notifier) NotifyFinalText(ctx context.Context, text string) error {
	if !n.cfg.OnFinalText {
		return nil
	}
	return n.send(ctx, 1, 1500, "rgb(a6e3a1)", text)
}

// NotifyError emits an error-state notification, ignoring per-event
// enable flags: failures are always worth surfacing.
func (n *Notifier) NotifyError(ctx context.Context, text string) error {
	timeout := n.cfg.ErrorTimeoutMS
	if timeout <= 0 {
		timeout = 1200
	}
	return n.send(ctx, 3, timeout, "rgb(f38ba8)", text)
}

// Dismiss clears any currently active notification.
func (n *Notifier) Dismiss(ctx context.Context) error {
	if strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "desktop") {
		return n.dismissDesktop(ctx)
	}
	return compositor.DismissNotify(ctx)
}

func (n *Notifier) send(ctx context.Context, icon int, timeoutMS int, color string, text string) error {
	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()

	if strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "desktop") {
		return n.sendDesktop(runCtx, timeoutMS, text)
	}
	return compositor.Notify(runCtx, icon, timeoutMS, color, text)
}

func (n *Notifier) sendDesktop(ctx context.Context, timeoutMS int, text string) error {
	n.mu.Lock()
	replaceID := n.desktopID
	n.mu.Unlock()

	appName := strings.TrimSpace(n.cfg.DesktopAppName)
	if appName == "" {
		appName = "voxtype"
	}

	id, err := desktopNotify(ctx, appName, replaceID, text, timeoutMS)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.desktopID = id
	n.mu.Unlock()
	return nil
}

func (n *Notifier) dismissDesktop(ctx context.Context) error {
	n.mu.Lock()
	id := n.desktopID
	n.desktopID = 0
	n.mu.Unlock()

	if id == 0 {
		return nil
	}
	return desktopDismiss(ctx, id)
}

// desktopNotify sends a freedesktop notification over DBus via busctl. It
// returns the notification ID assigned by the server.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, summary string, timeoutMS int) (uint32, error) {
	args := []string{
		"--user",
		"call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"Notify",
		"susssasa{sv}i",
		appName,
		fmt.Sprintf("%d", replaceID),
		"",
		summary,
		"",
		"0", // actions array length
		"0", // hints map length
		fmt.Sprintf("%d", timeoutMS),
	}

	out, err := exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return 0, fmt.Errorf("desktop notify failed: %w", err)
		}
		return 0, fmt.Errorf("desktop notify failed: %w (%s)", err, trimmed)
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", strings.TrimSpace(string(out)))
	}

	value, parseErr := strconv.ParseUint(fields[1], 10, 32)
	if parseErr != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", fields[1], parseErr)
	}
	return uint32(value), nil
}

// desktopDismiss requests explicit close by notification ID.
func desktopDismiss(ctx context.Context, id uint32) error {
	args := []string{
		"--user",
		"call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"CloseNotification",
		"u",
		fmt.Sprintf("%d", id),
	}

	out, err := exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("desktop dismiss failed: %w", err)
		}
		return fmt.Errorf("desktop dismiss failed: %w (%s)", err, trimmed)
	}

	return nil
}
