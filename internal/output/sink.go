// Package output delivers a finished transcript to the focused
// application, falling back through a mode-specific chain of delivery
// backends when the preferred one is unavailable (its probe fails).
package output

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxtype/voxtype/internal/config"
)

// Sink is one delivery backend in a fallback chain. Probe is a cheap
// capability check run before the first Deliver attempt; a failing probe
// advances the chain without calling Deliver. Deliver may be called
// without a preceding Probe failure (the chain always probes first).
type Sink interface {
	Name() string
	Probe(ctx context.Context) error
	Deliver(ctx context.Context, text string) error
}

// Committer wires pre/post hooks around a mode-appropriate fallback
// chain of Sinks.
type Committer struct {
	cfg    config.OutputConfig
	chain  []Sink
	logger *slog.Logger
}

// NewCommitter builds the fallback chain for cfg.Mode and returns a
// Committer ready to deliver text.
func NewCommitter(cfg config.OutputConfig, logger *slog.Logger) *Committer {
	return &Committer{cfg: cfg, chain: buildChain(cfg), logger: logger}
}

// buildChain returns the probe/deliver order for a configured mode, per
// the output sink fallback table.
func buildChain(cfg config.OutputConfig) []Sink {
	clipboardSink := &clipboardSink{}

	switch cfg.Mode {
	case config.OutputModeType:
		chain := []Sink{
			newCompositorTypeSink().configure(cfg),
			newWtypeSink(cfg),
			newYdotoolSink(cfg),
		}
		if cfg.FallbackToClipboard {
			chain = append(chain, clipboardSink)
		}
		return chain
	case config.OutputModePaste:
		return []Sink{
			newPasteSink(cfg, clipboardSink),
		}
	case config.OutputModeFile:
		return []Sink{newFileSink(cfg)}
	case config.OutputModeClipboard:
		return []Sink{clipboardSink}
	default:
		return []Sink{clipboardSink}
	}
}

// Commit runs the pre-hook, walks the fallback chain to the first sink
// whose probe succeeds and delivers through it (a Deliver error is
// returned without trying later sinks), appends an auto-submit keystroke
// where applicable, then runs the post-hook. Hook failures are
// best-effort and never block delivery or surface as the returned error.
func (c *Committer) Commit(ctx context.Context, text string) error {
	c.runHook(ctx, c.cfg.PreHook, "pre_hook")

	err := c.deliver(ctx, text)

	c.runHook(ctx, c.cfg.PostHook, "post_hook")
	return err
}

func (c *Committer) deliver(ctx context.Context, text string) error {
	var lastErr error
	for _, sink := range c.chain {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := sink.Probe(probeCtx)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("probe %s: %w", sink.Name(), err)
			c.warn("output sink unavailable, falling through", "sink", sink.Name(), "error", err.Error())
			continue
		}

		if err := sink.Deliver(ctx, text); err != nil {
			return fmt.Errorf("deliver via %s: %w", sink.Name(), err)
		}
		c.autoSubmit(ctx)
		return nil
	}

	if lastErr == nil {
		return fmt.Errorf("no output sink configured for mode %q", c.cfg.Mode)
	}
	return fmt.Errorf("all output sinks unavailable: %w", lastErr)
}

// autoSubmit appends a single enter keystroke after delivery, for the
// type and paste modes only, when configured to do so.
func (c *Committer) autoSubmit(ctx context.Context) {
	if !c.cfg.AutoSubmit {
		return
	}
	if c.cfg.Mode != config.OutputModeType && c.cfg.Mode != config.OutputModePaste {
		return
	}
	if err := sendEnter(ctx); err != nil {
		c.warn("auto-submit enter keystroke failed", "error", err.Error())
	}
}

func (c *Committer) runHook(ctx context.Context, cmd string, label string) {
	if cmd == "" {
		return
	}
	hookCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := runFilter(hookCtx, cmd, ""); err != nil {
		c.warn("output hook failed", "hook", label, "error", err.Error())
	}
}

func (c *Committer) warn(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, args...)
}
