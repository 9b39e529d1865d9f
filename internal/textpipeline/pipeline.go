// Package textpipeline transforms a raw transcript into the final string
// an output sink delivers, via a fixed three-stage pipeline: user
// replacements, spoken punctuation, and an optional external
// post-processor.
package textpipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/voxtype/voxtype/internal/config"
)

// Pipeline applies the configured text transforms in order.
type Pipeline struct {
	text   config.TextConfig
	post   config.PostProcessConfig
	logger *slog.Logger
}

// New constructs a Pipeline from the text and post-process configuration
// sections. logger may be nil.
func New(text config.TextConfig, post config.PostProcessConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{text: text, post: post, logger: logger}
}

// Run applies replacements, spoken punctuation (if enabled), and the
// external post-processor (if configured) to raw, in that order, and
// returns the final text. The external post-processor stage never fails
// the pipeline: any error is logged and the pre-stage text is returned.
func (p *Pipeline) Run(ctx context.Context, raw string) string {
	text := ApplyReplacements(raw, p.text.Replacements)

	if p.text.SpokenPunctuation {
		text = ApplySpokenPunctuation(text)
	}

	argv := strings.Fields(p.post.Cmd)
	if len(argv) == 0 {
		return text
	}

	timeout := time.Duration(p.post.TimeoutMS) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runFilter(runCtx, argv, text)
	if err != nil {
		p.warn("post-processor failed, using pre-stage text", "error", err.Error())
		return text
	}
	if out == "" {
		p.warn("post-processor returned empty output, using pre-stage text")
		return text
	}
	return out
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Warn(msg, args...)
}
