package output

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardSink writes text to the system clipboard via the host's
// native clipboard mechanism (wl-clipboard / xclip / xsel, depending on
// session type, resolved internally by the clipboard library).
type clipboardSink struct{}

func (s *clipboardSink) Name() string { return "clipboard" }

func (s *clipboardSink) Probe(ctx context.Context) error {
	if _, err := clipboard.ReadAll(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	return nil
}

func (s *clipboardSink) Deliver(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
