package output

import (
	"context"
	"fmt"
	"os"

	"github.com/voxtype/voxtype/internal/config"
)

// fileSink appends or overwrites a transcript at a configured path.
type fileSink struct {
	path   string
	append bool
}

func newFileSink(cfg config.OutputConfig) *fileSink {
	return &fileSink{
		path:   cfg.File.Path,
		append: cfg.File.AppendVsOverwrite != "overwrite",
	}
}

func (s *fileSink) Name() string { return "file" }

func (s *fileSink) Probe(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("output file path is not configured")
	}
	return nil
}

func (s *fileSink) Deliver(ctx context.Context, text string) error {
	flags := os.O_CREATE | os.O_WRONLY
	if s.append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output file %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("write output file %s: %w", s.path, err)
	}
	return nil
}
