// Package transcriber turns captured PCM audio into text through one of
// three interchangeable backends: an in-process whisper.cpp model, a
// remote HTTP ASR endpoint, or a subprocess that isolates GPU-bound
// inference from the daemon process.
package transcriber

import (
	"context"

	"github.com/voxtype/voxtype/internal/config"
)

// Options carries per-call transcription parameters that may differ from
// whatever a backend was Prepare'd with (for example a one-shot language
// override from "voxtype transcribe <file> --lang=...").
type Options struct {
	Language  string
	Translate bool
}

// Transcriber loads a model (or otherwise readies a backend) and converts
// PCM sample buffers to text. Implementations must be safe to Cancel from
// a different goroutine than the one blocked in Transcribe.
type Transcriber interface {
	// Prepare readies the named model for use. It is safe to call
	// concurrently with itself and with Transcribe; implementations
	// must not reload a model that is already loaded or loading.
	Prepare(ctx context.Context, model string) error

	// Transcribe converts pcm (mono float32 samples at 16kHz) to text.
	Transcribe(ctx context.Context, pcm []float32, opts Options) (string, error)

	// Cancel aborts any in-flight Prepare or Transcribe call. It does
	// not prevent future calls.
	Cancel() error
}

// New selects and constructs the Transcriber backend named by
// cfg.Engine.
func New(cfg config.TranscribeConfig) Transcriber {
	switch cfg.Engine {
	case config.EngineRemote:
		return NewRemoteTranscriber(cfg.Remote)
	case config.EngineSubprocess:
		return NewSubprocessTranscriber(cfg)
	default:
		return NewLocalTranscriber(cfg)
	}
}
