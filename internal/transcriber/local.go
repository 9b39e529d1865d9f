package transcriber

import (
	"context"
	"fmt"
	"os"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/voxtype/voxtype/internal/config"
)

// LocalTranscriber runs whisper.cpp in-process. A single instance may be
// reused across recordings: Prepare is idempotent per model path, and
// concurrent Prepare calls against the same path join the in-flight load
// rather than each loading their own copy of the model.
type LocalTranscriber struct {
	cfg config.TranscribeConfig

	mu        sync.Mutex
	modelPath string
	once      *sync.Once
	loadErr   error
	model     whisper.Model
	isMulti   bool

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// NewLocalTranscriber constructs a LocalTranscriber. No model is loaded
// until Prepare is called.
func NewLocalTranscriber(cfg config.TranscribeConfig) *LocalTranscriber {
	return &LocalTranscriber{cfg: cfg}
}

func (l *LocalTranscriber) Prepare(ctx context.Context, model string) error {
	l.mu.Lock()
	if l.modelPath != model || l.once == nil {
		l.modelPath = model
		l.once = &sync.Once{}
		l.loadErr = nil
	}
	once := l.once
	l.mu.Unlock()

	once.Do(func() {
		l.loadErr = l.load(model)
	})
	return l.loadErr
}

func (l *LocalTranscriber) load(path string) error {
	// GGML/whisper.cpp logs directly to stderr; suppress it the way
	// whisper.cpp applications commonly do, restoring the prior value
	// afterward so we don't clobber an operator's own setting.
	prevLevel, hadLevel := os.LookupEnv("GGML_LOG_LEVEL")
	os.Setenv("GGML_LOG_LEVEL", "ERROR")
	defer func() {
		if hadLevel {
			os.Setenv("GGML_LOG_LEVEL", prevLevel)
		} else {
			os.Unsetenv("GGML_LOG_LEVEL")
		}
	}()

	model, err := whisper.New(path)
	if err != nil {
		return fmt.Errorf("load whisper model %q: %w", path, err)
	}

	probeCtx, err := model.NewContext()
	if err != nil {
		model.Close()
		return fmt.Errorf("create whisper context for %q: %w", path, err)
	}

	l.mu.Lock()
	l.model = model
	l.isMulti = probeCtx.IsMultilingual()
	l.mu.Unlock()

	return nil
}

func (l *LocalTranscriber) Transcribe(ctx context.Context, pcm []float32, opts Options) (string, error) {
	if len(pcm) == 0 {
		return "", fmt.Errorf("transcribe: empty audio samples")
	}

	l.mu.Lock()
	model := l.model
	isMulti := l.isMulti
	onDemand := l.cfg.OnDemandLoading
	threads := l.cfg.Threads
	l.mu.Unlock()

	if model == nil {
		return "", fmt.Errorf("transcribe: model not prepared")
	}

	// A fresh context per call avoids state pollution between
	// transcriptions, matching the teacher's continuous-mode handling.
	wctx, err := model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}

	lang := opts.Language
	if lang == "" {
		lang = l.cfg.Language
	}
	if lang != "" && (lang != "auto" || isMulti) {
		if err := wctx.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("set language %q: %w", lang, err)
		}
	}
	wctx.SetTranslate(opts.Translate)
	if threads > 0 {
		wctx.SetThreads(threads)
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancelMu.Lock()
	l.cancel = cancel
	l.cancelMu.Unlock()
	defer func() {
		cancel()
		l.cancelMu.Lock()
		l.cancel = nil
		l.cancelMu.Unlock()
	}()

	// whisper.cpp invokes the encoder-begin callback once per internal
	// encode pass (long audio is chunked internally); returning false
	// aborts the in-flight Process call, which is what lets Cancel
	// actually interrupt inference instead of only cancelling a context
	// nothing observes.
	if err := wctx.Process(pcm, encoderBeginCallback(runCtx), nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}
	if runCtx.Err() != nil {
		return "", fmt.Errorf("transcribe cancelled: %w", runCtx.Err())
	}

	var text string
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		text += segment.Text
	}

	if onDemand {
		l.teardown()
	}

	return text, nil
}

// encoderBeginCallback returns a whisper.cpp EncoderBeginCallback that
// aborts processing once ctx is done, instead of letting it run to
// completion unobserved.
func encoderBeginCallback(ctx context.Context) whisper.EncoderBeginCallback {
	return func() bool {
		return ctx.Err() == nil
	}
}

func (l *LocalTranscriber) teardown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		l.model.Close()
		l.model = nil
	}
	l.once = nil
	l.modelPath = ""
}

func (l *LocalTranscriber) Cancel() error {
	l.cancelMu.Lock()
	cancel := l.cancel
	l.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Close releases the loaded model, if any. Safe to call multiple times.
func (l *LocalTranscriber) Close() {
	l.teardown()
}
