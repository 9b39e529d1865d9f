// Package coordinator owns the daemon's single authoritative recording
// lifecycle: one goroutine merges hotkey activity, IPC commands, and
// timers into state transitions and drives capture, transcription, and
// delivery from them.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/feedback"
	"github.com/voxtype/voxtype/internal/fsm"
	"github.com/voxtype/voxtype/internal/hotkey"
	"github.com/voxtype/voxtype/internal/ipc"
	"github.com/voxtype/voxtype/internal/output"
	"github.com/voxtype/voxtype/internal/textpipeline"
	"github.com/voxtype/voxtype/internal/transcriber"
)

// toggleDebounce suppresses the repeated EventToggle activations a held
// toggle key produces under OS key-repeat, since KernelInputSource has no
// release listener to pair them against.
const toggleDebounce = 300 * time.Millisecond

// transcribeResult is delivered back to Run's select loop by the goroutine
// running Prepare+Transcribe, so a Cancel event can interrupt it without
// the main loop ever blocking on a backend call.
type transcribeResult struct {
	text           string
	err            error
	outputOverride string
}

// Controller is the daemon's single owner of fsm state. Only Run's
// goroutine touches session/transcription side effects; hotkey sources,
// the IPC server, and timers feed it events, and Handle (called
// concurrently from IPC connections) only reads state or injects events.
type Controller struct {
	logger     *slog.Logger
	cfg        config.Config
	transcribe transcriber.Transcriber
	commit     *output.Committer
	textPipe   *textpipeline.Pipeline
	stateFile  *feedback.StateFile
	cues       *feedback.CuePlayer
	notify     *feedback.Notifier
	external   *hotkey.ExternalTriggerSource
	recorder   Recorder

	mu                    sync.RWMutex
	state                 fsm.State
	session               RecordingSession
	sessionModel          string
	sessionOutput         string
	modelPinned           bool
	pendingModelOverride  string
	pendingOutputOverride string
	queuedPress           bool
	queuedModelModifier   bool
	lastToggleAt          time.Time
	transcribeCancel      context.CancelFunc
	transcribePending     bool

	samplesMu sync.Mutex
	samples   []float32

	transcribeDone chan transcribeResult
}

// NewController wires a Controller from already-constructed dependencies.
// Feedback components (state file, cue player, notifier) are built from
// cfg directly since they are cheap, side-effect-free value types.
func NewController(
	cfg config.Config,
	logger *slog.Logger,
	transcribe transcriber.Transcriber,
	commit *output.Committer,
	textPipe *textpipeline.Pipeline,
) *Controller {
	return &Controller{
		logger:         logger,
		cfg:            cfg,
		transcribe:     transcribe,
		commit:         commit,
		textPipe:       textPipe,
		stateFile:      feedback.NewStateFile(resolveStateFilePath(cfg.Runtime.StateFile)),
		cues:           feedback.NewCuePlayer(cfg.Audio.Feedback),
		notify:         feedback.NewNotifier(cfg.Notify),
		external:       hotkey.NewExternalTriggerSource(),
		recorder:       pulseRecorder{},
		state:          fsm.StateIdle,
		transcribeDone: make(chan transcribeResult, 1),
	}
}

// resolveStateFilePath turns the configured runtime.state_file setting
// into a concrete path. "disabled" yields "" (StateFile.Enabled() is then
// false); "auto" resolves alongside the IPC socket under XDG_RUNTIME_DIR.
func resolveStateFilePath(configured string) string {
	switch configured {
	case config.StateFileDisabled:
		return ""
	case config.StateFileAuto, "":
		runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
		if runtimeDir == "" {
			return ""
		}
		return filepath.Join(runtimeDir, "voxtype.state")
	default:
		return configured
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run acquires the single-instance IPC socket, starts the configured
// hotkey sources, and drives the recording lifecycle until ctx is
// cancelled. It returns once the IPC server and all sources have stopped.
func (c *Controller) Run(ctx context.Context) error {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		return fmt.Errorf("resolve runtime socket: %w", err)
	}

	listener, err := ipc.Acquire(ctx, socketPath, 300*time.Millisecond, 5, nil)
	if err != nil {
		return fmt.Errorf("acquire daemon socket: %w", err)
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, ipc.HandlerFunc(c.Handle))
	}()

	sources := c.buildHotkeySources()
	chans := make([]<-chan hotkey.Event, 0, len(sources))
	for _, src := range sources {
		ch, err := src.Events(ctx)
		if err != nil {
			c.logger.Warn("hotkey source failed to start", "source", src.Name(), "error", err.Error())
			continue
		}
		chans = append(chans, ch)
	}
	externalCh, _ := c.external.Events(ctx)

	defer func() {
		for _, src := range sources {
			src.Stop()
		}
		c.external.Stop()
	}()

	// merged carries only the real hotkey sources (kernel input, signals).
	// externalCh (IPC-originated presses, e.g. `voxtype record start`) is kept out
	// of the merge so the loop below can give it lower priority: a
	// physical hotkey event ready at the same instant as an IPC command
	// is always drained first.
	merged := hotkey.Merge(ctx, chans...)

	c.stateFile.Write(fsm.StateFileToken(fsm.StateIdle))
	c.logger.Info("coordinator started", "socket", socketPath)

	for {
		var timeoutCh <-chan struct{}
		c.mu.RLock()
		if c.session != nil {
			timeoutCh = c.session.Timeout()
		}
		c.mu.RUnlock()

		// Give a ready physical hotkey event priority over everything else,
		// including an equally-ready IPC command, instead of relying on
		// select's pseudo-random tie-break among simultaneously ready cases.
		select {
		case ev, ok := <-merged:
			if !ok {
				continue
			}
			c.handleHotkeyEvent(ctx, ev)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			c.shutdown()
			serverCancel()
			<-serverErrCh
			return ctx.Err()

		case err := <-serverErrCh:
			if err != nil {
				return fmt.Errorf("ipc server stopped: %w", err)
			}
			return nil

		case ev, ok := <-merged:
			if !ok {
				continue
			}
			c.handleHotkeyEvent(ctx, ev)

		case ev, ok := <-externalCh:
			if !ok {
				continue
			}
			c.handleHotkeyEvent(ctx, ev)

		case <-timeoutCh:
			c.handleTimeout(ctx)

		case res := <-c.transcribeDone:
			c.handleTranscribeResult(ctx, res)
		}
	}
}

func (c *Controller) buildHotkeySources() []hotkey.Source {
	sources := make([]hotkey.Source, 0, 2)
	if c.cfg.Hotkey.Enabled {
		sources = append(sources, hotkey.NewKernelInputSource(c.cfg.Hotkey))
	}
	sources = append(sources, hotkey.NewSignalSource())
	return sources
}

func (c *Controller) shutdown() {
	_ = c.transition(fsm.EventStop)
	c.stateFile.Write(fsm.StateFileToken(fsm.StateStopped))

	c.mu.Lock()
	session := c.session
	cancel := c.transcribeCancel
	c.mu.Unlock()

	if session != nil {
		_ = session.Stop()
	}
	if cancel != nil {
		cancel()
	}
}

// Handle serves IPC commands. It runs on a per-connection goroutine
// concurrently with Run and with other Handle calls, so it only reads
// state snapshots and injects events rather than mutating session state
// directly.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: fsm.StateFileToken(c.State())}
	case "start":
		return c.dispatchExternal(hotkey.EventPress, req)
	case "stop":
		return c.dispatchExternal(hotkey.EventRelease, req)
	case "toggle":
		return c.dispatchExternal(hotkey.EventToggle, req)
	case "cancel":
		return c.dispatchExternal(hotkey.EventCancel, req)
	default:
		return ipc.Response{OK: false, State: fsm.StateFileToken(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// dispatchExternal stashes any per-invocation overrides carried by req and
// injects a hotkey-equivalent event for Run's loop to process. It returns
// immediately with the pre-dispatch state; the IPC caller never blocks on
// the outcome of a recording or transcription in progress.
func (c *Controller) dispatchExternal(kind hotkey.EventKind, req ipc.Request) ipc.Response {
	state := c.State()

	if kind == hotkey.EventPress || kind == hotkey.EventToggle {
		c.mu.Lock()
		c.pendingModelOverride = req.ModelOverride
		c.pendingOutputOverride = req.OutputModeOverride
		c.mu.Unlock()
	}

	c.external.Inject(hotkey.Event{Kind: kind})
	return ipc.Response{OK: true, State: fsm.StateFileToken(state), Message: fmt.Sprintf("%s requested", kind)}
}

func (c *Controller) handleHotkeyEvent(ctx context.Context, ev hotkey.Event) {
	switch ev.Kind {
	case hotkey.EventPress:
		c.requestStart(ctx, ev.ModelModifier)
	case hotkey.EventRelease:
		c.handleRelease(ctx)
	case hotkey.EventToggle:
		c.handleToggle(ctx, ev)
	case hotkey.EventCancel:
		c.handleCancel(ctx)
	}
}

// requestStart arms recording from Idle, silently drops a duplicate press
// while already recording (key-repeat), and otherwise queues one press to
// replay as soon as the in-flight transcribe/deliver cycle returns to
// Idle — recording is never dropped just because the previous session
// hadn't finished yet.
func (c *Controller) requestStart(ctx context.Context, modelModifier bool) {
	switch c.State() {
	case fsm.StateIdle:
		c.startRecording(ctx, modelModifier)
	case fsm.StateRecording:
	default:
		c.mu.Lock()
		c.queuedPress = true
		c.queuedModelModifier = modelModifier
		c.mu.Unlock()
	}
}

func (c *Controller) handleRelease(ctx context.Context) {
	if c.State() != fsm.StateRecording {
		return
	}
	c.finishRecording(ctx, fsm.EventRelease)
}

func (c *Controller) handleToggle(ctx context.Context, ev hotkey.Event) {
	now := time.Now()
	c.mu.Lock()
	since := now.Sub(c.lastToggleAt)
	c.lastToggleAt = now
	c.mu.Unlock()
	if since > 0 && since < toggleDebounce {
		return
	}

	if c.State() == fsm.StateRecording {
		c.finishRecording(ctx, fsm.EventToggle)
		return
	}
	c.requestStart(ctx, ev.ModelModifier)
}

func (c *Controller) handleCancel(ctx context.Context) {
	switch c.State() {
	case fsm.StateRecording:
		c.mu.Lock()
		session := c.session
		c.mu.Unlock()
		if session != nil {
			_ = session.Stop()
		}
		_ = c.transition(fsm.EventCancel)
		if err := c.cues.Play(ctx, feedback.CueError); err != nil {
			c.logger.Debug("cancel cue failed", "error", err.Error())
		}
		c.enterIdle(ctx)
	case fsm.StateTranscribing:
		c.mu.Lock()
		cancel := c.transcribeCancel
		c.transcribeCancel = nil
		c.transcribePending = false
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		_ = c.transcribe.Cancel()
		_ = c.transition(fsm.EventCancel)
		c.enterIdle(ctx)
	}
}

func (c *Controller) handleTimeout(ctx context.Context) {
	if c.State() != fsm.StateRecording {
		return
	}
	c.logger.Info("max recording duration reached")
	c.finishRecording(ctx, fsm.EventTimeout)
}

// startRecording selects a capture device, opens a Session against it,
// and begins draining its samples. Any per-invocation overrides pending
// from an IPC-originated start are consumed here and pinned to this
// session only.
func (c *Controller) startRecording(ctx context.Context, modelModifier bool) {
	if err := c.transition(fsm.EventPress); err != nil {
		c.logger.Warn("press rejected", "error", err.Error())
		return
	}

	c.mu.Lock()
	modelOverride := c.pendingModelOverride
	outputOverride := c.pendingOutputOverride
	c.pendingModelOverride = ""
	c.pendingOutputOverride = ""
	c.modelPinned = modelModifier
	c.mu.Unlock()

	maxDuration := time.Duration(c.cfg.Audio.MaxDurationSec) * time.Second
	session, err := c.recorder.StartSession(ctx, c.cfg.Audio.Device, maxDuration)
	if err != nil {
		c.failRecordingStart(ctx, "start audio capture", err)
		return
	}

	c.mu.Lock()
	c.session = session
	c.sessionModel = modelOverride
	c.sessionOutput = outputOverride
	c.mu.Unlock()

	c.samplesMu.Lock()
	c.samples = nil
	c.samplesMu.Unlock()

	go c.drainSamples(session)

	// Start loading the model now so the load overlaps the user's speech.
	model := c.cfg.Transcribe.PrimaryModel
	if modelModifier && c.cfg.Transcribe.SecondaryModel != "" {
		model = c.cfg.Transcribe.SecondaryModel
	}
	if modelOverride != "" {
		model = modelOverride
	}
	go func() {
		if err := c.transcribe.Prepare(ctx, model); err != nil {
			c.logger.Debug("early model prepare failed", "model", model, "error", err.Error())
		}
	}()

	c.stateFile.Write(fsm.StateFileToken(fsm.StateRecording))
	if err := c.notify.NotifyRecordingStarted(ctx); err != nil {
		c.logger.Debug("recording-start notification failed", "error", err.Error())
	}
	if err := c.cues.Play(ctx, feedback.CueStart); err != nil {
		c.logger.Debug("start cue failed", "error", err.Error())
	}
}

func (c *Controller) failRecordingStart(ctx context.Context, step string, err error) {
	c.logger.Error("recording start failed", "step", step, "error", err.Error())
	_ = c.transition(fsm.EventCancel)
	if notifyErr := c.notify.NotifyError(ctx, "Recording failed to start"); notifyErr != nil {
		c.logger.Debug("error notification failed", "error", notifyErr.Error())
	}
	if cueErr := c.cues.Play(ctx, feedback.CueError); cueErr != nil {
		c.logger.Debug("error cue failed", "error", cueErr.Error())
	}
	c.enterIdle(ctx)
}

func (c *Controller) drainSamples(session RecordingSession) {
	for chunk := range session.Samples() {
		c.samplesMu.Lock()
		c.samples = append(c.samples, chunk...)
		c.samplesMu.Unlock()
	}
}

// finishRecording stops capture, applies ev (Release, Toggle, or Timeout —
// all of which move Recording to Transcribing), runs the VAD gate, and
// either short-circuits to Idle or launches transcription in a goroutine
// so a later Cancel event can interrupt it.
func (c *Controller) finishRecording(ctx context.Context, ev fsm.Event) {
	c.mu.Lock()
	session := c.session
	modelOverride := c.sessionModel
	outputOverride := c.sessionOutput
	pinned := c.modelPinned
	c.mu.Unlock()
	if session == nil {
		return
	}
	_ = session.Stop()
	abandoned := session.Abandoned()

	c.samplesMu.Lock()
	pcm := append([]float32(nil), c.samples...)
	c.samplesMu.Unlock()

	if err := c.transition(ev); err != nil {
		c.logger.Warn("recording-stop transition rejected", "event", string(ev), "error", err.Error())
		return
	}

	if err := c.cues.Play(ctx, feedback.CueStop); err != nil {
		c.logger.Debug("stop cue failed", "error", err.Error())
	}

	if abandoned {
		c.logger.Debug("captured buffer below minimum duration, abandoning session")
		_ = c.transition(fsm.EventTranscribeFail)
		c.enterIdle(ctx)
		return
	}

	vadCfg := audio.VADConfig{
		Threshold:   c.cfg.Runtime.VAD.Threshold,
		MinSpeechMS: c.cfg.Runtime.VAD.MinSpeechMS,
		SampleRate:  c.cfg.Audio.SampleRate,
	}
	if c.cfg.Runtime.VAD.Enabled && !audio.DetectSpeech(pcm, vadCfg) {
		c.logger.Debug("no speech detected, skipping transcription")
		if err := c.notify.NotifyError(ctx, "No speech detected"); err != nil {
			c.logger.Debug("no-speech notification failed", "error", err.Error())
		}
		_ = c.transition(fsm.EventTranscribeFail)
		c.enterIdle(ctx)
		return
	}

	c.stateFile.Write(fsm.StateFileToken(fsm.StateTranscribing))
	if err := c.notify.NotifyTranscribing(ctx); err != nil {
		c.logger.Debug("transcribing notification failed", "error", err.Error())
	}

	model := c.cfg.Transcribe.PrimaryModel
	if pinned && c.cfg.Transcribe.SecondaryModel != "" {
		model = c.cfg.Transcribe.SecondaryModel
	}
	if modelOverride != "" {
		model = modelOverride
	}

	transcribeCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.transcribeCancel = cancel
	c.transcribePending = true
	c.mu.Unlock()

	go c.runTranscription(transcribeCtx, model, pcm, outputOverride)
}

func (c *Controller) runTranscription(ctx context.Context, model string, pcm []float32, outputOverride string) {
	if err := c.transcribe.Prepare(ctx, model); err != nil {
		c.transcribeDone <- transcribeResult{err: fmt.Errorf("prepare model %q: %w", model, err)}
		return
	}
	text, err := c.transcribe.Transcribe(ctx, pcm, transcriber.Options{
		Language:  c.cfg.Transcribe.Language,
		Translate: c.cfg.Transcribe.Translate,
	})
	c.transcribeDone <- transcribeResult{text: text, err: err, outputOverride: outputOverride}
}

func (c *Controller) handleTranscribeResult(ctx context.Context, res transcribeResult) {
	c.mu.Lock()
	pending := c.transcribePending
	c.transcribePending = false
	c.transcribeCancel = nil
	c.mu.Unlock()
	if !pending {
		return
	}

	if res.err != nil {
		c.logger.Error("transcription failed", "error", res.err.Error())
		_ = c.transition(fsm.EventTranscribeFail)
		if err := c.notify.NotifyError(ctx, "Transcription failed"); err != nil {
			c.logger.Debug("error notification failed", "error", err.Error())
		}
		if err := c.cues.Play(ctx, feedback.CueError); err != nil {
			c.logger.Debug("error cue failed", "error", err.Error())
		}
		c.enterIdle(ctx)
		return
	}

	text := strings.TrimSpace(res.text)
	if c.textPipe != nil {
		text = c.textPipe.Run(ctx, text)
	}

	if text == "" {
		c.logger.Debug("empty transcript, nothing to deliver")
		_ = c.transition(fsm.EventTranscribeFail)
		c.enterIdle(ctx)
		return
	}

	if err := c.transition(fsm.EventTranscribeSuccess); err != nil {
		c.logger.Warn("transcribe-success transition rejected", "error", err.Error())
		c.enterIdle(ctx)
		return
	}
	c.stateFile.Write(fsm.StateFileToken(fsm.StateOutputting))

	committer := c.commit
	if res.outputOverride != "" {
		outCfg := c.cfg.Output
		outCfg.Mode = config.OutputMode(res.outputOverride)
		committer = output.NewCommitter(outCfg, c.logger)
	}

	if err := committer.Commit(ctx, text); err != nil {
		c.logger.Error("output delivery failed", "error", err.Error())
		_ = c.transition(fsm.EventDeliverFail)
		if notifyErr := c.notify.NotifyError(ctx, "Output delivery failed"); notifyErr != nil {
			c.logger.Debug("error notification failed", "error", notifyErr.Error())
		}
		if cueErr := c.cues.Play(ctx, feedback.CueError); cueErr != nil {
			c.logger.Debug("error cue failed", "error", cueErr.Error())
		}
		c.enterIdle(ctx)
		return
	}

	_ = c.transition(fsm.EventDeliverSuccess)
	if err := c.notify.NotifyFinalText(ctx, text); err != nil {
		c.logger.Debug("final-text notification failed", "error", err.Error())
	}
	c.enterIdle(ctx)
}

// enterIdle clears per-session state, republishes the Idle state token,
// and replays one queued press if a hotkey arrived while busy.
func (c *Controller) enterIdle(ctx context.Context) {
	c.mu.Lock()
	c.session = nil
	c.sessionModel = ""
	c.sessionOutput = ""
	c.modelPinned = false
	c.mu.Unlock()

	c.samplesMu.Lock()
	c.samples = nil
	c.samplesMu.Unlock()

	c.stateFile.Write(fsm.StateFileToken(fsm.StateIdle))

	c.mu.Lock()
	queued := c.queuedPress
	modifier := c.queuedModelModifier
	c.queuedPress = false
	c.mu.Unlock()
	if queued {
		c.startRecording(ctx, modifier)
	}
}
