// Package app wires CLI dispatch: argument parsing, config/logging setup,
// and routing each subcommand to the daemon (in-process), to an IPC
// forward against a running daemon, or to a one-shot local operation.
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
	"github.com/voxtype/voxtype/internal/cli"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/coordinator"
	"github.com/voxtype/voxtype/internal/doctor"
	"github.com/voxtype/voxtype/internal/feedback"
	"github.com/voxtype/voxtype/internal/ipc"
	"github.com/voxtype/voxtype/internal/logging"
	"github.com/voxtype/voxtype/internal/output"
	"github.com/voxtype/voxtype/internal/textpipeline"
	"github.com/voxtype/voxtype/internal/transcriber"
	"github.com/voxtype/voxtype/internal/version"
)

// Runner holds process-level dependencies used by command handlers.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger
}

// Execute is the package entrypoint used by cmd/voxtype/main.go.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr, Stdin: os.Stdin}
	return r.Execute(ctx, args)
}

// Execute parses CLI arguments, loads config/logging, and dispatches a command.
func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("voxtype"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("voxtype"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath, config.Partial{})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.UserPath,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandConfig:
		return r.commandConfig(cfgLoaded.Config)
	case cli.CommandSetup:
		return r.commandSetup(cfgLoaded)
	case cli.CommandStatus:
		return r.commandStatus(ctx, cfgLoaded.Config, parsed)
	case cli.CommandRecord:
		return r.commandRecord(ctx, parsed)
	case cli.CommandTranscribe:
		return r.commandTranscribe(ctx, cfgLoaded.Config, logger, parsed)
	case cli.CommandDaemon:
		return r.commandDaemon(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandDaemon runs the coordinator to completion in this process. It is
// the only command that holds the IPC socket for the daemon's lifetime;
// every other command either forwards to it or runs a local one-shot
// operation.
func (r Runner) commandDaemon(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	transcribe := transcriber.New(cfg.Transcribe)
	committer := output.NewCommitter(cfg.Output, logger)
	textPipe := textpipeline.New(cfg.Text, cfg.Output.PostProcess, logger)

	ctrl := coordinator.NewController(cfg, logger, transcribe, committer, textPipe)
	err := ctrl.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("daemon stopped", "error", err.Error())
		return 1
	}
	return 0
}

// commandRecord forwards a record sub-action to the running daemon,
// carrying any per-invocation --output/--model overrides.
func (r Runner) commandRecord(ctx context.Context, parsed cli.Parsed) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	req := ipc.Request{
		Command:            string(parsed.RecordAction),
		OutputModeOverride: parsed.OutputOverride,
		ModelOverride:      parsed.ModelOverride,
	}
	resp, err := ipc.Send(ctx, socketPath, req, 500*time.Millisecond)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: no running voxtype daemon: %v\n", err)
		return 1
	}
	if !resp.OK {
		fmt.Fprintf(r.Stderr, "error: %s\n", resp.Error)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// statusIcons maps each lifecycle state to the glyph a status bar (e.g.
// Waybar) renders in its "text" field.
var statusIcons = map[string]string{
	"idle":         "idle",
	"recording":    "rec",
	"transcribing": "busy",
	"stopped":      "off",
}

func statusIcon(state string) string {
	if icon, ok := statusIcons[state]; ok {
		return icon
	}
	return "?"
}

// commandStatus prints the daemon's current state, either a single
// snapshot or a continuous stream following the state file.
func (r Runner) commandStatus(ctx context.Context, cfg config.Config, parsed cli.Parsed) int {
	if parsed.StatusFollow {
		return r.commandStatusFollow(ctx, cfg, parsed)
	}

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		return r.printStatus(cfg, parsed, "idle", "")
	}

	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: "status"}, 300*time.Millisecond)
	if err != nil {
		return r.printStatus(cfg, parsed, "idle", "")
	}
	state := resp.State
	if state == "" {
		state = "idle"
	}
	return r.printStatus(cfg, parsed, state, resp.Message)
}

// commandStatusFollow streams state-file transitions until ctx is cancelled.
func (r Runner) commandStatusFollow(ctx context.Context, cfg config.Config, parsed cli.Parsed) int {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if strings.TrimSpace(runtimeDir) == "" {
		fmt.Fprintln(r.Stderr, "error: XDG_RUNTIME_DIR is not set, cannot locate state file")
		return 1
	}
	statePath := runtimeDir + "/voxtype.state"

	out := make(chan string, 8)
	go func() { _ = feedback.Follow(ctx, statePath, out) }()

	for {
		select {
		case <-ctx.Done():
			return 0
		case token, ok := <-out:
			if !ok {
				return 0
			}
			r.printStatus(cfg, parsed, token, "")
		}
	}
}

// printStatus renders state either as the bare state name (text format) or
// as the Waybar-style JSON object status bars poll:
// {"text","class","tooltip","alt"}, extended with {"model","device","backend"}.
func (r Runner) printStatus(cfg config.Config, parsed cli.Parsed, state, message string) int {
	if parsed.StatusFormat == "json" {
		tooltip := message
		if tooltip == "" {
			tooltip = state
		}
		payload := map[string]string{
			"text":    statusIcon(state),
			"class":   state,
			"tooltip": tooltip,
			"alt":     state,
		}
		if parsed.StatusExtended {
			payload["model"] = cfg.Transcribe.PrimaryModel
			payload["device"] = cfg.Audio.Device
			payload["backend"] = string(cfg.Transcribe.Engine)
		}
		enc, _ := json.Marshal(payload)
		fmt.Fprintln(r.Stdout, string(enc))
		return 0
	}
	if parsed.StatusExtended && message != "" {
		fmt.Fprintf(r.Stdout, "%s: %s\n", state, message)
		return 0
	}
	fmt.Fprintln(r.Stdout, state)
	return 0
}

// commandTranscribe runs a one-shot transcription of a local audio file,
// bypassing the daemon and its hotkey/recording machinery entirely.
func (r Runner) commandTranscribe(ctx context.Context, cfg config.Config, logger *slog.Logger, parsed cli.Parsed) int {
	pcm, err := audio.ReadWAVFile(parsed.TranscribeFile)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: read audio file: %v\n", err)
		return 1
	}

	model := cfg.Transcribe.PrimaryModel
	if parsed.ModelOverride != "" {
		model = parsed.ModelOverride
	}

	tr := transcriber.New(cfg.Transcribe)
	if err := tr.Prepare(ctx, model); err != nil {
		fmt.Fprintf(r.Stderr, "error: prepare model: %v\n", err)
		return 1
	}
	text, err := tr.Transcribe(ctx, pcm, transcriber.Options{Language: cfg.Transcribe.Language, Translate: cfg.Transcribe.Translate})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: transcribe: %v\n", err)
		return 1
	}

	textPipe := textpipeline.New(cfg.Text, cfg.Output.PostProcess, logger)
	text = textPipe.Run(ctx, strings.TrimSpace(text))

	outCfg := cfg.Output
	if parsed.OutputOverride != "" {
		outCfg.Mode = config.OutputMode(parsed.OutputOverride)
	}
	committer := output.NewCommitter(outCfg, logger)
	if err := committer.Commit(ctx, text); err != nil {
		fmt.Fprintf(r.Stderr, "error: deliver output: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, text)
	return 0
}

// commandDevices prints discovered input devices and key availability metadata.
func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

// commandConfig prints the fully resolved, merged configuration as JSON.
func (r Runner) commandConfig(cfg config.Config) int {
	enc, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: render config: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, string(enc))
	return 0
}

// commandSetup runs an interactive first-run wizard for the handful of
// settings a new install most needs to get right, then writes a minimal
// user config file.
func (r Runner) commandSetup(loaded config.Loaded) int {
	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	scanner := bufio.NewScanner(stdin)

	ask := func(prompt, def string) string {
		fmt.Fprintf(r.Stdout, "%s [%s]: ", prompt, def)
		if !scanner.Scan() {
			return def
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			return def
		}
		return answer
	}

	cfg := loaded.Config
	hotkeyKey := ask("Hotkey key", cfg.Hotkey.Key)
	device := ask("Audio input device", cfg.Audio.Device)
	model := ask("Whisper model path", cfg.Transcribe.PrimaryModel)
	outputMode := ask("Output mode (type/clipboard/paste/file)", string(cfg.Output.Mode))

	var b strings.Builder
	fmt.Fprintf(&b, "[hotkey]\nkey = %q\n\n", hotkeyKey)
	fmt.Fprintf(&b, "[audio]\ndevice = %q\n\n", device)
	fmt.Fprintf(&b, "[transcribe]\nprimary_model = %q\n\n", model)
	fmt.Fprintf(&b, "[output]\nmode = %q\n", outputMode)

	if err := os.MkdirAll(dirOf(loaded.UserPath), 0o700); err != nil {
		fmt.Fprintf(r.Stderr, "error: create config directory: %v\n", err)
		return 1
	}
	if err := os.WriteFile(loaded.UserPath, []byte(b.String()), 0o600); err != nil {
		fmt.Fprintf(r.Stderr, "error: write config file: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "wrote %s\n", loaded.UserPath)
	return 0
}

func dirOf(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "."
	}
	return path[:idx]
}
