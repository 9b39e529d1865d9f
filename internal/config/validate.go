package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if cfg.Hotkey.Enabled && strings.TrimSpace(cfg.Hotkey.Key) == "" {
		return nil, fmt.Errorf("hotkey.key must not be empty when hotkey.enabled=true")
	}
	switch cfg.Hotkey.Mode {
	case HotkeyModePushToTalk, HotkeyModeToggle:
	default:
		return nil, fmt.Errorf("hotkey.mode must be one of: push_to_talk, toggle")
	}

	if strings.TrimSpace(cfg.Audio.Device) == "" {
		return nil, fmt.Errorf("audio.device must not be empty")
	}
	if cfg.Audio.SampleRate <= 0 {
		return nil, fmt.Errorf("audio.sample_rate must be > 0")
	}
	if cfg.Audio.MaxDurationSec <= 0 {
		return nil, fmt.Errorf("audio.max_duration_sec must be > 0")
	}
	if cfg.Audio.Feedback.Volume < 0 || cfg.Audio.Feedback.Volume > 1 {
		return nil, fmt.Errorf("audio.feedback.volume must be within [0, 1]")
	}

	switch cfg.Transcribe.Engine {
	case EngineLocal, EngineRemote, EngineSubprocess:
	default:
		return nil, fmt.Errorf("transcribe.engine must be one of: local, remote, subprocess")
	}
	if cfg.Transcribe.Engine == EngineLocal || cfg.Transcribe.Engine == EngineSubprocess {
		if strings.TrimSpace(cfg.Transcribe.PrimaryModel) == "" {
			return nil, fmt.Errorf("transcribe.primary_model must not be empty for engine=%s", cfg.Transcribe.Engine)
		}
	}
	if cfg.Transcribe.Engine == EngineRemote {
		if strings.TrimSpace(cfg.Transcribe.Remote.Endpoint) == "" {
			return nil, fmt.Errorf("transcribe.remote.endpoint must not be empty for engine=remote")
		}
		if cfg.Transcribe.Remote.Timeout <= 0 {
			return nil, fmt.Errorf("transcribe.remote.timeout must be > 0")
		}
	}
	if cfg.Transcribe.Threads <= 0 {
		return nil, fmt.Errorf("transcribe.threads must be > 0")
	}
	if cfg.Transcribe.GPUIsolation && cfg.Transcribe.Engine != EngineSubprocess {
		warnings = append(warnings, Warning{Message: "transcribe.gpu_isolation has no effect unless transcribe.engine=subprocess"})
	}

	switch cfg.Output.Mode {
	case OutputModeType, OutputModeClipboard, OutputModePaste, OutputModeFile:
	default:
		return nil, fmt.Errorf("output.mode must be one of: type, clipboard, paste, file")
	}
	if cfg.Output.Mode == OutputModePaste && strings.TrimSpace(cfg.Output.PasteKeys) == "" {
		return nil, fmt.Errorf("output.paste_keys must not be empty when output.mode=paste")
	}
	if cfg.Output.Mode == OutputModeFile && strings.TrimSpace(cfg.Output.File.Path) == "" {
		return nil, fmt.Errorf("output.file.path must not be empty when output.mode=file")
	}
	if cfg.Output.File.AppendVsOverwrite != "append" && cfg.Output.File.AppendVsOverwrite != "overwrite" {
		return nil, fmt.Errorf("output.file.append_vs_overwrite must be one of: append, overwrite")
	}
	if cfg.Output.TypeDelayMS < 0 || cfg.Output.PreTypeDelayMS < 0 || cfg.Output.RestoreDelayMS < 0 {
		return nil, fmt.Errorf("output delay values must be >= 0")
	}
	if cfg.Output.PostProcess.Cmd != "" && cfg.Output.PostProcess.TimeoutMS <= 0 {
		return nil, fmt.Errorf("output.post_process.timeout_ms must be > 0 when output.post_process.cmd is set")
	}

	if cfg.Notify.Backend != "hypr" && cfg.Notify.Backend != "desktop" {
		return nil, fmt.Errorf("notify.backend must be one of: hypr, desktop")
	}
	if cfg.Notify.ErrorTimeoutMS <= 0 {
		return nil, fmt.Errorf("notify.error_timeout_ms must be > 0")
	}

	if cfg.Runtime.StateFile != StateFileAuto && cfg.Runtime.StateFile != StateFileDisabled && strings.TrimSpace(cfg.Runtime.StateFile) == "" {
		return nil, fmt.Errorf("runtime.state_file must not be empty")
	}
	if cfg.Runtime.VAD.Enabled {
		if strings.TrimSpace(cfg.Runtime.VAD.Backend) == "" {
			return nil, fmt.Errorf("runtime.vad.backend must not be empty when runtime.vad.enabled=true")
		}
		if cfg.Runtime.VAD.Backend != "energy" {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("runtime.vad.backend %q is not a built-in backend; only \"energy\" ships today", cfg.Runtime.VAD.Backend)})
		}
		if cfg.Runtime.VAD.MinSpeechMS < 0 {
			return nil, fmt.Errorf("runtime.vad.min_speech_ms must be >= 0")
		}
	}

	for from, to := range cfg.Text.Replacements {
		if strings.TrimSpace(from) == "" {
			return nil, fmt.Errorf("text.replacements has an empty key mapping to %q", to)
		}
	}

	return warnings, nil
}
