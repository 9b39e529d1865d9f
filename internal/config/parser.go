// Package config resolves, merges, validates, and defaults voxtype
// configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFile scans a config file's contents (TOML-ish sections of key = value
// pairs) into a Partial overlay. It is intentionally small and hand-rolled:
// the file format is a narrow external seam, not a core concern, so no
// generic TOML decoder is pulled in for it.
func ParseFile(content string) (Partial, []Warning, error) {
	var partial Partial
	warnings := make([]Warning, 0)

	section := ""
	for lineNo, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return Partial{}, nil, fmt.Errorf("line %d: unterminated section header %q", lineNo+1, line)
			}
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Partial{}, nil, fmt.Errorf("line %d: expected key = value, got %q", lineNo+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		unwrapped, err := unwrapScalar(value)
		if err != nil {
			return Partial{}, nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}

		matched, err := applyKey(&partial, section, key, unwrapped)
		if err != nil {
			return Partial{}, nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if !matched {
			partial.UnknownKeys = append(partial.UnknownKeys, fmt.Sprintf("%s.%s", section, key))
			warnings = append(warnings, Warning{
				Line:    lineNo + 1,
				Message: fmt.Sprintf("unrecognized config key %q in section %q", key, section),
			})
		}
	}

	return partial, warnings, nil
}

// applyKey sets one dotted (section, key) pair on the partial overlay. It
// returns false for keys it doesn't recognize so the caller can warn, and an
// error if the key is recognized but its value can't be parsed.
func applyKey(p *Partial, section, key, value string) (bool, error) {
	switch section {
	case "hotkey":
		return applyHotkeyKey(&p.Hotkey, key, value)
	case "audio":
		return applyAudioKey(&p.Audio, key, value)
	case "transcribe":
		return applyTranscribeKey(&p.Transcribe, key, value)
	case "text":
		return applyTextKey(&p.Text, key, value)
	case "text.replacements":
		if p.Text.Replacements == nil {
			p.Text.Replacements = make(map[string]string)
		}
		p.Text.Replacements[key] = value
		return true, nil
	case "output":
		return applyOutputKey(&p.Output, key, value)
	case "notify":
		return applyNotifyKey(&p.Notify, key, value)
	case "runtime":
		return applyRuntimeKey(&p.Runtime, key, value)
	default:
		return false, nil
	}
}

func applyNotifyKey(n *PartialNotify, key, value string) (bool, error) {
	switch key {
	case "backend":
		n.Backend = strPtr(value)
	case "desktop_app_name":
		n.DesktopAppName = strPtr(value)
	case "error_timeout_ms":
		v, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("notify.error_timeout_ms: %w", err)
		}
		n.ErrorTimeoutMS = &v
	case "on_start":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("notify.on_start: %w", err)
		}
		n.OnStart = &b
	case "on_stop":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("notify.on_stop: %w", err)
		}
		n.OnStop = &b
	case "on_final_text":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("notify.on_final_text: %w", err)
		}
		n.OnFinalText = &b
	default:
		return false, nil
	}
	return true, nil
}

func applyHotkeyKey(h *PartialHotkey, key, value string) (bool, error) {
	switch key {
	case "key":
		h.Key = strPtr(value)
	case "modifiers":
		h.Modifiers = splitCSV(value)
	case "mode":
		h.Mode = strPtr(value)
	case "enabled":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("hotkey.enabled: %w", err)
		}
		h.Enabled = &b
	case "cancel_key":
		h.CancelKey = strPtr(value)
	case "model_modifier":
		h.ModelModifier = strPtr(value)
	default:
		return false, nil
	}
	return true, nil
}

func applyAudioKey(a *PartialAudio, key, value string) (bool, error) {
	switch key {
	case "device":
		a.Device = strPtr(value)
	case "sample_rate":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("audio.sample_rate: %w", err)
		}
		a.SampleRate = &n
	case "max_duration_sec":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("audio.max_duration_sec: %w", err)
		}
		a.MaxDurationSec = &n
	case "feedback_enabled":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("audio.feedback_enabled: %w", err)
		}
		a.FeedbackEnabled = &b
	case "feedback_theme":
		a.FeedbackTheme = strPtr(value)
	case "feedback_volume":
		f, err := parseFloat(value)
		if err != nil {
			return true, fmt.Errorf("audio.feedback_volume: %w", err)
		}
		a.FeedbackVolume = &f
	default:
		return false, nil
	}
	return true, nil
}

func applyTranscribeKey(tr *PartialTranscribe, key, value string) (bool, error) {
	switch key {
	case "engine":
		tr.Engine = strPtr(value)
	case "primary_model":
		tr.PrimaryModel = strPtr(value)
	case "secondary_model":
		tr.SecondaryModel = strPtr(value)
	case "language":
		tr.Language = strPtr(value)
	case "translate":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("transcribe.translate: %w", err)
		}
		tr.Translate = &b
	case "threads":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("transcribe.threads: %w", err)
		}
		tr.Threads = &n
	case "on_demand_loading":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("transcribe.on_demand_loading: %w", err)
		}
		tr.OnDemandLoading = &b
	case "gpu_isolation":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("transcribe.gpu_isolation: %w", err)
		}
		tr.GPUIsolation = &b
	case "remote_endpoint":
		tr.RemoteEndpoint = strPtr(value)
	case "remote_model":
		tr.RemoteModel = strPtr(value)
	case "remote_api_key":
		tr.RemoteAPIKey = strPtr(value)
	case "remote_timeout_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("transcribe.remote_timeout_ms: %w", err)
		}
		tr.RemoteTimeoutMS = &n
	default:
		return false, nil
	}
	return true, nil
}

func applyTextKey(tx *PartialText, key, value string) (bool, error) {
	switch key {
	case "spoken_punctuation":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("text.spoken_punctuation: %w", err)
		}
		tx.SpokenPunctuation = &b
	default:
		return false, nil
	}
	return true, nil
}

func applyOutputKey(o *PartialOutput, key, value string) (bool, error) {
	switch key {
	case "mode":
		o.Mode = strPtr(value)
	case "paste_keys":
		o.PasteKeys = strPtr(value)
	case "type_delay_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("output.type_delay_ms: %w", err)
		}
		o.TypeDelayMS = &n
	case "pre_type_delay_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("output.pre_type_delay_ms: %w", err)
		}
		o.PreTypeDelayMS = &n
	case "auto_submit":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("output.auto_submit: %w", err)
		}
		o.AutoSubmit = &b
	case "fallback_to_clipboard":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("output.fallback_to_clipboard: %w", err)
		}
		o.FallbackToClipboard = &b
	case "restore_delay_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("output.restore_delay_ms: %w", err)
		}
		o.RestoreDelayMS = &n
	case "file_path":
		o.FilePath = strPtr(value)
	case "file_append_vs_overwrite":
		o.FileAppendVsOverwrite = strPtr(value)
	case "pre_hook":
		o.PreHook = strPtr(value)
	case "post_hook":
		o.PostHook = strPtr(value)
	case "post_process_cmd":
		o.PostProcessCmd = strPtr(value)
	case "post_process_timeout_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("output.post_process_timeout_ms: %w", err)
		}
		o.PostProcessTimeoutMS = &n
	default:
		return false, nil
	}
	return true, nil
}

func applyRuntimeKey(r *PartialRuntime, key, value string) (bool, error) {
	switch key {
	case "state_file":
		r.StateFile = strPtr(value)
	case "vad_enabled":
		b, err := parseBool(value)
		if err != nil {
			return true, fmt.Errorf("runtime.vad_enabled: %w", err)
		}
		r.VADEnabled = &b
	case "vad_backend":
		r.VADBackend = strPtr(value)
	case "vad_threshold":
		f, err := parseFloat(value)
		if err != nil {
			return true, fmt.Errorf("runtime.vad_threshold: %w", err)
		}
		r.VADThreshold = &f
	case "vad_min_speech_ms":
		n, err := parseInt(value)
		if err != nil {
			return true, fmt.Errorf("runtime.vad_min_speech_ms: %w", err)
		}
		r.VADMinSpeechMS = &n
	default:
		return false, nil
	}
	return true, nil
}

func unwrapScalar(value string) (string, error) {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1], nil
	}
	if strings.ContainsAny(value, "\"") {
		return "", fmt.Errorf("unterminated quoted value %q", value)
	}
	return value, nil
}

func splitCSV(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func strPtr(v string) *string { return &v }

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", v)
	}
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(v))
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}
