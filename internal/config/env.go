package config

import (
	"fmt"
	"os"
	"strings"
)

// envBindings maps each VOXTYPE_* environment variable to the (section, key)
// pair it overlays. Env vars are a fixed, known set deliberately smaller than
// the file format: anything not listed here is ignored rather than
// surfaced as an unknown-key warning, since arbitrary env vars unrelated to
// voxtype are common in a user's shell.
var envBindings = map[string][2]string{
	"VOXTYPE_HOTKEY_KEY":             {"hotkey", "key"},
	"VOXTYPE_HOTKEY_MODIFIERS":       {"hotkey", "modifiers"},
	"VOXTYPE_HOTKEY_MODE":            {"hotkey", "mode"},
	"VOXTYPE_HOTKEY_ENABLED":         {"hotkey", "enabled"},
	"VOXTYPE_HOTKEY_CANCEL_KEY":      {"hotkey", "cancel_key"},
	"VOXTYPE_HOTKEY_MODEL_MODIFIER":  {"hotkey", "model_modifier"},
	"VOXTYPE_AUDIO_DEVICE":           {"audio", "device"},
	"VOXTYPE_AUDIO_SAMPLE_RATE":      {"audio", "sample_rate"},
	"VOXTYPE_AUDIO_MAX_DURATION_SEC": {"audio", "max_duration_sec"},
	"VOXTYPE_AUDIO_FEEDBACK_ENABLED": {"audio", "feedback_enabled"},
	"VOXTYPE_AUDIO_FEEDBACK_THEME":   {"audio", "feedback_theme"},
	"VOXTYPE_TRANSCRIBE_ENGINE":          {"transcribe", "engine"},
	"VOXTYPE_TRANSCRIBE_PRIMARY_MODEL":   {"transcribe", "primary_model"},
	"VOXTYPE_TRANSCRIBE_SECONDARY_MODEL": {"transcribe", "secondary_model"},
	"VOXTYPE_TRANSCRIBE_LANGUAGE":        {"transcribe", "language"},
	"VOXTYPE_TRANSCRIBE_THREADS":         {"transcribe", "threads"},
	"VOXTYPE_TRANSCRIBE_REMOTE_ENDPOINT": {"transcribe", "remote_endpoint"},
	"VOXTYPE_TRANSCRIBE_REMOTE_MODEL":    {"transcribe", "remote_model"},
	"VOXTYPE_TRANSCRIBE_REMOTE_API_KEY":  {"transcribe", "remote_api_key"},
	"VOXTYPE_TEXT_SPOKEN_PUNCTUATION": {"text", "spoken_punctuation"},
	"VOXTYPE_OUTPUT_MODE":              {"output", "mode"},
	"VOXTYPE_OUTPUT_PASTE_KEYS":        {"output", "paste_keys"},
	"VOXTYPE_OUTPUT_FILE_PATH":         {"output", "file_path"},
	"VOXTYPE_OUTPUT_PRE_HOOK":          {"output", "pre_hook"},
	"VOXTYPE_OUTPUT_POST_HOOK":         {"output", "post_hook"},
	"VOXTYPE_NOTIFY_BACKEND":           {"notify", "backend"},
	"VOXTYPE_NOTIFY_ON_START":          {"notify", "on_start"},
	"VOXTYPE_NOTIFY_ON_STOP":           {"notify", "on_stop"},
	"VOXTYPE_NOTIFY_ON_FINAL_TEXT":     {"notify", "on_final_text"},
	"VOXTYPE_RUNTIME_STATE_FILE":       {"runtime", "state_file"},
	"VOXTYPE_RUNTIME_VAD_ENABLED":      {"runtime", "vad_enabled"},
	"VOXTYPE_RUNTIME_VAD_BACKEND":      {"runtime", "vad_backend"},
}

// ParseEnviron builds a Partial overlay from a process environment (the
// os.Environ() slice form, so callers can pass a fake environment in tests).
func ParseEnviron(environ []string) (Partial, error) {
	var partial Partial

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		binding, known := envBindings[name]
		if !known {
			continue
		}

		section, key := binding[0], binding[1]
		if _, err := applyKey(&partial, section, key, value); err != nil {
			return Partial{}, fmt.Errorf("env %s: %w", name, err)
		}
	}

	return partial, nil
}

// LookupEnviron is a convenience wrapper over os.Environ for production use.
func LookupEnviron() (Partial, error) {
	return ParseEnviron(os.Environ())
}
