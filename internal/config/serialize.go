package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Serialize renders a Partial back into the same TOML-ish format ParseFile
// consumes: [section] headers followed by key = value lines, one section per
// non-empty sub-struct, fields emitted only when set. It exists so
// load(serialize(C)) = C holds for the subset of fields Partial can express;
// UnknownKeys are deliberately not re-emitted, since they were never a
// mutation this layer owns, only a warning about the one that wrote them.
func Serialize(p Partial) string {
	var b strings.Builder

	writeSection(&b, "hotkey", serializeHotkey(p.Hotkey))
	writeSection(&b, "audio", serializeAudio(p.Audio))
	writeSection(&b, "transcribe", serializeTranscribe(p.Transcribe))
	writeSection(&b, "text", serializeText(p.Text))
	writeSection(&b, "text.replacements", serializeReplacements(p.Text.Replacements))
	writeSection(&b, "output", serializeOutput(p.Output))
	writeSection(&b, "notify", serializeNotify(p.Notify))
	writeSection(&b, "runtime", serializeRuntime(p.Runtime))

	return b.String()
}

func writeSection(b *strings.Builder, name string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "[%s]\n", name)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func serializeHotkey(h PartialHotkey) []string {
	var lines []string
	if h.Key != nil {
		lines = append(lines, kvString("key", *h.Key))
	}
	if h.Modifiers != nil {
		lines = append(lines, fmt.Sprintf("modifiers = %s", strings.Join(h.Modifiers, ",")))
	}
	if h.Mode != nil {
		lines = append(lines, kvString("mode", *h.Mode))
	}
	if h.Enabled != nil {
		lines = append(lines, kvBool("enabled", *h.Enabled))
	}
	if h.CancelKey != nil {
		lines = append(lines, kvString("cancel_key", *h.CancelKey))
	}
	if h.ModelModifier != nil {
		lines = append(lines, kvString("model_modifier", *h.ModelModifier))
	}
	return lines
}

func serializeAudio(a PartialAudio) []string {
	var lines []string
	if a.Device != nil {
		lines = append(lines, kvString("device", *a.Device))
	}
	if a.SampleRate != nil {
		lines = append(lines, kvInt("sample_rate", *a.SampleRate))
	}
	if a.MaxDurationSec != nil {
		lines = append(lines, kvInt("max_duration_sec", *a.MaxDurationSec))
	}
	if a.FeedbackEnabled != nil {
		lines = append(lines, kvBool("feedback_enabled", *a.FeedbackEnabled))
	}
	if a.FeedbackTheme != nil {
		lines = append(lines, kvString("feedback_theme", *a.FeedbackTheme))
	}
	if a.FeedbackVolume != nil {
		lines = append(lines, kvFloat("feedback_volume", *a.FeedbackVolume))
	}
	return lines
}

func serializeTranscribe(tr PartialTranscribe) []string {
	var lines []string
	if tr.Engine != nil {
		lines = append(lines, kvString("engine", *tr.Engine))
	}
	if tr.PrimaryModel != nil {
		lines = append(lines, kvString("primary_model", *tr.PrimaryModel))
	}
	if tr.SecondaryModel != nil {
		lines = append(lines, kvString("secondary_model", *tr.SecondaryModel))
	}
	if tr.Language != nil {
		lines = append(lines, kvString("language", *tr.Language))
	}
	if tr.Translate != nil {
		lines = append(lines, kvBool("translate", *tr.Translate))
	}
	if tr.Threads != nil {
		lines = append(lines, kvInt("threads", *tr.Threads))
	}
	if tr.OnDemandLoading != nil {
		lines = append(lines, kvBool("on_demand_loading", *tr.OnDemandLoading))
	}
	if tr.GPUIsolation != nil {
		lines = append(lines, kvBool("gpu_isolation", *tr.GPUIsolation))
	}
	if tr.RemoteEndpoint != nil {
		lines = append(lines, kvString("remote_endpoint", *tr.RemoteEndpoint))
	}
	if tr.RemoteModel != nil {
		lines = append(lines, kvString("remote_model", *tr.RemoteModel))
	}
	if tr.RemoteAPIKey != nil {
		lines = append(lines, kvString("remote_api_key", *tr.RemoteAPIKey))
	}
	if tr.RemoteTimeoutMS != nil {
		lines = append(lines, kvInt("remote_timeout_ms", *tr.RemoteTimeoutMS))
	}
	return lines
}

func serializeText(tx PartialText) []string {
	var lines []string
	if tx.SpokenPunctuation != nil {
		lines = append(lines, kvBool("spoken_punctuation", *tx.SpokenPunctuation))
	}
	return lines
}

func serializeReplacements(replacements map[string]string) []string {
	if len(replacements) == 0 {
		return nil
	}
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, kvString(k, replacements[k]))
	}
	return lines
}

func serializeOutput(o PartialOutput) []string {
	var lines []string
	if o.Mode != nil {
		lines = append(lines, kvString("mode", *o.Mode))
	}
	if o.PasteKeys != nil {
		lines = append(lines, kvString("paste_keys", *o.PasteKeys))
	}
	if o.TypeDelayMS != nil {
		lines = append(lines, kvInt("type_delay_ms", *o.TypeDelayMS))
	}
	if o.PreTypeDelayMS != nil {
		lines = append(lines, kvInt("pre_type_delay_ms", *o.PreTypeDelayMS))
	}
	if o.AutoSubmit != nil {
		lines = append(lines, kvBool("auto_submit", *o.AutoSubmit))
	}
	if o.FallbackToClipboard != nil {
		lines = append(lines, kvBool("fallback_to_clipboard", *o.FallbackToClipboard))
	}
	if o.RestoreDelayMS != nil {
		lines = append(lines, kvInt("restore_delay_ms", *o.RestoreDelayMS))
	}
	if o.FilePath != nil {
		lines = append(lines, kvString("file_path", *o.FilePath))
	}
	if o.FileAppendVsOverwrite != nil {
		lines = append(lines, kvString("file_append_vs_overwrite", *o.FileAppendVsOverwrite))
	}
	if o.PreHook != nil {
		lines = append(lines, kvString("pre_hook", *o.PreHook))
	}
	if o.PostHook != nil {
		lines = append(lines, kvString("post_hook", *o.PostHook))
	}
	if o.PostProcessCmd != nil {
		lines = append(lines, kvString("post_process_cmd", *o.PostProcessCmd))
	}
	if o.PostProcessTimeoutMS != nil {
		lines = append(lines, kvInt("post_process_timeout_ms", *o.PostProcessTimeoutMS))
	}
	return lines
}

func serializeNotify(n PartialNotify) []string {
	var lines []string
	if n.Backend != nil {
		lines = append(lines, kvString("backend", *n.Backend))
	}
	if n.DesktopAppName != nil {
		lines = append(lines, kvString("desktop_app_name", *n.DesktopAppName))
	}
	if n.ErrorTimeoutMS != nil {
		lines = append(lines, kvInt("error_timeout_ms", *n.ErrorTimeoutMS))
	}
	if n.OnStart != nil {
		lines = append(lines, kvBool("on_start", *n.OnStart))
	}
	if n.OnStop != nil {
		lines = append(lines, kvBool("on_stop", *n.OnStop))
	}
	if n.OnFinalText != nil {
		lines = append(lines, kvBool("on_final_text", *n.OnFinalText))
	}
	return lines
}

func serializeRuntime(r PartialRuntime) []string {
	var lines []string
	if r.StateFile != nil {
		lines = append(lines, kvString("state_file", *r.StateFile))
	}
	if r.VADEnabled != nil {
		lines = append(lines, kvBool("vad_enabled", *r.VADEnabled))
	}
	if r.VADBackend != nil {
		lines = append(lines, kvString("vad_backend", *r.VADBackend))
	}
	if r.VADThreshold != nil {
		lines = append(lines, kvFloat("vad_threshold", *r.VADThreshold))
	}
	if r.VADMinSpeechMS != nil {
		lines = append(lines, kvInt("vad_min_speech_ms", *r.VADMinSpeechMS))
	}
	return lines
}

func kvString(key, value string) string {
	return fmt.Sprintf("%s = %q", key, value)
}

func kvBool(key string, value bool) string {
	return fmt.Sprintf("%s = %s", key, strconv.FormatBool(value))
}

func kvInt(key string, value int) string {
	return fmt.Sprintf("%s = %d", key, value)
}

func kvFloat(key string, value float64) string {
	return fmt.Sprintf("%s = %s", key, strconv.FormatFloat(value, 'g', -1, 64))
}
