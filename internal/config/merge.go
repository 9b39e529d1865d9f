package config

import "time"

// Merge applies four Partial overlays on top of a base Config in ascending
// precedence: system file, then user file, then environment, then CLI. Each
// overlay's set fields (non-nil pointers, non-nil slices/maps) win over
// whatever came before; unset fields leave the running value untouched.
func Merge(base Config, systemFile, userFile, env, cli Partial) Config {
	cfg := base
	for _, layer := range []Partial{systemFile, userFile, env, cli} {
		applyPartial(&cfg, layer)
	}
	return cfg
}

func applyPartial(cfg *Config, p Partial) {
	applyHotkey(&cfg.Hotkey, p.Hotkey)
	applyAudio(&cfg.Audio, p.Audio)
	applyTranscribe(&cfg.Transcribe, p.Transcribe)
	applyText(&cfg.Text, p.Text)
	applyOutput(&cfg.Output, p.Output)
	applyNotify(&cfg.Notify, p.Notify)
	applyRuntime(&cfg.Runtime, p.Runtime)
}

func applyHotkey(h *HotkeyConfig, p PartialHotkey) {
	if p.Key != nil {
		h.Key = *p.Key
	}
	if p.Modifiers != nil {
		h.Modifiers = p.Modifiers
	}
	if p.Mode != nil {
		h.Mode = HotkeyMode(*p.Mode)
	}
	if p.Enabled != nil {
		h.Enabled = *p.Enabled
	}
	if p.CancelKey != nil {
		h.CancelKey = *p.CancelKey
	}
	if p.ModelModifier != nil {
		h.ModelModifier = *p.ModelModifier
	}
}

func applyAudio(a *AudioConfig, p PartialAudio) {
	if p.Device != nil {
		a.Device = *p.Device
	}
	if p.SampleRate != nil {
		a.SampleRate = *p.SampleRate
	}
	if p.MaxDurationSec != nil {
		a.MaxDurationSec = *p.MaxDurationSec
	}
	if p.FeedbackEnabled != nil {
		a.Feedback.Enabled = *p.FeedbackEnabled
	}
	if p.FeedbackTheme != nil {
		a.Feedback.Theme = *p.FeedbackTheme
	}
	if p.FeedbackVolume != nil {
		a.Feedback.Volume = *p.FeedbackVolume
	}
}

func applyTranscribe(tr *TranscribeConfig, p PartialTranscribe) {
	if p.Engine != nil {
		tr.Engine = TranscribeEngine(*p.Engine)
	}
	if p.PrimaryModel != nil {
		tr.PrimaryModel = *p.PrimaryModel
	}
	if p.SecondaryModel != nil {
		tr.SecondaryModel = *p.SecondaryModel
	}
	if p.Language != nil {
		tr.Language = *p.Language
	}
	if p.Translate != nil {
		tr.Translate = *p.Translate
	}
	if p.Threads != nil {
		tr.Threads = *p.Threads
	}
	if p.OnDemandLoading != nil {
		tr.OnDemandLoading = *p.OnDemandLoading
	}
	if p.GPUIsolation != nil {
		tr.GPUIsolation = *p.GPUIsolation
	}
	if p.RemoteEndpoint != nil {
		tr.Remote.Endpoint = *p.RemoteEndpoint
	}
	if p.RemoteModel != nil {
		tr.Remote.Model = *p.RemoteModel
	}
	if p.RemoteAPIKey != nil {
		tr.Remote.APIKey = *p.RemoteAPIKey
	}
	if p.RemoteTimeoutMS != nil {
		tr.Remote.Timeout = time.Duration(*p.RemoteTimeoutMS) * time.Millisecond
	}
}

func applyText(tx *TextConfig, p PartialText) {
	if p.SpokenPunctuation != nil {
		tx.SpokenPunctuation = *p.SpokenPunctuation
	}
	if p.Replacements != nil {
		if tx.Replacements == nil {
			tx.Replacements = make(map[string]string, len(p.Replacements))
		}
		for k, v := range p.Replacements {
			tx.Replacements[k] = v
		}
	}
}

func applyOutput(o *OutputConfig, p PartialOutput) {
	if p.Mode != nil {
		o.Mode = OutputMode(*p.Mode)
	}
	if p.PasteKeys != nil {
		o.PasteKeys = *p.PasteKeys
	}
	if p.TypeDelayMS != nil {
		o.TypeDelayMS = *p.TypeDelayMS
	}
	if p.PreTypeDelayMS != nil {
		o.PreTypeDelayMS = *p.PreTypeDelayMS
	}
	if p.AutoSubmit != nil {
		o.AutoSubmit = *p.AutoSubmit
	}
	if p.FallbackToClipboard != nil {
		o.FallbackToClipboard = *p.FallbackToClipboard
	}
	if p.RestoreDelayMS != nil {
		o.RestoreDelayMS = *p.RestoreDelayMS
	}
	if p.FilePath != nil {
		o.File.Path = *p.FilePath
	}
	if p.FileAppendVsOverwrite != nil {
		o.File.AppendVsOverwrite = *p.FileAppendVsOverwrite
	}
	if p.PreHook != nil {
		o.PreHook = *p.PreHook
	}
	if p.PostHook != nil {
		o.PostHook = *p.PostHook
	}
	if p.PostProcessCmd != nil {
		o.PostProcess.Cmd = *p.PostProcessCmd
	}
	if p.PostProcessTimeoutMS != nil {
		o.PostProcess.TimeoutMS = *p.PostProcessTimeoutMS
	}
}

func applyNotify(n *NotifyConfig, p PartialNotify) {
	if p.Backend != nil {
		n.Backend = *p.Backend
	}
	if p.DesktopAppName != nil {
		n.DesktopAppName = *p.DesktopAppName
	}
	if p.ErrorTimeoutMS != nil {
		n.ErrorTimeoutMS = *p.ErrorTimeoutMS
	}
	if p.OnStart != nil {
		n.OnStart = *p.OnStart
	}
	if p.OnStop != nil {
		n.OnStop = *p.OnStop
	}
	if p.OnFinalText != nil {
		n.OnFinalText = *p.OnFinalText
	}
}

func applyRuntime(r *RuntimeConfig, p PartialRuntime) {
	if p.StateFile != nil {
		r.StateFile = *p.StateFile
	}
	if p.VADEnabled != nil {
		r.VAD.Enabled = *p.VADEnabled
	}
	if p.VADBackend != nil {
		r.VAD.Backend = *p.VADBackend
	}
	if p.VADThreshold != nil {
		r.VAD.Threshold = *p.VADThreshold
	}
	if p.VADMinSpeechMS != nil {
		r.VAD.MinSpeechMS = *p.VADMinSpeechMS
	}
}

