package config

import "time"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Hotkey: HotkeyConfig{
			Key:           "F9",
			Modifiers:     nil,
			Mode:          HotkeyModePushToTalk,
			Enabled:       true,
			CancelKey:     "Escape",
			ModelModifier: "",
		},
		Audio: AudioConfig{
			Device:         "default",
			SampleRate:     16000,
			MaxDurationSec: 120,
			Feedback: FeedbackConfig{
				Enabled: true,
				Theme:   "default",
				Volume:  0.6,
			},
		},
		Transcribe: TranscribeConfig{
			Engine:          EngineLocal,
			PrimaryModel:    "base.en",
			SecondaryModel:  "",
			Language:        "en",
			Translate:       false,
			Threads:         4,
			OnDemandLoading: false,
			GPUIsolation:    false,
			Remote: RemoteConfig{
				Endpoint: "",
				Model:    "",
				APIKey:   "",
				Timeout:  30 * time.Second,
			},
		},
		Text: TextConfig{
			SpokenPunctuation: true,
			Replacements:      map[string]string{},
		},
		Output: OutputConfig{
			Mode:                OutputModeType,
			PasteKeys:           "CTRL,V",
			TypeDelayMS:         0,
			PreTypeDelayMS:      0,
			AutoSubmit:          false,
			FallbackToClipboard: true,
			RestoreDelayMS:      0,
			File: FileOutputConfig{
				Path:              "",
				AppendVsOverwrite: "append",
			},
			PreHook:  "",
			PostHook: "",
			PostProcess: PostProcessConfig{
				Cmd:       "",
				TimeoutMS: 2000,
			},
		},
		Notify: NotifyConfig{
			Backend:        "hypr",
			DesktopAppName: "voxtype",
			ErrorTimeoutMS: 1200,
			OnStart:        true,
			OnStop:         false,
			OnFinalText:    true,
		},
		Runtime: RuntimeConfig{
			StateFile: StateFileAuto,
			VAD: VADConfig{
				Enabled:     false,
				Backend:     "energy",
				Threshold:   0.02,
				MinSpeechMS: 250,
			},
		},
	}
}
