// Package config resolves, merges, validates, and defaults voxtype
// configuration across the defaults -> system file -> user file -> env ->
// CLI precedence chain.
package config

import "time"

// Config is the fully materialized runtime configuration used by voxtype.
type Config struct {
	Hotkey     HotkeyConfig
	Audio      AudioConfig
	Transcribe TranscribeConfig
	Text       TextConfig
	Output     OutputConfig
	Notify     NotifyConfig
	Runtime    RuntimeConfig
}

// HotkeyMode selects push-to-talk vs toggle semantics.
type HotkeyMode string

const (
	HotkeyModePushToTalk HotkeyMode = "push_to_talk"
	HotkeyModeToggle     HotkeyMode = "toggle"
)

// HotkeyConfig controls which key combination arms recording.
type HotkeyConfig struct {
	Key           string
	Modifiers     []string
	Mode          HotkeyMode
	Enabled       bool
	CancelKey     string
	ModelModifier string
}

// FeedbackConfig controls audio cue playback during recording.
type FeedbackConfig struct {
	Enabled bool
	Theme   string
	Volume  float64
}

// AudioConfig controls capture device selection and session bounds.
type AudioConfig struct {
	Device         string
	SampleRate     int
	MaxDurationSec int
	Feedback       FeedbackConfig
}

// RemoteConfig controls the HTTP remote transcription backend.
type RemoteConfig struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// TranscribeEngine selects the transcriber backend variant.
type TranscribeEngine string

const (
	EngineLocal      TranscribeEngine = "local"
	EngineRemote     TranscribeEngine = "remote"
	EngineSubprocess TranscribeEngine = "subprocess"
)

// TranscribeConfig controls model selection and inference behavior.
type TranscribeConfig struct {
	Engine          TranscribeEngine
	PrimaryModel    string
	SecondaryModel  string
	Language        string
	Translate       bool
	Threads         int
	OnDemandLoading bool
	GPUIsolation    bool
	Remote          RemoteConfig
}

// TextConfig controls post-transcription text normalization.
type TextConfig struct {
	SpokenPunctuation bool
	Replacements      map[string]string
}

// OutputMode selects the output sink's primary delivery strategy.
type OutputMode string

const (
	OutputModeType      OutputMode = "type"
	OutputModeClipboard OutputMode = "clipboard"
	OutputModePaste     OutputMode = "paste"
	OutputModeFile      OutputMode = "file"
)

// FileOutputConfig controls the file output backend.
type FileOutputConfig struct {
	Path              string
	AppendVsOverwrite string // "append" or "overwrite"
}

// PostProcessConfig controls the optional external text post-processor.
type PostProcessConfig struct {
	Cmd       string
	TimeoutMS int
}

// OutputConfig controls text delivery to the focused application.
type OutputConfig struct {
	Mode                OutputMode
	PasteKeys           string
	TypeDelayMS         int
	PreTypeDelayMS      int
	AutoSubmit          bool
	FallbackToClipboard bool
	RestoreDelayMS      int
	File                FileOutputConfig
	PreHook             string
	PostHook            string
	PostProcess         PostProcessConfig
}

// NotifyConfig controls desktop/compositor notification dispatch,
// independent of the audio cue feedback played on the same events.
type NotifyConfig struct {
	Backend        string // "hypr" or "desktop"
	DesktopAppName string
	ErrorTimeoutMS int
	OnStart        bool
	OnStop         bool
	OnFinalText    bool
}

// VADConfig controls the optional voice-activity-detection gate.
type VADConfig struct {
	Enabled     bool
	Backend     string
	Threshold   float64
	MinSpeechMS int
}

// State-file config sentinels for RuntimeConfig.StateFile.
const (
	StateFileAuto     = "auto"
	StateFileDisabled = "disabled"
)

// RuntimeConfig controls the state file and VAD gate.
type RuntimeConfig struct {
	StateFile string
	VAD       VADConfig
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Layer   string
	Line    int
	Message string
}

// Partial is a sparse configuration overlay produced by decoding one
// config layer (a file, the environment, or CLI overrides). Pointer and
// nil-slice/nil-map fields distinguish "unset" from "set to zero value" so
// Merge can apply precedence correctly field by field.
type Partial struct {
	Hotkey     PartialHotkey
	Audio      PartialAudio
	Transcribe PartialTranscribe
	Text       PartialText
	Output     PartialOutput
	Notify     PartialNotify
	Runtime    PartialRuntime

	// UnknownKeys records dotted-path keys this layer set that are not
	// recognized fields, surfaced to the caller as Warnings.
	UnknownKeys []string
}

type PartialHotkey struct {
	Key           *string
	Modifiers     []string
	Mode          *string
	Enabled       *bool
	CancelKey     *string
	ModelModifier *string
}

type PartialAudio struct {
	Device          *string
	SampleRate      *int
	MaxDurationSec  *int
	FeedbackEnabled *bool
	FeedbackTheme   *string
	FeedbackVolume  *float64
}

type PartialTranscribe struct {
	Engine          *string
	PrimaryModel    *string
	SecondaryModel  *string
	Language        *string
	Translate       *bool
	Threads         *int
	OnDemandLoading *bool
	GPUIsolation    *bool
	RemoteEndpoint  *string
	RemoteModel     *string
	RemoteAPIKey    *string
	RemoteTimeoutMS *int
}

type PartialText struct {
	SpokenPunctuation *bool
	Replacements      map[string]string
}

type PartialOutput struct {
	Mode                  *string
	PasteKeys             *string
	TypeDelayMS           *int
	PreTypeDelayMS        *int
	AutoSubmit            *bool
	FallbackToClipboard   *bool
	RestoreDelayMS        *int
	FilePath              *string
	FileAppendVsOverwrite *string
	PreHook               *string
	PostHook              *string
	PostProcessCmd        *string
	PostProcessTimeoutMS  *int
}

type PartialNotify struct {
	Backend        *string
	DesktopAppName *string
	ErrorTimeoutMS *int
	OnStart        *bool
	OnStop         *bool
	OnFinalText    *bool
}

type PartialRuntime struct {
	StateFile      *string
	VADEnabled     *bool
	VADBackend     *string
	VADThreshold   *float64
	VADMinSpeechMS *int
}
