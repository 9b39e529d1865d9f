package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFileSerializeRoundTrip(t *testing.T) {
	hotkeyEnabled := true
	sampleRate := 48000
	translate := true
	autoSubmit := false
	onStart := true
	vadEnabled := true

	partial := Partial{
		Hotkey: PartialHotkey{
			Key:           strPtr("F10"),
			Modifiers:     []string{"ctrl", "alt"},
			Mode:          strPtr("toggle"),
			Enabled:       &hotkeyEnabled,
			CancelKey:     strPtr("Escape"),
			ModelModifier: strPtr("shift"),
		},
		Audio: PartialAudio{
			Device:         strPtr("Elgato Wave"),
			SampleRate:     &sampleRate,
			FeedbackVolume: floatPtr(0.25),
		},
		Transcribe: PartialTranscribe{
			Engine:       strPtr("local"),
			PrimaryModel: strPtr("base.en"),
			Translate:    &translate,
		},
		Text: PartialText{
			Replacements: map[string]string{"teh": "the", "adn": "and"},
		},
		Output: PartialOutput{
			Mode:       strPtr("type"),
			AutoSubmit: &autoSubmit,
		},
		Notify: PartialNotify{
			OnStart: &onStart,
		},
		Runtime: PartialRuntime{
			VADEnabled: &vadEnabled,
		},
	}

	serialized := Serialize(partial)

	roundTripped, warnings, err := ParseFile(serialized)
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, *partial.Hotkey.Key, *roundTripped.Hotkey.Key)
	require.Equal(t, partial.Hotkey.Modifiers, roundTripped.Hotkey.Modifiers)
	require.Equal(t, *partial.Hotkey.Mode, *roundTripped.Hotkey.Mode)
	require.Equal(t, *partial.Hotkey.Enabled, *roundTripped.Hotkey.Enabled)
	require.Equal(t, *partial.Hotkey.CancelKey, *roundTripped.Hotkey.CancelKey)
	require.Equal(t, *partial.Hotkey.ModelModifier, *roundTripped.Hotkey.ModelModifier)

	require.Equal(t, *partial.Audio.Device, *roundTripped.Audio.Device)
	require.Equal(t, *partial.Audio.SampleRate, *roundTripped.Audio.SampleRate)
	require.InDelta(t, *partial.Audio.FeedbackVolume, *roundTripped.Audio.FeedbackVolume, 1e-9)

	require.Equal(t, *partial.Transcribe.Engine, *roundTripped.Transcribe.Engine)
	require.Equal(t, *partial.Transcribe.PrimaryModel, *roundTripped.Transcribe.PrimaryModel)
	require.Equal(t, *partial.Transcribe.Translate, *roundTripped.Transcribe.Translate)

	require.Equal(t, partial.Text.Replacements, roundTripped.Text.Replacements)

	require.Equal(t, *partial.Output.Mode, *roundTripped.Output.Mode)
	require.Equal(t, *partial.Output.AutoSubmit, *roundTripped.Output.AutoSubmit)

	require.Equal(t, *partial.Notify.OnStart, *roundTripped.Notify.OnStart)

	require.Equal(t, *partial.Runtime.VADEnabled, *roundTripped.Runtime.VADEnabled)
}

func TestSerializeEmptyPartialProducesEmptyOutput(t *testing.T) {
	require.Empty(t, Serialize(Partial{}))
}

func floatPtr(f float64) *float64 { return &f }
