package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFileAppliesRecognizedKeys(t *testing.T) {
	input := `
# a comment
[hotkey]
key = "F10"
modifiers = "ctrl, alt"
mode = "toggle"
enabled = true

[audio]
device = "Elgato Wave"
sample_rate = 48000
feedback_volume = 0.25

[text.replacements]
teh = "the"
`

	partial, warnings, err := ParseFile(input)
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, "F10", *partial.Hotkey.Key)
	require.Equal(t, []string{"ctrl", "alt"}, partial.Hotkey.Modifiers)
	require.Equal(t, "toggle", *partial.Hotkey.Mode)
	require.True(t, *partial.Hotkey.Enabled)

	require.Equal(t, "Elgato Wave", *partial.Audio.Device)
	require.Equal(t, 48000, *partial.Audio.SampleRate)
	require.InDelta(t, 0.25, *partial.Audio.FeedbackVolume, 1e-9)

	require.Equal(t, "the", partial.Text.Replacements["teh"])
}

func TestParseFileWarnsOnUnknownKey(t *testing.T) {
	input := `
[hotkey]
not_a_real_key = "x"
`
	partial, warnings, err := ParseFile(input)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Equal(t, 3, warnings[0].Line)
	require.Equal(t, []string{"hotkey.not_a_real_key"}, partial.UnknownKeys)
}

func TestParseFileRejectsUnterminatedSection(t *testing.T) {
	_, _, err := ParseFile("[hotkey")
	require.Error(t, err)
}

func TestParseFileRejectsMalformedLine(t *testing.T) {
	_, _, err := ParseFile("[hotkey]\njust some words")
	require.Error(t, err)
}

func TestParseFileRejectsBadIntValue(t *testing.T) {
	_, _, err := ParseFile("[audio]\nsample_rate = not_a_number")
	require.Error(t, err)
}

func TestParseFileRejectsBadBoolValue(t *testing.T) {
	_, _, err := ParseFile("[hotkey]\nenabled = maybe")
	require.Error(t, err)
}
