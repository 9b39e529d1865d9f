package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strp(v string) *string { return &v }
func intp(v int) *int       { return &v }

func TestMergePrecedenceCLIWinsOverEnvWinsOverUserWinsOverSystem(t *testing.T) {
	system := Partial{Hotkey: PartialHotkey{Key: strp("F9")}}
	user := Partial{Hotkey: PartialHotkey{Key: strp("F10")}}
	env := Partial{Hotkey: PartialHotkey{Key: strp("F11")}}
	cli := Partial{Hotkey: PartialHotkey{Key: strp("F12")}}

	cfg := Merge(Default(), system, user, env, cli)
	require.Equal(t, "F12", cfg.Hotkey.Key)

	cfg = Merge(Default(), system, user, env, Partial{})
	require.Equal(t, "F11", cfg.Hotkey.Key)

	cfg = Merge(Default(), system, user, Partial{}, Partial{})
	require.Equal(t, "F10", cfg.Hotkey.Key)

	cfg = Merge(Default(), system, Partial{}, Partial{}, Partial{})
	require.Equal(t, "F9", cfg.Hotkey.Key)
}

func TestMergeLeavesUnsetFieldsAtBaseValue(t *testing.T) {
	cfg := Merge(Default(), Partial{}, Partial{}, Partial{}, Partial{})
	require.Equal(t, Default(), cfg)
}

func TestMergeAppliesEachSectionIndependently(t *testing.T) {
	overlay := Partial{
		Audio:      PartialAudio{SampleRate: intp(8000)},
		Transcribe: PartialTranscribe{Engine: strp("remote")},
		Output:     PartialOutput{Mode: strp("clipboard")},
	}
	cfg := Merge(Default(), Partial{}, Partial{}, Partial{}, overlay)

	require.Equal(t, 8000, cfg.Audio.SampleRate)
	require.Equal(t, EngineRemote, cfg.Transcribe.Engine)
	require.Equal(t, OutputModeClipboard, cfg.Output.Mode)
	require.Equal(t, Default().Hotkey, cfg.Hotkey)
}

func TestMergeTextReplacementsAccumulateAcrossLayers(t *testing.T) {
	system := Partial{Text: PartialText{Replacements: map[string]string{"teh": "the"}}}
	user := Partial{Text: PartialText{Replacements: map[string]string{"adn": "and"}}}

	cfg := Merge(Default(), system, user, Partial{}, Partial{})
	require.Equal(t, "the", cfg.Text.Replacements["teh"])
	require.Equal(t, "and", cfg.Text.Replacements["adn"])
}

func TestMergeRemoteTimeoutConvertsMillisecondsToDuration(t *testing.T) {
	cfg := Merge(Default(), Partial{}, Partial{}, Partial{}, Partial{
		Transcribe: PartialTranscribe{RemoteTimeoutMS: intp(5000)},
	})
	require.Equal(t, 5*1000, int(cfg.Transcribe.Remote.Timeout.Milliseconds()))
}
