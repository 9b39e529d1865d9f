package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultConfigPasses(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsEmptyHotkeyKey(t *testing.T) {
	cfg := Default()
	cfg.Hotkey.Key = ""
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsUnknownHotkeyMode(t *testing.T) {
	cfg := Default()
	cfg.Hotkey.Mode = "hold_forever"
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsZeroSampleRate(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 0
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsOutOfRangeFeedbackVolume(t *testing.T) {
	cfg := Default()
	cfg.Audio.Feedback.Volume = 1.5
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRequiresPrimaryModelForLocalEngine(t *testing.T) {
	cfg := Default()
	cfg.Transcribe.Engine = EngineLocal
	cfg.Transcribe.PrimaryModel = ""
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRequiresRemoteEndpointForRemoteEngine(t *testing.T) {
	cfg := Default()
	cfg.Transcribe.Engine = EngineRemote
	cfg.Transcribe.Remote.Endpoint = ""
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateWarnsOnGPUIsolationWithoutSubprocessEngine(t *testing.T) {
	cfg := Default()
	cfg.Transcribe.Engine = EngineLocal
	cfg.Transcribe.GPUIsolation = true
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
}

func TestValidateRequiresPasteKeysForPasteMode(t *testing.T) {
	cfg := Default()
	cfg.Output.Mode = OutputModePaste
	cfg.Output.PasteKeys = ""
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRequiresFilePathForFileMode(t *testing.T) {
	cfg := Default()
	cfg.Output.Mode = OutputModeFile
	cfg.Output.File.Path = ""
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsUnknownFileAppendMode(t *testing.T) {
	cfg := Default()
	cfg.Output.Mode = OutputModeFile
	cfg.Output.File.Path = "/tmp/out.txt"
	cfg.Output.File.AppendVsOverwrite = "truncate"
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsNegativeDelays(t *testing.T) {
	cfg := Default()
	cfg.Output.TypeDelayMS = -1
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateWarnsOnNonEnergyVADBackend(t *testing.T) {
	cfg := Default()
	cfg.Runtime.VAD.Enabled = true
	cfg.Runtime.VAD.Backend = "webrtc"
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
}

func TestValidateRejectsEmptyReplacementKey(t *testing.T) {
	cfg := Default()
	cfg.Text.Replacements = map[string]string{"": "x"}
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsUnknownNotifyBackend(t *testing.T) {
	cfg := Default()
	cfg.Notify.Backend = "carrier-pigeon"
	_, err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsZeroNotifyErrorTimeout(t *testing.T) {
	cfg := Default()
	cfg.Notify.ErrorTimeoutMS = 0
	_, err := Validate(cfg)
	require.Error(t, err)
}
