package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFilesReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	loaded, err := Load("", Partial{})
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
}

func TestLoadReadsUserFileAndAppliesCLIOnTop(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	userDir := filepath.Join(dir, "voxtype")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	userFile := filepath.Join(userDir, "config.toml")
	require.NoError(t, os.WriteFile(userFile, []byte("[hotkey]\nkey = \"F10\"\n"), 0o644))

	loaded, err := Load("", Partial{Hotkey: PartialHotkey{Key: strp("F11")}})
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "F11", loaded.Config.Hotkey.Key)
}

func TestLoadPropagatesParseErrorFromUserFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	userDir := filepath.Join(dir, "voxtype")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	userFile := filepath.Join(userDir, "config.toml")
	require.NoError(t, os.WriteFile(userFile, []byte("not a valid line"), 0o644))

	_, err := Load("", Partial{})
	require.Error(t, err)
}

func TestLoadRejectsInvalidMergedConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, err := Load("", Partial{Hotkey: PartialHotkey{Key: strp("")}})
	require.Error(t, err)
}

func TestLoadHonorsExplicitUserPath(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[audio]\ndevice = \"custom-mic\"\n"), 0o644))

	loaded, err := Load(explicit, Partial{})
	require.NoError(t, err)
	require.Equal(t, explicit, loaded.UserPath)
	require.Equal(t, "custom-mic", loaded.Config.Audio.Device)
}
