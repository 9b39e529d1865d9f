// Package feedback drives the audio cues, desktop/compositor
// notifications, and state file that give a user visibility into the
// daemon's recording/transcribing lifecycle.
package feedback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// State tokens written to the state file. Outputting is reported as
// StateTranscribing — the file exposes no distinct Outputting token.
const (
	StateIdle         = "idle"
	StateRecording    = "recording"
	StateTranscribing = "transcribing"
	StateStopped      = "stopped"
)

// StateFile writes the daemon's current lifecycle state atomically so a
// concurrent reader (the status follower) never observes a torn write.
type StateFile struct {
	path string
}

// NewStateFile returns a writer for path, or a no-op writer if path is
// empty. The "disabled" config setting is mapped to "" by the caller;
// NewStateFile itself treats "disabled" as an ordinary path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Enabled reports whether this StateFile actually writes anything.
func (f *StateFile) Enabled() bool {
	return f.path != ""
}

// Write replaces the state file's contents with token via a temp-file
// write plus atomic rename, so readers never see a partial write.
func (f *StateFile) Write(token string) error {
	if !f.Enabled() {
		return nil
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".voxtype-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(token + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp state file into place: %w", err)
	}
	return nil
}

// ReadState reads the current token from a state file path. A missing
// file reports StateStopped rather than an error, since that is the
// normal condition before the daemon's first run.
func ReadState(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return StateStopped, nil
	}
	if err != nil {
		return "", fmt.Errorf("read state file %s: %w", path, err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
