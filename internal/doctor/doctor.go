// Package doctor runs environment and configuration readiness diagnostics:
// hotkey permissions, required binaries for the configured output/notify
// backends, model file presence, and live audio device selection.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
	"github.com/voxtype/voxtype/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("resolved user config at %q (exists=%t)", cfg.UserPath, cfg.Exists),
	})

	if cfg.Config.Hotkey.Enabled {
		checks = append(checks, checkInputGroup())
	}

	checks = append(checks, checkTranscribeBackend(cfg.Config.Transcribe))
	checks = append(checks, checkOutputBackend(cfg.Config.Output))
	checks = append(checks, checkNotifyBackend(cfg.Config.Notify))
	checks = append(checks, checkAudioSelection(ctx, cfg.Config))

	return Report{Checks: checks}
}

// checkInputGroup reports whether the running user belongs to the "input"
// group, required for the kernel hotkey source's /dev/input access.
func checkInputGroup() Check {
	u, err := user.Current()
	if err != nil {
		return Check{Name: "input_group", Pass: false, Message: fmt.Sprintf("resolve current user: %v", err)}
	}
	groupIDs, err := u.GroupIds()
	if err != nil {
		return Check{Name: "input_group", Pass: false, Message: fmt.Sprintf("resolve group membership: %v", err)}
	}
	inputGroup, err := user.LookupGroup("input")
	if err != nil {
		return Check{Name: "input_group", Pass: false, Message: "\"input\" group does not exist on this system"}
	}
	for _, gid := range groupIDs {
		if gid == inputGroup.Gid {
			return Check{Name: "input_group", Pass: true, Message: fmt.Sprintf("%s is a member of group input", u.Username)}
		}
	}
	return Check{Name: "input_group", Pass: false, Message: fmt.Sprintf("%s is not a member of group input; add with `usermod -aG input %s` and re-login", u.Username, u.Username)}
}

// checkTranscribeBackend validates the configured transcription engine has
// what it needs to run: a configured remote endpoint, or a model file on
// disk for local and subprocess mode (the subprocess re-execs this binary,
// which always exists, but still needs the model).
func checkTranscribeBackend(cfg config.TranscribeConfig) Check {
	switch cfg.Engine {
	case config.EngineRemote:
		if strings.TrimSpace(cfg.Remote.Endpoint) == "" {
			return Check{Name: "transcribe.remote", Pass: false, Message: "transcribe.remote.endpoint is empty"}
		}
		return Check{Name: "transcribe.remote", Pass: true, Message: fmt.Sprintf("endpoint configured: %s", cfg.Remote.Endpoint)}
	case config.EngineSubprocess:
		return checkModelFile(cfg.PrimaryModel, "transcribe.subprocess")
	default:
		return checkModelFile(cfg.PrimaryModel, "transcribe.local")
	}
}

func checkModelFile(path, name string) Check {
	if strings.TrimSpace(path) == "" {
		return Check{Name: name, Pass: false, Message: "transcribe.primary_model is empty"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("model file not found: %s", path)}
	}
	if info.IsDir() {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s is a directory, expected a model file", path)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("model file present: %s (%d bytes)", path, info.Size())}
}

// checkOutputBackend verifies the binaries the configured output mode
// shells out to are on PATH.
func checkOutputBackend(cfg config.OutputConfig) Check {
	switch cfg.Mode {
	case config.OutputModeType:
		return checkBinary("wtype", "type-mode key injection")
	case config.OutputModePaste:
		if check := checkBinary("hyprctl", "paste-mode key injection"); !check.Pass {
			return check
		}
		return checkBinary("wl-copy", "paste-mode clipboard staging")
	case config.OutputModeClipboard:
		return checkBinary("wl-copy", "clipboard-mode delivery")
	case config.OutputModeFile:
		if strings.TrimSpace(cfg.File.Path) == "" {
			return Check{Name: "output.file", Pass: false, Message: "output.file.path is empty"}
		}
		return Check{Name: "output.file", Pass: true, Message: fmt.Sprintf("writes to %s", cfg.File.Path)}
	default:
		return Check{Name: "output.mode", Pass: false, Message: fmt.Sprintf("unknown output mode %q", cfg.Mode)}
	}
}

// checkNotifyBackend verifies the binary the configured notify backend
// needs is on PATH; the desktop backend talks to org.freedesktop.Notifications
// over busctl/dbus directly.
func checkNotifyBackend(cfg config.NotifyConfig) Check {
	switch cfg.Backend {
	case "hypr":
		return checkBinary("hyprctl", "hypr notify backend")
	case "desktop":
		return checkBinary("busctl", "desktop notify backend (org.freedesktop.Notifications)")
	default:
		return Check{Name: "notify.backend", Pass: false, Message: fmt.Sprintf("unknown notify backend %q", cfg.Backend)}
	}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, purpose string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH, required for %s", purpose)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, purpose)}
}

// checkAudioSelection runs live device selection to surface capture
// configuration issues before the daemon ever tries to record.
func checkAudioSelection(ctx context.Context, cfg config.Config) Check {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	selection, err := audio.SelectDevice(probeCtx, cfg.Audio.Device, "default")
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message += " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}
