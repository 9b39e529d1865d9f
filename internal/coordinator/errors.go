package coordinator

import "fmt"

// Kind classifies a daemon-facing error well enough for the coordinator to
// decide how to log, notify, and transition without inspecting error text.
type Kind string

const (
	KindPermission        Kind = "permission"
	KindMissingDependency Kind = "missing_dependency"
	KindDeviceBusy        Kind = "device_busy"
	KindTransientIO       Kind = "transient_io"
	KindModelMissing      Kind = "model_missing"
	KindUserCancel        Kind = "user_cancel"
	KindHardInternal      Kind = "hard_internal"
)

// Error wraps a cause with a Kind and a short user-facing remediation hint.
type Error struct {
	Kind   Kind
	Cause  error
	Remedy string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Remediation returns a short, user-facing suggestion for resolving the
// error. It is empty only for KindUserCancel without an explicit Remedy.
func (e *Error) Remediation() string {
	if e.Remedy != "" {
		return e.Remedy
	}
	switch e.Kind {
	case KindPermission:
		return "check that voxtype's user is in the input/audio groups and re-login"
	case KindMissingDependency:
		return "install the missing binary and re-run `voxtype doctor`"
	case KindDeviceBusy:
		return "another application may be holding the audio device; close it and retry"
	case KindTransientIO:
		return "retry the operation; this is usually a transient network or device hiccup"
	case KindModelMissing:
		return "download the configured model file or point transcribe.primary_model elsewhere"
	case KindUserCancel:
		return ""
	default:
		return "check the daemon log for details"
	}
}

// Wrap builds an *Error of kind around cause. A nil cause yields an
// untyped nil error (not a typed nil *Error) so callers can freely do `return Wrap(KindX, err)` in error paths.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}
