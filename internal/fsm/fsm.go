// Package fsm is the authoritative voxtype session state machine.
package fsm

import "fmt"

// State is one lifecycle state for the daemon.
type State string

// Event is one transition trigger consumed by the state machine.
type Event string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateOutputting   State = "outputting"
	StateStopped      State = "stopped"
)

const (
	EventPress             Event = "press"
	EventRelease           Event = "release"
	EventToggle            Event = "toggle"
	EventCancel            Event = "cancel"
	EventTimeout           Event = "timeout"
	EventTranscribeSuccess Event = "transcribe_success"
	EventTranscribeFail    Event = "transcribe_fail"
	EventDeliverSuccess    Event = "deliver_success"
	EventDeliverFail       Event = "deliver_fail"
	EventStop              Event = "stop"
)

// Transition validates and applies one state transition per the daemon's
// transition table. Events that don't apply to the current state are
// rejected with an error; callers log and drop them rather than panic.
func Transition(current State, event Event) (State, error) {
	if event == EventStop {
		return StateStopped, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventPress, EventToggle:
			return StateRecording, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventRelease, EventToggle, EventTimeout:
			return StateTranscribing, nil
		case EventCancel:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranscribing:
		switch event {
		case EventTranscribeSuccess:
			return StateOutputting, nil
		case EventCancel, EventTranscribeFail:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateOutputting:
		switch event {
		case EventDeliverSuccess, EventDeliverFail:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopped:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

// invalidTransition formats a stable error message used by tests and callers.
func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}

// StateFileToken maps a State to the literal token written to the state
// file. Outputting is reported as "transcribing" per the data model: the
// state file does not expose a distinct Outputting token to external
// readers.
func StateFileToken(s State) string {
	switch s {
	case StateOutputting:
		return "transcribing"
	default:
		return string(s)
	}
}
