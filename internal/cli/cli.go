// Package cli parses voxtype's command-line arguments far enough to route
// to app.Execute's subcommand dispatch. It intentionally stays minimal:
// argument parsing is not itself in scope, only enough structure to carry
// a command, its record sub-action, and the handful of per-invocation
// overrides and flags the daemon and status follower need.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// Command is a top-level voxtype subcommand.
type Command string

const (
	CommandDaemon     Command = "daemon"
	CommandRecord     Command = "record"
	CommandTranscribe Command = "transcribe"
	CommandStatus     Command = "status"
	CommandConfig     Command = "config"
	CommandSetup      Command = "setup"
	CommandDevices    Command = "devices"
	CommandDoctor     Command = "doctor"
	CommandVersion    Command = "version"
	CommandHelp       Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandDaemon:     {},
	CommandRecord:     {},
	CommandTranscribe: {},
	CommandStatus:     {},
	CommandConfig:     {},
	CommandSetup:      {},
	CommandDevices:    {},
	CommandDoctor:     {},
	CommandVersion:    {},
	CommandHelp:       {},
}

// RecordAction is the sub-action passed to "voxtype record <action>".
type RecordAction string

const (
	RecordStart  RecordAction = "start"
	RecordStop   RecordAction = "stop"
	RecordToggle RecordAction = "toggle"
	RecordCancel RecordAction = "cancel"
)

var validRecordActions = map[RecordAction]struct{}{
	RecordStart:  {},
	RecordStop:   {},
	RecordToggle: {},
	RecordCancel: {},
}

// Parsed is the result of parsing argv into a routable command.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	RecordAction RecordAction

	TranscribeFile string

	StatusFollow   bool
	StatusFormat   string
	StatusExtended bool

	OutputOverride string
	ModelOverride  string
}

// Parse interprets argv (excluding argv[0]) into a Parsed command.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true, StatusFormat: "text"}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
			return parsed, nil
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
			return parsed, nil
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
			continue
		}

		if strings.HasPrefix(arg, "-") {
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		}

		cmd := Command(arg)
		if _, ok := validCommands[cmd]; !ok {
			return Parsed{}, fmt.Errorf("unknown command: %s", arg)
		}
		parsed.Command = cmd
		parsed.ShowHelp = cmd == CommandHelp
		i++
		break
	}

	rest := args[i:]

	switch parsed.Command {
	case CommandRecord:
		if len(rest) == 0 {
			return Parsed{}, errors.New("record requires an action: start, stop, toggle, cancel")
		}
		action := RecordAction(rest[0])
		if _, ok := validRecordActions[action]; !ok {
			return Parsed{}, fmt.Errorf("unknown record action: %s", rest[0])
		}
		parsed.RecordAction = action
		return parseOverrides(parsed, rest[1:])
	case CommandTranscribe:
		if len(rest) == 0 {
			return Parsed{}, errors.New("transcribe requires a file path")
		}
		parsed.TranscribeFile = rest[0]
		return parseOverrides(parsed, rest[1:])
	case CommandStatus:
		return parseStatusFlags(parsed, rest)
	default:
		if len(rest) != 0 {
			return Parsed{}, fmt.Errorf("unexpected arguments after command %q", parsed.Command)
		}
		return parsed, nil
	}
}

// parseOverrides consumes --output and --model flags shared by record and
// transcribe, which steer a single session without touching persistent
// configuration.
func parseOverrides(parsed Parsed, args []string) (Parsed, error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--output":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--output requires a value")
			}
			parsed.OutputOverride = args[i]
		case "--model":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--model requires a value")
			}
			parsed.ModelOverride = args[i]
		default:
			return Parsed{}, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return parsed, nil
}

// parseStatusFlags consumes status's --follow/--format/--extended flags.
func parseStatusFlags(parsed Parsed, args []string) (Parsed, error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--follow":
			parsed.StatusFollow = true
		case "--extended":
			parsed.StatusExtended = true
		case "--format":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--format requires a value")
			}
			if args[i] != "text" && args[i] != "json" {
				return Parsed{}, fmt.Errorf("--format must be text or json, got %q", args[i])
			}
			parsed.StatusFormat = args[i]
		default:
			return Parsed{}, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return parsed, nil
}

// HelpText renders the usage banner for binaryName.
func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  daemon                           Run the voxtype background daemon
  record start|stop|toggle|cancel  Control recording [--output MODE] [--model NAME]
  transcribe <file>                Transcribe an audio file one-shot [--output MODE] [--model NAME]
  status [--follow] [--format text|json] [--extended]
                                    Print or stream daemon state
  config                           Print the resolved, merged configuration
  setup                            Interactive first-run setup wizard
  devices                          List available input devices
  doctor                           Run configuration and environment checks
  version                          Print version information
  help                             Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/voxtype/config.toml)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
