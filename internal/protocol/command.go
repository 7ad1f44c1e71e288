package protocol

import (
	"errors"
	"strings"

	"github.com/omenix/omenix/internal/control"
)

// ErrUnknownCommand is returned for any line that is not part of the grammar
var ErrUnknownCommand = errors.New("unknown command")

const (
	verbSet            = "set"
	verbSetPerformance = "set_performance"
	verbStatus         = "status"
)

// Command is a parsed client request.
type Command interface {
	// Line renders the command as sent over the wire, without the trailing newline
	Line() string
}

type SetFanMode struct {
	Mode control.FanMode
}

func (c SetFanMode) Line() string {
	return verbSet + " " + c.Mode.String()
}

type SetPerformanceMode struct {
	Mode control.PerformanceMode
}

func (c SetPerformanceMode) Line() string {
	return verbSetPerformance + " " + c.Mode.String()
}

type Status struct{}

func (c Status) Line() string {
	return verbStatus
}

// ParseCommand parses a single request line. Commands are case-sensitive and
// a trailing "\n" or "\r\n" is ignored.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	verb, argument, hasArgument := strings.Cut(line, " ")
	switch verb {
	case verbSet:
		mode, err := control.ParseFanMode(argument)
		if !hasArgument || err != nil {
			return nil, ErrUnknownCommand
		}
		return SetFanMode{Mode: mode}, nil
	case verbSetPerformance:
		mode, err := control.ParsePerformanceMode(argument)
		if !hasArgument || err != nil {
			return nil, ErrUnknownCommand
		}
		return SetPerformanceMode{Mode: mode}, nil
	case verbStatus:
		if hasArgument {
			return nil, ErrUnknownCommand
		}
		return Status{}, nil
	}
	return nil, ErrUnknownCommand
}
