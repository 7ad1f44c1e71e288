package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omenix/omenix/internal/control"
)

// ErrUnexpectedResponse is returned when a response line cannot be interpreted
var ErrUnexpectedResponse = errors.New("unexpected response")

const (
	okLine          = "ok"
	errorPrefix     = "error: "
	unknownTemp     = "unknown"
	maxReasonLength = 512
)

func FormatOK() string {
	return okLine + "\n"
}

// FormatError renders a single error line. Line breaks inside the reason are
// replaced so the response always stays one line.
func FormatError(reason string) string {
	reason = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(reason)
	if len(reason) > maxReasonLength {
		reason = reason[:maxReasonLength]
	}
	return errorPrefix + reason + "\n"
}

// FormatStatus renders "<fan_mode> <performance_mode> <last_temp>".
func FormatStatus(snapshot control.Snapshot) string {
	temp := unknownTemp
	if snapshot.TemperatureKnown {
		temp = strconv.Itoa(snapshot.Temperature)
	}
	return fmt.Sprintf("%s %s %s\n", snapshot.FanMode, snapshot.PerformanceMode, temp)
}

// Response is a parsed response line.
type Response struct {
	OK    bool
	Error string
	Body  string
}

// ParseResponse classifies a response line into success, daemon error or a body.
func ParseResponse(line string) (Response, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch {
	case line == okLine:
		return Response{OK: true}, nil
	case strings.HasPrefix(line, errorPrefix):
		return Response{Error: strings.TrimPrefix(line, errorPrefix)}, nil
	case len(line) <= 0:
		return Response{}, fmt.Errorf("%w: empty response", ErrUnexpectedResponse)
	}
	return Response{OK: true, Body: line}, nil
}

// StatusReply is the parsed answer to a status command.
type StatusReply struct {
	FanMode          control.FanMode         `json:"fanMode"`
	PerformanceMode  control.PerformanceMode `json:"performanceMode"`
	Temperature      int                     `json:"temperature"`
	TemperatureKnown bool                    `json:"temperatureKnown"`
}

func ParseStatus(body string) (StatusReply, error) {
	fields := strings.Fields(body)
	if len(fields) != 3 {
		return StatusReply{}, fmt.Errorf("%w: malformed status '%s'", ErrUnexpectedResponse, body)
	}

	fanMode, err := control.ParseFanMode(fields[0])
	if err != nil {
		return StatusReply{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	performanceMode, err := control.ParsePerformanceMode(fields[1])
	if err != nil {
		return StatusReply{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	reply := StatusReply{
		FanMode:         fanMode,
		PerformanceMode: performanceMode,
	}
	if fields[2] != unknownTemp {
		temp, err := strconv.Atoi(fields[2])
		if err != nil {
			return StatusReply{}, fmt.Errorf("%w: invalid temperature '%s'", ErrUnexpectedResponse, fields[2])
		}
		reply.Temperature = temp
		reply.TemperatureKnown = true
	}
	return reply, nil
}
