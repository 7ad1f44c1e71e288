package client

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrDaemonNotRunning is returned when nothing listens on the socket
	ErrDaemonNotRunning = errors.New("daemon is not running")
	// ErrPermissionDenied is returned when the socket exists but may not be opened
	ErrPermissionDenied = errors.New("permission denied")
)

// ConnectivityError means the daemon could not be reached or the exchange was
// interrupted. Kind is ErrDaemonNotRunning, ErrPermissionDenied or nil.
type ConnectivityError struct {
	SocketPath string
	Kind       error
	Err        error
}

func (e *ConnectivityError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("cannot reach daemon at %s: %v (%v)", e.SocketPath, e.Kind, e.Err)
	}
	return fmt.Sprintf("cannot reach daemon at %s: %v", e.SocketPath, e.Err)
}

func (e *ConnectivityError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// DaemonError is an "error: ..." line sent by the daemon.
type DaemonError struct {
	Command string
	Reason  string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("daemon rejected '%s': %s", e.Command, e.Reason)
}

func newConnectivityError(socketPath string, err error) *ConnectivityError {
	var kind error
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ECONNREFUSED):
		kind = ErrDaemonNotRunning
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		kind = ErrPermissionDenied
	}
	return &ConnectivityError{SocketPath: socketPath, Kind: kind, Err: err}
}
