package hardware

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscovery is returned when a control or sensor path could not be found
	ErrDiscovery = errors.New("hardware discovery failed")
	// ErrInsufficientPrivilege is returned when a control path is not writable by this process
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// IoError is a failed read or write of a sysfs file during normal operation.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
