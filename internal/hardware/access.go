package hardware

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckWriteAccess verifies that this process may write all control files,
// using the effective user and group ids.
func CheckWriteAccess(paths Paths) error {
	for _, path := range []string{paths.FanControl, paths.PerformanceProfile} {
		err := unix.Faccessat(unix.AT_FDCWD, path, unix.W_OK, unix.AT_EACCESS)
		if err == nil {
			continue
		}
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EROFS) {
			return fmt.Errorf("%w: cannot write %s, the daemon has to run as root", ErrInsufficientPrivilege, path)
		}
		return &IoError{Op: "check access", Path: path, Err: err}
	}
	return nil
}
