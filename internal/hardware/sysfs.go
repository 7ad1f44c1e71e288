package hardware

import (
	"errors"
	"fmt"

	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
)

// Sysfs reads and writes the discovered sysfs files. It holds no state apart
// from the paths.
type Sysfs struct {
	paths Paths
}

func NewSysfs(paths Paths) *Sysfs {
	return &Sysfs{paths: paths}
}

func (s *Sysfs) Paths() Paths {
	return s.paths
}

// ReadTemperature returns the highest temperature in millidegrees Celsius across
// all readable sensors.
func (s *Sysfs) ReadTemperature() (int, error) {
	highest := 0
	found := false
	var errs []error
	for _, path := range s.paths.TempSensors {
		value, err := util.ReadIntFromFile(path)
		if err != nil {
			ui.Debug("Skipping unreadable temperature sensor %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		if !found || value > highest {
			highest = value
			found = true
		}
	}

	if !found {
		return 0, &IoError{
			Op:   "read temperature",
			Path: fmt.Sprintf("%v", s.paths.TempSensors),
			Err:  errors.Join(errs...),
		}
	}
	return highest, nil
}

func (s *Sysfs) WriteFanState(code int) error {
	if err := util.WriteIntToFile(code, s.paths.FanControl); err != nil {
		return &IoError{Op: "write fan state", Path: s.paths.FanControl, Err: err}
	}
	return nil
}

func (s *Sysfs) WritePerformanceState(profile string) error {
	if err := util.WriteStringToFile(profile, s.paths.PerformanceProfile); err != nil {
		return &IoError{Op: "write performance profile", Path: s.paths.PerformanceProfile, Err: err}
	}
	return nil
}

func (s *Sysfs) ReadFanState() (int, error) {
	value, err := util.ReadIntFromFile(s.paths.FanControl)
	if err != nil {
		return 0, &IoError{Op: "read fan state", Path: s.paths.FanControl, Err: err}
	}
	return value, nil
}

func (s *Sysfs) ReadPerformanceState() (string, error) {
	value, err := util.ReadStringFromFile(s.paths.PerformanceProfile)
	if err != nil {
		return "", &IoError{Op: "read performance profile", Path: s.paths.PerformanceProfile, Err: err}
	}
	return value, nil
}
