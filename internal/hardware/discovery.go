package hardware

import (
	"fmt"
	"path/filepath"
	"sort"
)

// GlobFunc resolves a glob pattern to the matching paths, see filepath.Glob
type GlobFunc func(pattern string) ([]string, error)

// Patterns are the glob patterns used to locate the sysfs files.
type Patterns struct {
	TempSensor         string
	FanControl         string
	PerformanceProfile string
}

// Paths are the discovered sysfs files. Discovery happens once at startup.
type Paths struct {
	TempSensors        []string `json:"tempSensors"`
	FanControl         string   `json:"fanControl"`
	PerformanceProfile string   `json:"performanceProfile"`
}

// Discover resolves all patterns and fails if any of them yields no match.
// All matching temperature sensors are kept, only the first match is used for
// the control files.
func Discover(patterns Patterns, glob GlobFunc) (Paths, error) {
	if glob == nil {
		glob = filepath.Glob
	}

	tempSensors, err := discover("temperature sensor", patterns.TempSensor, glob)
	if err != nil {
		return Paths{}, err
	}
	fanControls, err := discover("fan control", patterns.FanControl, glob)
	if err != nil {
		return Paths{}, err
	}
	profiles, err := discover("performance profile", patterns.PerformanceProfile, glob)
	if err != nil {
		return Paths{}, err
	}

	return Paths{
		TempSensors:        tempSensors,
		FanControl:         fanControls[0],
		PerformanceProfile: profiles[0],
	}, nil
}

func discover(name string, pattern string, glob GlobFunc) ([]string, error) {
	matches, err := glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s pattern '%s': %v", ErrDiscovery, name, pattern, err)
	}
	if len(matches) <= 0 {
		return nil, fmt.Errorf("%w: no %s found matching '%s'", ErrDiscovery, name, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}
