package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// returns the max value in the window
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetWindowAvg returns the average of the first filled points of the window.
// Unfilled points of a point window are zero, so they only need to be excluded
// from the divisor.
func GetWindowAvg(window *rolling.PointPolicy, filled int) float64 {
	if filled <= 0 {
		return 0
	}
	return window.Reduce(rolling.Sum) / float64(filled)
}
