package util

import "time"

// Clock abstracts the current time so time dependent logic can be tested
// with a deterministic source.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
