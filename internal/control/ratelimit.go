package control

import "time"

// RateLimiter suppresses redundant hardware writes of the same kind within
// a minimum interval. It is not safe for concurrent use on its own, the
// Controller guards it with its state lock.
type RateLimiter struct {
	intervals map[WriteKind]time.Duration
	lastWrite map[WriteKind]time.Time
}

// NewRateLimiter creates a limiter with the given minimum interval per kind.
// Kinds without an interval are never suppressed.
func NewRateLimiter(intervals map[WriteKind]time.Duration) *RateLimiter {
	return &RateLimiter{
		intervals: intervals,
		lastWrite: map[WriteKind]time.Time{},
	}
}

// ShouldWrite reports whether a write of the given kind may happen at now and
// records now as the last write time if so. Explicit writes are never suppressed.
func (r *RateLimiter) ShouldWrite(kind WriteKind, now time.Time, explicit bool) bool {
	last, exists := r.lastWrite[kind]
	if !explicit && exists && now.Sub(last) < r.intervals[kind] {
		return false
	}
	r.lastWrite[kind] = now
	return true
}

// LastWrite returns the time of the last permitted write of the given kind
func (r *RateLimiter) LastWrite(kind WriteKind) (time.Time, bool) {
	last, exists := r.lastWrite[kind]
	return last, exists
}

// Forget drops the recorded write time, e.g. after the write itself failed.
func (r *RateLimiter) Forget(kind WriteKind) {
	delete(r.lastWrite, kind)
}
