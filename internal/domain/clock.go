package domain

import "time"

// Clock provides the timestamp source for audit entries. Injected so tests
// can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
