package service

import "time"

// Clock supplies the timestamp stamped into the install receipt.
// Tests substitute a fixed clock so receipt contents stay deterministic.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
