package services

import "time"

// Clock supplies the current instant. The tracker never reads the wall clock
// directly so rollover logic stays deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the local device time.
func SystemClock() Clock { return systemClock{} }
