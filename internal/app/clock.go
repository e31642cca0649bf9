package app

import (
	"time"

	"github.com/example/stagetrack/internal/ports/secondary"
)

// SystemClock implements secondary.Clock against the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Ensure SystemClock implements the interface
var _ secondary.Clock = SystemClock{}
