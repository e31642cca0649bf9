package secondary

import "time"

// Clock defines the secondary port for reading the current time. Services
// never read the system clock directly, keeping the engine deterministic
// under test.
type Clock interface {
	// Now returns the current UTC time.
	Now() time.Time
}
