package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/secretsanta/internal/common/clock Clock

// Clock tells the engine what time a draw was committed
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the wall clock, always in UTC
type System struct{}

// New returns the system clock
func New() *System {
	return &System{}
}

// Now returns the current UTC time
func (c *System) Now() time.Time {
	return time.Now().UTC()
}
