package core

import (
	"time"

	"github.com/google/uuid"
)

// Clock provides the current time. Injected so tests can control timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces collision-free opaque string IDs.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

// NewUUIDGenerator returns an IDGenerator backed by random UUIDs.
func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}
