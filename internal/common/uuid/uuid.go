package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/secretsanta/internal/common/uuid UUID

// UUID hands out identifiers for committed draws
type UUID interface {
	NewUUID() string
}

// Random generates version 4 UUIDs
type Random struct{}

// New returns a random UUID generator
func New() *Random {
	return &Random{}
}

// NewUUID returns a new random UUID string
func (r *Random) NewUUID() string {
	return uuid.NewString()
}
