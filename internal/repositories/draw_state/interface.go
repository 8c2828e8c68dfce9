package draw_state

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/secretsanta/internal/repositories/draw_state Repository

import (
	"context"
)

// Repository persists the draw state of one device
type Repository interface {
	// LoadState returns the stored state. Missing or corrupt fields are
	// replaced with their defaults rather than reported as errors.
	LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error)

	// SaveState persists assignments, pool and device lock as one unit
	SaveState(ctx context.Context, input *SaveStateInput) error

	// ResetState clears every field including the schema version
	ResetState(ctx context.Context, input *ResetStateInput) error
}
