package draw_state

import "github.com/KirkDiggler/secretsanta/internal/models"

type LoadStateInput struct {
}

type LoadStateOutput struct {
	State *models.DrawState

	// Recovered is set when any stored field had to be replaced or repaired
	Recovered bool

	// Discarded is set when stored state carried another schema version and
	// was wiped
	Discarded bool
}

type SaveStateInput struct {
	State *models.DrawState
}

type ResetStateInput struct {
}
