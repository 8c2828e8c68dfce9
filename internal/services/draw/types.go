package draw

import (
	"time"

	"github.com/KirkDiggler/secretsanta/internal/common/clock"
	"github.com/KirkDiggler/secretsanta/internal/common/uuid"
	"github.com/KirkDiggler/secretsanta/internal/picker"
	drawStateRepo "github.com/KirkDiggler/secretsanta/internal/repositories/draw_state"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
)

// Config holds configuration for the draw service
type Config struct {
	// Repository dependencies
	Repository drawStateRepo.Repository

	// Roster of everyone taking part
	Roster *roster.Roster

	// Service dependencies
	Picker        picker.Picker
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Logger is optional and defaults to the logrus standard logger
	Logger logrus.FieldLogger
}

// GetOrDrawInput contains parameters for drawing a recipient
type GetOrDrawInput struct {
	// Drawer is the roster name of the participant drawing
	Drawer string
}

// GetOrDrawOutput contains the result of a draw
type GetOrDrawOutput struct {
	// Recipient is the participant the drawer buys a gift for
	Recipient string

	// IsNewDraw is false when the result is a replay of an earlier draw
	IsNewDraw bool

	// DrawID identifies a new draw in the logs. Empty on replay.
	DrawID string

	// DrawnAt is when a new draw was committed. Zero on replay.
	DrawnAt time.Time
}

// GetStatusInput contains parameters for reading the draw status
type GetStatusInput struct {
}

// GetStatusOutput summarizes the draw
type GetStatusOutput struct {
	// DeviceLock is the participant this device is bound to, empty if none
	DeviceLock string

	// Drawn lists, in roster order, the participants who have drawn
	Drawn []string

	// Remaining is the number of names still undrawn
	Remaining int

	// Participants is the size of the roster
	Participants int
}

// ResetInput contains parameters for resetting the draw
type ResetInput struct {
}

// ResetOutput contains the result of a reset
type ResetOutput struct {
	// Success indicates the stored state was cleared
	Success bool
}
