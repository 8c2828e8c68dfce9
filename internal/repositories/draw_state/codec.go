package draw_state

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
)

// Field names of the persisted layout, shared by every backend
const (
	fieldAssigned      = "assigned"
	fieldAvailable     = "available"
	fieldDeviceLock    = "device_lock"
	fieldSchemaVersion = "schema_version"
)

var allFields = []string{fieldAssigned, fieldAvailable, fieldDeviceLock, fieldSchemaVersion}

// encodeState flattens the state into field values
func encodeState(state *models.DrawState) (map[string]string, error) {
	assigned := state.Assigned
	if assigned == nil {
		assigned = map[string]string{}
	}
	assignedJSON, err := json.Marshal(assigned)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignments: %w", err)
	}

	available := state.Available
	if available == nil {
		available = []string{}
	}
	availableJSON, err := json.Marshal(available)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal available pool: %w", err)
	}

	fields := map[string]string{
		fieldAssigned:      string(assignedJSON),
		fieldAvailable:     string(availableJSON),
		fieldSchemaVersion: models.SchemaVersion,
	}
	if state.DeviceLock != "" {
		fields[fieldDeviceLock] = state.DeviceLock
	}

	return fields, nil
}

// staleVersion reports whether stored fields belong to another schema.
// Storage holding no fields at all is treated as fresh, not stale.
func staleVersion(fields map[string]string) bool {
	if len(fields) == 0 {
		return false
	}
	return fields[fieldSchemaVersion] != models.SchemaVersion
}

// decodeState rebuilds the state field by field, substituting defaults for
// anything missing or unparsable, then repairs it against the roster
func decodeState(fields map[string]string, r *roster.Roster, log logrus.FieldLogger) (*models.DrawState, bool) {
	state := models.NewDrawState(r.Names())
	recovered := false

	if raw, ok := fields[fieldAssigned]; ok {
		var assigned map[string]string
		if err := json.Unmarshal([]byte(raw), &assigned); err != nil || assigned == nil {
			log.WithError(err).WithField("field", fieldAssigned).Warn("Discarding unreadable assignments")
			recovered = true
		} else {
			state.Assigned = assigned
		}
	}

	if raw, ok := fields[fieldAvailable]; ok {
		var available []string
		if err := json.Unmarshal([]byte(raw), &available); err != nil || available == nil {
			log.WithError(err).WithField("field", fieldAvailable).Warn("Discarding unreadable available pool")
			recovered = true
		} else {
			state.Available = available
		}
	}

	state.DeviceLock = fields[fieldDeviceLock]

	if repairState(state, r, log) {
		recovered = true
	}

	return state, recovered
}

// repairState enforces the draw invariants on a decoded state: every name is
// on the roster, no one drew themselves or their own family, each recipient
// is drawn once, and the pool is exactly the names nobody has drawn.
func repairState(state *models.DrawState, r *roster.Roster, log logrus.FieldLogger) bool {
	repaired := false
	names := r.Names()

	for drawer := range state.Assigned {
		if !r.Contains(drawer) {
			log.WithField("drawer", drawer).Warn("Dropping assignment for unknown drawer")
			repaired = true
		}
	}

	// walk drawers in roster order so duplicate recipients resolve the same
	// way on every load
	used := make(map[string]bool, len(state.Assigned))
	assigned := make(map[string]string, len(state.Assigned))
	for _, drawer := range names {
		recipient, ok := state.Assigned[drawer]
		if !ok {
			continue
		}
		if !validPair(r, drawer, recipient) || used[recipient] {
			log.WithField("drawer", drawer).Warn("Dropping invalid assignment")
			repaired = true
			continue
		}
		assigned[drawer] = recipient
		used[recipient] = true
	}
	state.Assigned = assigned

	expected := make([]string, 0, len(names))
	for _, name := range names {
		if !used[name] {
			expected = append(expected, name)
		}
	}
	if !samePool(state.Available, expected) {
		log.WithFields(logrus.Fields{
			"stored":   len(state.Available),
			"expected": len(expected),
		}).Warn("Rebuilding available pool from assignments")
		state.Available = expected
		repaired = true
	}

	if state.DeviceLock != "" && !r.Contains(state.DeviceLock) {
		log.WithField("device_lock", state.DeviceLock).Warn("Dropping device lock for unknown participant")
		state.DeviceLock = ""
		repaired = true
	}

	return repaired
}

func validPair(r *roster.Roster, drawer, recipient string) bool {
	if drawer == recipient {
		return false
	}
	drawerFamily, err := r.FamilyOf(drawer)
	if err != nil {
		return false
	}
	recipientFamily, err := r.FamilyOf(recipient)
	if err != nil {
		return false
	}
	return drawerFamily != recipientFamily
}

// samePool compares pools as sets; duplicates make them differ
func samePool(stored, expected []string) bool {
	if len(stored) != len(expected) {
		return false
	}
	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		want[name] = true
	}
	for _, name := range stored {
		if !want[name] {
			return false
		}
		delete(want, name)
	}
	return len(want) == 0
}
