package models

// SchemaVersion tags persisted draw state. Stored state carrying any other
// version is discarded on load.
const SchemaVersion = "4"

// DrawState is everything a device remembers about the draw
type DrawState struct {
	// Assigned maps a drawer to the recipient they drew. Entries are never
	// overwritten or removed outside of a reset.
	Assigned map[string]string

	// Available holds the names nobody has drawn yet, in roster order
	Available []string

	// DeviceLock is the participant this device is bound to, empty when unbound
	DeviceLock string
}

// NewDrawState returns the state of a device that has never drawn
func NewDrawState(names []string) *DrawState {
	available := make([]string, len(names))
	copy(available, names)

	return &DrawState{
		Assigned:  make(map[string]string),
		Available: available,
	}
}

// IsLocked reports whether the device is bound to a participant
func (s *DrawState) IsLocked() bool {
	return s.DeviceLock != ""
}

// RecipientOf returns the recipient drawn by drawer, if any
func (s *DrawState) RecipientOf(drawer string) (string, bool) {
	recipient, ok := s.Assigned[drawer]
	return recipient, ok
}

// Clone returns a deep copy of the state
func (s *DrawState) Clone() *DrawState {
	assigned := make(map[string]string, len(s.Assigned))
	for drawer, recipient := range s.Assigned {
		assigned[drawer] = recipient
	}

	available := make([]string, len(s.Available))
	copy(available, s.Available)

	return &DrawState{
		Assigned:   assigned,
		Available:  available,
		DeviceLock: s.DeviceLock,
	}
}
