// Package roster holds the fixed list of gift exchange participants and their
// family groups.
package roster

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/secretsanta/internal/models"
)

var (
	// ErrEmptyRoster is returned when a roster has no participants
	ErrEmptyRoster = errors.New("roster cannot be empty")

	// ErrUnknownParticipant is returned when a name is not on the roster
	ErrUnknownParticipant = errors.New("unknown participant")
)

// Roster is an ordered, immutable set of participants
type Roster struct {
	participants []models.Participant
	families     map[string]models.FamilyID
}

// New validates participants and builds a roster from them
func New(participants []models.Participant) (*Roster, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}

	families := make(map[string]models.FamilyID, len(participants))
	for i, p := range participants {
		if p.Name == "" {
			return nil, fmt.Errorf("participant %d has no name", i)
		}
		if p.Family == 0 {
			return nil, fmt.Errorf("participant %q has no family", p.Name)
		}
		if _, exists := families[p.Name]; exists {
			return nil, fmt.Errorf("participant %q is listed more than once", p.Name)
		}
		families[p.Name] = p.Family
	}

	list := make([]models.Participant, len(participants))
	copy(list, participants)

	return &Roster{
		participants: list,
		families:     families,
	}, nil
}

// Default returns the roster the draw was first run with
func Default() *Roster {
	r, err := New([]models.Participant{
		{Name: "Karan", Family: 1},
		{Name: "Krisha", Family: 1},
		{Name: "Rekha", Family: 1},
		{Name: "Raj", Family: 1},
		{Name: "Shashi", Family: 2},
		{Name: "Roopesh", Family: 2},
		{Name: "Roosh", Family: 2},
		{Name: "Manisha", Family: 3},
		{Name: "Trevor", Family: 3},
		{Name: "Shannon", Family: 3},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// Participants returns the participants in roster order
func (r *Roster) Participants() []models.Participant {
	list := make([]models.Participant, len(r.participants))
	copy(list, r.participants)
	return list
}

// Names returns participant names in roster order
func (r *Roster) Names() []string {
	names := make([]string, len(r.participants))
	for i, p := range r.participants {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether name is on the roster
func (r *Roster) Contains(name string) bool {
	_, ok := r.families[name]
	return ok
}

// FamilyOf returns the family group of name
func (r *Roster) FamilyOf(name string) (models.FamilyID, error) {
	family, ok := r.families[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	return family, nil
}

// Families groups participant names by family, keeping roster order within
// each group
func (r *Roster) Families() map[models.FamilyID][]string {
	groups := make(map[models.FamilyID][]string)
	for _, p := range r.participants {
		groups[p.Family] = append(groups[p.Family], p.Name)
	}
	return groups
}
