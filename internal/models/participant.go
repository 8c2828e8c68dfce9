package models

// FamilyID identifies the family group a participant belongs to
type FamilyID int

// Participant is a person taking part in the gift exchange
type Participant struct {
	// Name is the unique display name of the participant
	Name string `mapstructure:"name" json:"name"`

	// Family is the family group of the participant. Participants never draw
	// someone from their own family.
	Family FamilyID `mapstructure:"family" json:"family"`
}
