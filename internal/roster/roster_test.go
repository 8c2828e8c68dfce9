package roster

import (
	"testing"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name         string
		participants []models.Participant
		wantErr      error
	}{
		{
			name:         "empty roster",
			participants: nil,
			wantErr:      ErrEmptyRoster,
		},
		{
			name:         "missing name",
			participants: []models.Participant{{Name: "", Family: 1}},
		},
		{
			name:         "missing family",
			participants: []models.Participant{{Name: "Karan"}},
		},
		{
			name: "duplicate name",
			participants: []models.Participant{
				{Name: "Karan", Family: 1},
				{Name: "Karan", Family: 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(tc.participants)
			require.Error(t, err)
			assert.Nil(t, r)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{
		"Karan", "Krisha", "Rekha", "Raj",
		"Shashi", "Roopesh", "Roosh",
		"Manisha", "Trevor", "Shannon",
	}, r.Names())

	families := r.Families()
	assert.Len(t, families, 3)
	assert.Len(t, families[1], 4)
	assert.Len(t, families[2], 3)
	assert.Len(t, families[3], 3)
}

func TestFamilyOf(t *testing.T) {
	r := Default()

	family, err := r.FamilyOf("Trevor")
	require.NoError(t, err)
	assert.Equal(t, models.FamilyID(3), family)

	_, err = r.FamilyOf("Santa")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
	assert.False(t, r.Contains("Santa"))
	assert.True(t, r.Contains("Karan"))
}

func TestParticipants_ReturnsCopy(t *testing.T) {
	r := Default()

	list := r.Participants()
	list[0].Name = "Changed"

	assert.Equal(t, "Karan", r.Participants()[0].Name)
}
