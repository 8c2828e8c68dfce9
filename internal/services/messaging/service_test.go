package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KirkDiggler/secretsanta/internal/services/draw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetErrorMessage_DistinguishesFailures(t *testing.T) {
	svc, err := NewService(&ServiceConfig{Organiser: "Rekha"})
	require.NoError(t, err)

	testCases := []struct {
		name        string
		err         error
		wantKind    ErrorKind
		wantMessage string
	}{
		{
			name:        "unknown participant",
			err:         fmt.Errorf("%w: %q", draw.ErrUnknownParticipant, "Rudolph"),
			wantKind:    ErrorKindUnknownParticipant,
			wantMessage: "That name isn't on the list. Pick your name from the list and try again.",
		},
		{
			name:        "device already used",
			err:         &draw.DeviceAlreadyUsedError{LockedAs: "Karan"},
			wantKind:    ErrorKindDeviceAlreadyUsed,
			wantMessage: "This device was already used to draw for Karan. Please draw on your own device.",
		},
		{
			name:        "no valid recipient",
			err:         draw.ErrNoValidRecipient,
			wantKind:    ErrorKindNoValidRecipient,
			wantMessage: "No valid names are left for you to draw. Contact Rekha.",
		},
		{
			name:        "storage failure",
			err:         fmt.Errorf("failed to commit draw: %w", errors.New("disk full")),
			wantKind:    ErrorKindInternal,
			wantMessage: "The draw could not be completed. Try again, or contact Rekha.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := svc.GetErrorMessage(context.Background(), &GetErrorMessageInput{Err: tc.err})
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, output.Kind)
			assert.Equal(t, tc.wantMessage, output.Message)
			assert.NotEmpty(t, output.Title)
		})
	}
}

func TestGetErrorMessage_NilInput(t *testing.T) {
	svc, err := NewService(nil)
	require.NoError(t, err)

	_, err = svc.GetErrorMessage(context.Background(), nil)
	assert.Error(t, err)

	_, err = svc.GetErrorMessage(context.Background(), &GetErrorMessageInput{})
	assert.Error(t, err)
}

func TestGetDrawResultMessage(t *testing.T) {
	svc, err := NewService(nil)
	require.NoError(t, err)

	fresh, err := svc.GetDrawResultMessage(context.Background(), &GetDrawResultMessageInput{
		Drawer:    "Karan",
		Recipient: "Trevor",
		IsNewDraw: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "You are buying a gift for Trevor. Keep it secret!", fresh.Message)

	replay, err := svc.GetDrawResultMessage(context.Background(), &GetDrawResultMessageInput{
		Drawer:    "Karan",
		Recipient: "Trevor",
	})
	require.NoError(t, err)
	assert.Contains(t, replay.Message, "already drew Trevor")

	_, err = svc.GetDrawResultMessage(context.Background(), &GetDrawResultMessageInput{Drawer: "Karan"})
	assert.Error(t, err)
}
