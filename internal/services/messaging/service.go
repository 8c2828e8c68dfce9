package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/secretsanta/internal/services/draw"
)

const defaultOrganiser = "the organiser"

// service implements the Service interface
type service struct {
	organiser string
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	organiser := defaultOrganiser
	if config != nil && config.Organiser != "" {
		organiser = config.Organiser
	}

	return &service{
		organiser: organiser,
	}, nil
}

// ClassifyError maps an error from the draw service to an ErrorKind
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, draw.ErrUnknownParticipant):
		return ErrorKindUnknownParticipant
	case errors.Is(err, draw.ErrDeviceAlreadyUsed):
		return ErrorKindDeviceAlreadyUsed
	case errors.Is(err, draw.ErrNoValidRecipient):
		return ErrorKindNoValidRecipient
	default:
		return ErrorKindInternal
	}
}

// GetDrawResultMessage returns the message shown after a successful draw
func (s *service) GetDrawResultMessage(ctx context.Context, input *GetDrawResultMessageInput) (*GetDrawResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Recipient == "" {
		return nil, errors.New("recipient cannot be empty")
	}

	if !input.IsNewDraw {
		return &GetDrawResultMessageOutput{
			Title:   fmt.Sprintf("Welcome back, %s", input.Drawer),
			Message: fmt.Sprintf("You already drew %s. Your name stays the same, no redraws!", input.Recipient),
		}, nil
	}

	return &GetDrawResultMessageOutput{
		Title:   fmt.Sprintf("Ho ho ho, %s!", input.Drawer),
		Message: fmt.Sprintf("You are buying a gift for %s. Keep it secret!", input.Recipient),
	}, nil
}

// GetErrorMessage returns a user-friendly message for a failed draw
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input and error cannot be nil")
	}

	kind := ClassifyError(input.Err)
	output := &GetErrorMessageOutput{Kind: kind}

	switch kind {
	case ErrorKindUnknownParticipant:
		output.Title = "Who's that?"
		output.Message = "That name isn't on the list. Pick your name from the list and try again."
	case ErrorKindDeviceAlreadyUsed:
		var lockErr *draw.DeviceAlreadyUsedError
		owner := "someone else"
		if errors.As(input.Err, &lockErr) {
			owner = lockErr.LockedAs
		}
		output.Title = "This device is taken"
		output.Message = fmt.Sprintf("This device was already used to draw for %s. Please draw on your own device.", owner)
	case ErrorKindNoValidRecipient:
		output.Title = "No names left"
		output.Message = fmt.Sprintf("No valid names are left for you to draw. Contact %s.", s.organiser)
	default:
		output.Title = "Something went wrong"
		output.Message = fmt.Sprintf("The draw could not be completed. Try again, or contact %s.", s.organiser)
	}

	return output, nil
}
