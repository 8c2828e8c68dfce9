package messaging

import "context"

// Service turns draw outcomes into text a participant can read
type Service interface {
	// GetDrawResultMessage returns the message shown after a successful draw
	GetDrawResultMessage(ctx context.Context, input *GetDrawResultMessageInput) (*GetDrawResultMessageOutput, error)

	// GetErrorMessage returns a user-friendly message for a failed draw
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
