package messaging

// ErrorKind groups draw failures by how the UI should react
type ErrorKind string

const (
	// ErrorKindUnknownParticipant means the name is not on the roster; re-prompt
	ErrorKindUnknownParticipant ErrorKind = "unknown_participant"

	// ErrorKindDeviceAlreadyUsed means the device belongs to someone else; block
	ErrorKindDeviceAlreadyUsed ErrorKind = "device_already_used"

	// ErrorKindNoValidRecipient means the organiser has to step in
	ErrorKindNoValidRecipient ErrorKind = "no_valid_recipient"

	// ErrorKindInternal covers storage and other unexpected failures
	ErrorKindInternal ErrorKind = "internal"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Organiser is named in messages that ask for help. Defaults to "the organiser".
	Organiser string
}

// GetDrawResultMessageInput contains parameters for a draw result message
type GetDrawResultMessageInput struct {
	// Drawer is the participant who drew
	Drawer string

	// Recipient is the name they drew
	Recipient string

	// IsNewDraw is false when the result is being shown again
	IsNewDraw bool
}

// GetDrawResultMessageOutput contains a draw result message
type GetDrawResultMessageOutput struct {
	Title   string
	Message string
}

// GetErrorMessageInput contains the failure to describe
type GetErrorMessageInput struct {
	// Err is the error returned by the draw service
	Err error
}

// GetErrorMessageOutput contains a failure message
type GetErrorMessageOutput struct {
	Kind    ErrorKind
	Title   string
	Message string
}
