package draw

import "fmt"

// DrawError is a custom error type for draw-related errors
type DrawError string

// Error implements the error interface
func (e DrawError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrUnknownParticipant DrawError = "unknown participant"
	ErrDeviceAlreadyUsed  DrawError = "device already used by another participant"
	ErrNoValidRecipient   DrawError = "no valid recipient left"
	ErrNilConfig          DrawError = "config cannot be nil"
	ErrNilRepository      DrawError = "draw state repository cannot be nil"
	ErrNilRoster          DrawError = "roster cannot be nil"
	ErrNilPicker          DrawError = "picker cannot be nil"
	ErrNilClock           DrawError = "clock cannot be nil"
	ErrNilUUIDGenerator   DrawError = "UUID generator cannot be nil"
)

// DeviceAlreadyUsedError reports which participant owns the device.
// errors.Is(err, ErrDeviceAlreadyUsed) holds for it.
type DeviceAlreadyUsedError struct {
	LockedAs string
}

func (e *DeviceAlreadyUsedError) Error() string {
	return fmt.Sprintf("%s: device belongs to %s", ErrDeviceAlreadyUsed, e.LockedAs)
}

func (e *DeviceAlreadyUsedError) Is(target error) bool {
	return target == ErrDeviceAlreadyUsed
}
