package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrMissingDeviceID) {
//	    // handle malformed payload
//	}
var (
	// ErrMissingDeviceID is returned when a device payload has no id.
	ErrMissingDeviceID = errors.New("device: payload missing device id")

	// ErrInvalidPayload is returned when a device payload cannot be decoded.
	ErrInvalidPayload = errors.New("device: invalid payload")

	// ErrUnknownDoorState is returned when a door state has no action
	// string equivalent (i.e. it is DoorStateUnknown).
	ErrUnknownDoorState = errors.New("device: unknown door state has no action")
)
