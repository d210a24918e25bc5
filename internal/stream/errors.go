package stream

import "errors"

var (
	// ErrUnknownDevice is returned when an event targets a device id
	// that has not been registered with the coordinator.
	ErrUnknownDevice = errors.New("stream: unknown device")

	// ErrDuplicateDevice is returned when registering a device id twice.
	ErrDuplicateDevice = errors.New("stream: device already registered")
)
