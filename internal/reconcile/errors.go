package reconcile

import "errors"

var (
	// ErrDeviceMismatch reports an activity offered to a state record
	// whose device id it does not carry. This signals a caller bug, not
	// a recoverable condition; the event is never partially applied.
	ErrDeviceMismatch = errors.New("reconcile: activity device id does not match record")

	// ErrUnsupportedKind reports an activity kind the target record type
	// cannot consume.
	ErrUnsupportedKind = errors.New("reconcile: unsupported activity kind for record")

	// ErrInvalidMessage reports a push payload that cannot be decoded.
	ErrInvalidMessage = errors.New("reconcile: invalid push message")
)
