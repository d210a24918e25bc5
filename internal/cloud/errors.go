package cloud

import "errors"

var (
	// ErrRequestFailed is returned when the API responds with a
	// non-success status that has no more specific meaning.
	ErrRequestFailed = errors.New("cloud: request failed")

	// ErrBadCredentials is returned when a session request is rejected
	// for a wrong password.
	ErrBadCredentials = errors.New("cloud: bad credentials")

	// ErrValidationRequired is returned when a session was established
	// but the install id still needs two-factor validation before the
	// token is usable.
	ErrValidationRequired = errors.New("cloud: verification code required")

	// ErrNotAuthenticated is returned by API calls made before a
	// successful Authenticate.
	ErrNotAuthenticated = errors.New("cloud: not authenticated")

	// ErrInvalidToken is returned when an access token cannot be decoded.
	ErrInvalidToken = errors.New("cloud: invalid access token")
)
