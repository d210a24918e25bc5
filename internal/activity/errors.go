package activity

import "errors"

// ErrInvalidFeed is returned when a feed document or lock result cannot
// be decoded. Unrecognised action codes are NOT an error; those records
// are dropped at classification.
var ErrInvalidFeed = errors.New("activity: invalid payload")
