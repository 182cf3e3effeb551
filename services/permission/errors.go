package permission

import "errors"

var (
	// ErrUnknownLevel is returned when a level name matches neither a
	// stored definition nor a built-in default.
	ErrUnknownLevel = errors.New("unknown permission level")

	// ErrUnknownFlag is returned for permission flag names outside the
	// closed enumeration.
	ErrUnknownFlag = errors.New("unknown permission flag")
)
