package domain

import "github.com/cockroachdb/errors"

var (
	// ErrConfiguration marks fatal configuration problems such as an unknown
	// test location policy.
	ErrConfiguration = errors.New("scaffold: invalid configuration")
	// ErrValidation marks fatal path problems detected before any write.
	ErrValidation = errors.New("scaffold: validation failed")
	// ErrResolution marks recoverable lookup failures. Callers degrade to a
	// placeholder instead of aborting.
	ErrResolution = errors.New("scaffold: unresolved reference")
	// ErrCyclicType is returned when type resolution revisits a type alias.
	ErrCyclicType = errors.Wrap(ErrResolution, "cyclic type reference")
	// ErrUserCancelled is returned when the user dismisses a prompt.
	// It is a quiet exit, not a failure.
	ErrUserCancelled = errors.New("scaffold: cancelled by user")
	// ErrParse is returned when a file cannot be parsed at all.
	ErrParse = errors.New("scaffold: parse failed")
)

// IsQuiet reports whether err should end a flow without a message.
func IsQuiet(err error) bool {
	return errors.Is(err, ErrUserCancelled)
}
