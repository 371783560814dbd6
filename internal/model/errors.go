package model

import "errors"

// Error sentinels returned by the selection engine and the store.
// Callers match them with errors.Is; the returned errors wrap them with
// the offending name or port.
var (
	// ErrSelectionExhausted is returned when random probing found no free
	// port within the sampling limit.
	ErrSelectionExhausted = errors.New("no selectable port")

	// ErrInvalidName is returned for application names that cannot be
	// stored as a store key.
	ErrInvalidName = errors.New("invalid application name")

	// ErrBindingConflict is returned when an already bound application is
	// asked to bind to a different port.
	ErrBindingConflict = errors.New("conflicting binding")

	// ErrPortOwnedByOther is returned when the requested port is already
	// bound to a different application.
	ErrPortOwnedByOther = errors.New("port already in use by another app")
)

// ExitCodeFor maps an error to the CLI exit code for its kind.
// Errors that match no known sentinel map to ExitGeneralError.
func ExitCodeFor(err error) ExitCode {
	var cliErr *CLIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, ErrInvalidName):
		return ExitInvalidName
	case errors.Is(err, ErrBindingConflict), errors.Is(err, ErrPortOwnedByOther):
		return ExitBindingConflict
	case errors.Is(err, ErrSelectionExhausted):
		return ExitPortSelectionFailed
	default:
		return ExitGeneralError
	}
}
