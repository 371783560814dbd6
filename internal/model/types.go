// Package model defines the domain types for the port-for CLI.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinPort is the lowest port number in the TCP port domain.
	MinPort = 0

	// MaxPort is the highest valid TCP/UDP port number (2^16 - 1).
	MaxPort = 65535
)

// Range is an inclusive band of ports [Low, High].
//
// The text form is "LOW-HIGH", or a bare "N" for the single-port range
// N-N. Range implements encoding.TextMarshaler and TextUnmarshaler so it
// can be used directly in YAML and JSON configuration files.
type Range struct {
	Low  int
	High int
}

// NewRange returns the range [low, high], swapping the bounds when they
// are given in descending order.
func NewRange(low, high int) Range {
	if low > high {
		low, high = high, low
	}
	return Range{Low: low, High: high}
}

// Len returns the width of the range, High - Low. A single-port range
// has length 0. Good-range filtering compares against this value.
func (r Range) Len() int {
	return r.High - r.Low
}

// Contains reports whether port lies inside the range.
func (r Range) Contains(port int) bool {
	return port >= r.Low && port <= r.High
}

// Validate checks that the range is ordered and within the port domain.
func (r Range) Validate() error {
	if r.Low > r.High {
		return fmt.Errorf("invalid port range %d-%d: low bound exceeds high bound", r.Low, r.High)
	}
	if r.Low < MinPort || r.High > MaxPort {
		return fmt.Errorf("invalid port range %d-%d: out of range (%d-%d)", r.Low, r.High, MinPort, MaxPort)
	}
	return nil
}

// String returns the "LOW-HIGH" form of the range.
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRange parses "LOW-HIGH" or "N" into a Range and validates it.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	lowStr, highStr, isPair := strings.Cut(s, "-")
	if !isPair {
		highStr = lowStr
	}

	low, err := strconv.Atoi(strings.TrimSpace(lowStr))
	if err != nil {
		return Range{}, fmt.Errorf("invalid port range %q: %w", s, err)
	}
	high, err := strconv.Atoi(strings.TrimSpace(highStr))
	if err != nil {
		return Range{}, fmt.Errorf("invalid port range %q: %w", s, err)
	}

	r := Range{Low: low, High: high}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Reservation is a durable name→port association kept by the store.
//
// A reservation is never mutated in place: moving an application to a
// different port requires an unbind followed by a new bind.
type Reservation struct {
	// App is the application name. It is the key in the store file.
	App string `json:"app" yaml:"app"`

	// Port is the TCP port bound to App.
	Port int `json:"port" yaml:"port"`
}

// String returns "app: port", the line format used by the list command.
func (r Reservation) String() string {
	return fmt.Sprintf("%s: %d", r.App, r.Port)
}

const (
	// reservedNameChars are the characters the store file format uses as
	// key/value delimiters, plus line breaks which cannot be written at all.
	reservedNameChars = "=:\r\n"

	// reservedNamePrefixes would turn the line into a comment, a section
	// header or a quoted key when the store file is read back.
	reservedNamePrefixes = "#;[\"`"
)

// ValidateAppName checks that name can be used as a store key.
// Valid names are non-empty, contain neither '=' nor ':' nor line breaks,
// have no surrounding whitespace and do not start with '#', ';', '[' or a
// quote.
func ValidateAppName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: application name must not be empty", ErrInvalidName)
	}
	// A lone "-" is an auto-increment key in the file format.
	if name == "-" {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	// The file format trims keys, so " app" would be read back as "app".
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: %q (names must not start or end with whitespace)", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, reservedNameChars) {
		return fmt.Errorf("%w: %q (names must not contain '=' or ':')", ErrInvalidName, name)
	}
	if strings.ContainsAny(name[:1], reservedNamePrefixes) {
		return fmt.Errorf("%w: %q (names must not start with '#', ';', '[' or a quote)", ErrInvalidName, name)
	}
	return nil
}

// ValidatePort checks that port is inside the TCP port domain.
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("port %d out of range (%d-%d)", port, MinPort, MaxPort)
	}
	return nil
}

// ExitCode defines the process exit codes used by the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred. It is also
	// used by "check" to report an unavailable port.
	ExitGeneralError ExitCode = 1

	// ExitInvalidName indicates the application name cannot be stored.
	ExitInvalidName ExitCode = 2

	// ExitBindingConflict indicates the requested binding contradicts an
	// existing one (app already bound elsewhere, or port owned by another app).
	ExitBindingConflict ExitCode = 3

	// ExitPortSelectionFailed indicates no free port was found within the
	// sampling limit.
	ExitPortSelectionFailed ExitCode = 4

	// ExitConfigError indicates the configuration could not be loaded.
	ExitConfigError ExitCode = 5

	// ExitDockerError indicates the Docker daemon could not be queried.
	ExitDockerError ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
