package config

import "errors"

// Override configuration errors. An invalid override file indicates a
// caller mistake, so validation fails the whole batch before any scanning
// starts. Sentinel errors keep errors.Is checks possible for callers.
var (
	// ErrConfigNotFound is returned when an explicitly requested override
	// file does not exist.
	ErrConfigNotFound = errors.New("override configuration file not found")

	// ErrUnknownRule is returned when an override names a rule id that is
	// not in the catalog.
	ErrUnknownRule = errors.New("unknown rule id in override configuration")

	// ErrInvalidSeverity is returned when a severity override is not one of
	// low, medium, high, critical.
	ErrInvalidSeverity = errors.New("invalid severity in override configuration")
)
