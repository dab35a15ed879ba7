package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDiagnosticSink wraps failures to write a debug dump. The Manager logs
// it and carries on; it never reaches getter callers.
var ErrDiagnosticSink = errors.New("diagnostic sink unavailable")

// MissingCredentialError reports that a required credential was found in
// none of its environment variables. The message carries only the variable
// names an operator needs to set, never secret material.
type MissingCredentialError struct {
	Field string   // config field, e.g. "api_key"
	Keys  []string // variables consulted, highest precedence first
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential %s: set one of %s", e.Field, strings.Join(e.Keys, ", "))
}

// InvalidValueError reports an environment value that failed parsing or
// validation. Value is the raw text as found in the environment; credential
// fields are never routed through this type.
type InvalidValueError struct {
	Field  string // config field, e.g. "temperature"
	Key    string // variable the value came from, e.g. "LLM_TEMPERATURE"
	Value  string // offending raw value
	Reason string // what a valid value looks like
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s (from %s): %s", e.Value, e.Field, e.Key, e.Reason)
}

// IsMissingCredential reports whether err is, or wraps, a
// MissingCredentialError.
func IsMissingCredential(err error) bool {
	var target *MissingCredentialError
	return errors.As(err, &target)
}

// IsInvalidValue reports whether err is, or wraps, an InvalidValueError.
func IsInvalidValue(err error) bool {
	var target *InvalidValueError
	return errors.As(err, &target)
}
