package model

import (
	"fmt"
	"strings"
)

// Error taxonomy. RangeError, ConfigIntegrityError, ValidationError
// and PersistenceError are failures; ParseFailure and AmbiguousMatch
// are expected, frequent outcomes that callers handle by re-prompting,
// returned as values and never panicked.

// RangeError reports an invalid window or date argument.
type RangeError struct {
	Field string
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error: %s: %s", e.Field, e.Msg)
}

// ConfigIntegrityError reports a dangling reference or invalid rule
// in the recurring model, naming the offending field.
type ConfigIntegrityError struct {
	Field string
	Msg   string
}

func (e *ConfigIntegrityError) Error() string {
	return fmt.Sprintf("config integrity: %s: %s", e.Field, e.Msg)
}

// ValidationError reports an adjustment that would leave the model
// negative or inconsistent; it blocks the confirm transition.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// PersistenceError reports a failed config or audit write. The
// in-memory model is rolled back before this is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ParseFailure means no pattern rule matched the input text.
type ParseFailure struct {
	Text   string
	Reason string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("could not parse %q: %s", e.Text, e.Reason)
}

// AmbiguousMatch carries all candidates that tied during entity
// resolution, ranked by distance. Callers must surface the
// alternatives rather than pick one silently.
type AmbiguousMatch struct {
	Raw          string
	Alternatives []Alternative
}

func (e *AmbiguousMatch) Error() string {
	names := make([]string, len(e.Alternatives))
	for i, a := range e.Alternatives {
		names[i] = a.Name
	}
	return fmt.Sprintf("%q is ambiguous: could be %s", e.Raw, strings.Join(names, ", "))
}
