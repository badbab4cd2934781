package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig classifies every construction-time failure: keys
	// outside the allow-list, values of the wrong type, out-of-range values.
	// Use errors.Is(err, ErrInvalidConfig) instead of string matching.
	ErrInvalidConfig = errors.New("invalid easyimage configuration")

	// ErrUnknownTransformSet is returned when a caller asks for a transform
	// set that the settings do not define.
	ErrUnknownTransformSet = errors.New("unknown transform set")
)

// KeyError reports every key of a configuration block that is not allowed
// there.
type KeyError struct {
	Scope string
	Keys  []string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("cannot specify the following on %s: %s", e.Scope, strings.Join(e.Keys, ", "))
}

func (e *KeyError) Unwrap() error { return ErrInvalidConfig }

// ValueError reports a single property whose value is unusable.
type ValueError struct {
	Scope  string
	Key    string
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Scope, e.Key, e.Value, e.Reason)
}

func (e *ValueError) Unwrap() error { return ErrInvalidConfig }

func unknownSets(names []string) error {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Errorf("%w: %s", ErrUnknownTransformSet, strings.Join(quoted, ", "))
}
