package anchorfix

import (
	"fmt"
)

// ConfigurationError reports an invocation that cannot start: an unknown anchor, a missing
// or unusable subject, or an inverted frame range. It is always returned before sampling.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newConfigurationError(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SingularTransformError reports a transform that had to be inverted but could not be.
// Which is "anchor" or "parent".
type SingularTransformError struct {
	Frame int
	Which string
	Err   error
}

func (e *SingularTransformError) Error() string {
	return fmt.Sprintf("%s world transform at frame %d is not invertible: %v", e.Which, e.Frame, e.Err)
}

// Unwrap returns the underlying inversion error.
func (e *SingularTransformError) Unwrap() error {
	return e.Err
}
