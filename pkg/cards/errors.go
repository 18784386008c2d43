// errors.go — Error and warning kinds of a render run.
package cards

import (
	"fmt"
)

// ConfigurationError aborts a run before any page exists.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UnknownFlagError reports a dietary flag outside its category. It aborts
// the whole run: records are expected to be validated on ingestion.
type UnknownFlagError struct {
	Category string
	Value    string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown %s flag %q", e.Category, e.Value)
}

// UnsupportedFontWarning prefixes the warning recorded when no Arabic-capable
// font could be resolved.
const UnsupportedFontWarning = "unsupported font"
