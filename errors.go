package gv

import "fmt"

// ConfigError reports a malformed visualization specification: a parameter
// registered with both a value and an expression, a duplicate setter, an
// expression referencing a variable no ancestor provides, and so on.
//
// Configuration errors are fail-fast. They indicate a broken spec, not a
// recoverable runtime condition, so callers should surface them instead of
// retrying.
type ConfigError struct {
	// Op is the operation that failed, e.g. "registerParam".
	Op string

	// Name is the offending parameter, channel or variable name.
	Name string

	// Reason describes what is wrong.
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return "gv: " + e.Op + ": " + e.Reason
	}
	return fmt.Sprintf("gv: %s: %q: %s", e.Op, e.Name, e.Reason)
}

// Configf builds a ConfigError with a formatted reason.
func Configf(op, name, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Name: name, Reason: fmt.Sprintf(format, args...)}
}
