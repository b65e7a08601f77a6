package diag

import "fmt"

// Severity says what a diagnostic means for the input it is about. The zero
// value is not a valid severity.
type Severity uint8

const (
	// SevWarning: the spec is written but binds less than the module has,
	// e.g. a variadic tail or an opaque pointer bound as i8*.
	SevWarning Severity = iota + 1
	// SevError: nothing is written for the input.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Fails reports whether s keeps the input from being translated.
func (s Severity) Fails() bool {
	return s >= SevError
}
