package workercfg

import (
	"fmt"
	"strings"
)

// LoadError reports a worker definition that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load worker definition %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingConfigError reports a definition that loaded but declares no
// top-level "config" key.
type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("no %q found in worker definition %s", "config", e.Path)
}

// FieldError is one failing field within a descriptor.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError reports a descriptor that fails schema validation.
type ValidationError struct {
	Path   string       `json:"path"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field, fe.Rule))
	}
	return fmt.Sprintf("invalid worker config %s: %s", e.Path, strings.Join(parts, ", "))
}
