// Package workercfg loads and validates worker-step definitions.
//
// A worker definition is a YAML or JSON document with a top-level "config"
// key. The config describes the step's queue and flow membership; everything
// under it is relayed verbatim to the parent orchestrator, except for the
// "middleware" entry which only has meaning in-process.
package workercfg

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role is a worker's position within a flow.
type Role string

const (
	RoleEntry Role = "entry"
	RoleStep  Role = "step"
)

// Flow describes the step's membership in one or more named flows.
type Flow struct {
	Name  []string `json:"name" yaml:"name" validate:"required,min=1,dive,required"`
	Role  Role     `json:"role" yaml:"role" validate:"required,oneof=entry step"`
	Step  string   `json:"step" yaml:"step" validate:"required"`
	Emits []string `json:"emits,omitempty" yaml:"emits" validate:"omitempty,dive,required"`
}

// Descriptor is the typed view of a worker config. Queue is optional; the
// orchestrator defaults it to the definition file's base name. Flow is
// optional here too: the relay path carries arbitrary serializable configs,
// and a bare-queue descriptor is legal.
type Descriptor struct {
	Queue string `json:"queue,omitempty" yaml:"queue"`
	Flow  *Flow  `json:"flow,omitempty" yaml:"flow"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the descriptor against the declared schema. It returns a
// *ValidationError carrying one entry per failing field.
func (d *Descriptor) Validate(path string) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Path: path, Fields: []FieldError{{Field: "config", Rule: err.Error()}}}
	}

	verr := &ValidationError{Path: path}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
		})
	}
	return verr
}

// fieldPath rewrites a validator namespace like "Descriptor.flow.role" into
// the config-relative "flow.role".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
