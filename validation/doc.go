// Package validation provides input validation for graph specs, run
// requests, and configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for decoded YAML specs and API payloads.
//
// # Struct Tag Validation
//
//	type NodeSpec struct {
//	    ID   string `yaml:"id" validate:"required"`
//	    Kind string `yaml:"kind" validate:"omitempty,oneof=explore plan analyze generate verify general"`
//	}
//	err := validation.Validate(spec)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("task", node.Task).Min("items", n, 0)
//	err := v.Validate()
package validation
