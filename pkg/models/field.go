// Package models defines the core domain models for multi-step form building
package models

import "strings"

// FieldType identifies the kind of input a field renders as.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeDate     FieldType = "date"
)

// FieldTypes lists every supported field type in palette order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypeNumber,
	FieldTypeTextarea,
	FieldTypeCheckbox,
	FieldTypeDropdown,
	FieldTypeDate,
}

// IsValid reports whether the field type is one of the supported types.
func (ft FieldType) IsValid() bool {
	for _, t := range FieldTypes {
		if ft == t {
			return true
		}
	}

	return false
}

// ValidationRules carries the optional per-field constraints. Length bounds
// are stored as strings and parsed at validation time; a blank value means
// the constraint is not set. Pattern is attached to the rendered control
// only and is never enforced by the step validator.
type ValidationRules struct {
	MinLength string `json:"minLength,omitempty"`
	MaxLength string `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// IsZero reports whether no constraint is set.
func (v ValidationRules) IsZero() bool {
	return v.MinLength == "" && v.MaxLength == "" && v.Pattern == ""
}

// Field represents one input in a form step. The ID is assigned at creation
// and immutable; Type is fixed at creation, no mutation changes it.
type Field struct {
	ID          string          `json:"id"          validate:"required"`
	Type        FieldType       `json:"type"        validate:"required"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	Required    bool            `json:"required"`
	HelpText    string          `json:"helpText"`
	Options     []string        `json:"options"`
	Validations ValidationRules `json:"validations"`
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	clone := *f
	if f.Options != nil {
		// Preserve empty-but-non-nil so the document serializes as [] and
		// round-trips through the export schema.
		clone.Options = append([]string{}, f.Options...)
	}

	return &clone
}

// DisplayLabel returns the label, falling back to a title-cased type name so
// an unlabeled field still renders something meaningful.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}

	return TitleCase(string(f.Type))
}

// TitleCase upper-cases the first letter of s.
func TitleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
