package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultField returns a freshly created field of the given type with the
// palette defaults: a title-cased label with the " Field" suffix, an
// "Enter {type}..." placeholder, not required, no help text and blank
// validation rules. Dropdown fields are seeded with two placeholder options.
// The shape is deterministic; only the generated ID is not.
func DefaultField(fieldType FieldType) *Field {
	options := []string{}
	if fieldType == FieldTypeDropdown {
		options = []string{"Option 1", "Option 2"}
	}

	return &Field{
		ID:          uuid.NewString(),
		Type:        fieldType,
		Label:       TitleCase(string(fieldType)) + " Field",
		Placeholder: fmt.Sprintf("Enter %s...", fieldType),
		Required:    false,
		HelpText:    "",
		Options:     options,
		Validations: ValidationRules{},
	}
}
