package models

// JSONSchema represents a JSON Schema used to validate documents before
// they are accepted into the builder.
type JSONSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property represents a JSON Schema property
type Property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Default     any                  `json:"default,omitempty"`
	Format      string               `json:"format,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	MaxLength   *int                 `json:"maxLength,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// ExportSchema describes the exported form document {title, steps,
// exportedAt}. Imports are checked against it before any state changes.
func ExportSchema() *JSONSchema {
	fieldTypes := make([]any, 0, len(FieldTypes))
	for _, t := range FieldTypes {
		fieldTypes = append(fieldTypes, string(t))
	}

	fieldSchema := &Property{
		Type: "object",
		Properties: map[string]*Property{
			"id":          {Type: "string"},
			"type":        {Type: "string", Enum: fieldTypes},
			"label":       {Type: "string"},
			"placeholder": {Type: "string"},
			"required":    {Type: "boolean"},
			"helpText":    {Type: "string"},
			"options":     {Type: "array", Items: &Property{Type: "string"}},
			"validations": {
				Type: "object",
				Properties: map[string]*Property{
					"minLength": {Type: "string"},
					"maxLength": {Type: "string"},
					"pattern":   {Type: "string"},
				},
			},
		},
		Required: []string{"id", "type"},
	}

	return &JSONSchema{
		Type:  "object",
		Title: "Exported form",
		Properties: map[string]*Property{
			"title": {Type: "string"},
			"steps": {
				Type: "array",
				Items: &Property{
					Type:  "array",
					Items: fieldSchema,
				},
			},
			"exportedAt": {Type: "string"},
		},
		Required: []string{"title", "steps"},
	}
}
