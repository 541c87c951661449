package runtime

import "github.com/formlane/formlane/pkg/models"

// ControlKind selects the control a field renders as.
type ControlKind string

const (
	ControlKindInput    ControlKind = "input"
	ControlKindTextarea ControlKind = "textarea"
	ControlKindCheckbox ControlKind = "checkbox"
	ControlKindSelect   ControlKind = "select"
)

const textareaRows = 4

// SelectPrompt is the placeholder option shown before a dropdown choice is made.
const SelectPrompt = "Choose an option..."

// Control is the renderer's output: everything a client needs to draw one
// interactive input for a field, including its current value and error.
type Control struct {
	FieldID     string      `json:"fieldId"`
	Kind        ControlKind `json:"kind"`
	InputType   string      `json:"inputType,omitempty"`
	Label       string      `json:"label"`
	InlineLabel bool        `json:"inlineLabel"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	HelpText    string      `json:"helpText,omitempty"`
	Options     []string    `json:"options,omitempty"`
	Prompt      string      `json:"prompt,omitempty"`
	Rows        int         `json:"rows,omitempty"`
	Value       string      `json:"value,omitempty"`
	Checked     bool        `json:"checked,omitempty"`
	MinLength   string      `json:"minLength,omitempty"`
	MaxLength   string      `json:"maxLength,omitempty"`
	Pattern     string      `json:"pattern,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// RenderField maps a field definition plus its current value and error to a
// control. The mapping is pure and the same for every call site; a field of
// unknown type falls back to a plain text input rather than rendering
// nothing, so a stored form never partially disappears.
func RenderField(field *models.Field, value any, errMsg string) Control {
	control := Control{
		FieldID:     field.ID,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		HelpText:    field.HelpText,
		Error:       errMsg,
	}

	switch field.Type {
	case models.FieldTypeText:
		control.Kind = ControlKindInput
		control.InputType = "text"
		control.Value = valueString(value)
		control.MinLength = field.Validations.MinLength
		control.MaxLength = field.Validations.MaxLength
		control.Pattern = field.Validations.Pattern
	case models.FieldTypeEmail:
		control.Kind = ControlKindInput
		control.InputType = "email"
		control.Value = valueString(value)
	case models.FieldTypePhone:
		control.Kind = ControlKindInput
		control.InputType = "tel"
		control.Value = valueString(value)
	case models.FieldTypeNumber:
		control.Kind = ControlKindInput
		control.InputType = "number"
		control.Value = valueString(value)
	case models.FieldTypeDate:
		control.Kind = ControlKindInput
		control.InputType = "date"
		control.Value = valueString(value)
	case models.FieldTypeTextarea:
		control.Kind = ControlKindTextarea
		control.Rows = textareaRows
		control.Value = valueString(value)
		control.MinLength = field.Validations.MinLength
		control.MaxLength = field.Validations.MaxLength
	case models.FieldTypeCheckbox:
		control.Kind = ControlKindCheckbox
		control.InlineLabel = true
		control.Checked, _ = value.(bool)
	case models.FieldTypeDropdown:
		control.Kind = ControlKindSelect
		control.Options = append([]string(nil), field.Options...)
		control.Prompt = SelectPrompt
		control.Value = valueString(value)
	default:
		control.Kind = ControlKindInput
		control.InputType = "text"
		control.Value = valueString(value)
	}

	return control
}

// RenderStep renders every field of a step with its current value and error.
func RenderStep(step models.Step, values map[string]any, errors map[string]string) []Control {
	controls := make([]Control, 0, len(step))
	for _, field := range step {
		controls = append(controls, RenderField(field, values[field.ID], errors[field.ID]))
	}

	return controls
}
