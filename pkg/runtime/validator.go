// Package runtime implements the form-filling side: per-step validation,
// field rendering and the step navigation state machine. It is shared by the
// builder's live preview and the public submission surface.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formlane/formlane/pkg/models"
)

// RequiredMessage is the canonical message for a missing required value.
const RequiredMessage = "This field is required"

// ValidateStep checks a step's fields against the submitted values and
// returns a field-id to message map; an empty map means the step is valid.
// A required field fails when its value is absent or blank after trimming.
// A present value is then checked against the parsed MinLength/MaxLength
// bounds; an unparseable bound is skipped. Pattern stays an advisory
// constraint on the rendered control and is not checked here. The function
// is pure: identical inputs always yield identical output.
func ValidateStep(fields models.Step, values map[string]any) map[string]string {
	errors := map[string]string{}

	for _, field := range fields {
		value := valueString(values[field.ID])

		if field.Required && strings.TrimSpace(value) == "" {
			errors[field.ID] = RequiredMessage

			continue
		}

		if value == "" {
			continue
		}

		length := len([]rune(value))

		if min, ok := parseBound(field.Validations.MinLength); ok && length < min {
			errors[field.ID] = fmt.Sprintf("Minimum length is %d", min)

			continue
		}

		if max, ok := parseBound(field.Validations.MaxLength); ok && length > max {
			errors[field.ID] = fmt.Sprintf("Maximum length is %d", max)
		}
	}

	return errors
}

// valueString normalizes a submitted value for validation. An unchecked
// checkbox (false) counts as no value.
func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}

		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func parseBound(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}

	bound, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}

	return bound, true
}
