package runtime

import (
	"errors"

	"github.com/formlane/formlane/pkg/models"
)

// ErrNotLastStep is returned when Submit is called before the last step.
var ErrNotLastStep = errors.New("submit is only reachable from the last step")

// ErrStepInvalid is returned when Next or Submit is blocked by validation
// errors on the current step.
var ErrStepInvalid = errors.New("current step has validation errors")

// FillSession drives one visitor through a fetched form: an integer cursor
// over the steps, the collected values and the current per-field errors.
// The form itself is read-only here; the session never writes back to it.
// There is no terminal state, the form can be revisited after submission.
type FillSession struct {
	form    *models.Form
	current int
	values  map[string]any
	errors  map[string]string
}

// NewFillSession starts a session on step 0 with no values entered.
func NewFillSession(form *models.Form) *FillSession {
	return &FillSession{
		form:   form,
		values: map[string]any{},
		errors: map[string]string{},
	}
}

// CurrentStep returns the zero-based cursor.
func (s *FillSession) CurrentStep() int {
	return s.current
}

// Values returns a copy of the collected values.
func (s *FillSession) Values() map[string]any {
	values := make(map[string]any, len(s.values))
	for id, v := range s.values {
		values[id] = v
	}

	return values
}

// Errors returns a copy of the current per-field error messages.
func (s *FillSession) Errors() map[string]string {
	errs := make(map[string]string, len(s.errors))
	for id, msg := range s.errors {
		errs[id] = msg
	}

	return errs
}

// SetValue records a field value and clears any stale error for the field.
func (s *FillSession) SetValue(fieldID string, value any) {
	s.values[fieldID] = value
	delete(s.errors, fieldID)
}

// Controls renders the current step with values and errors applied.
func (s *FillSession) Controls() []Control {
	return RenderStep(s.stepFields(s.current), s.values, s.errors)
}

// Next validates the current step and, when clean, advances the cursor
// clamped to the last step. On validation failure the cursor stays put and
// the step's errors are returned with ErrStepInvalid.
func (s *FillSession) Next() (map[string]string, error) {
	stepErrors := ValidateStep(s.stepFields(s.current), s.values)
	if len(stepErrors) > 0 {
		s.errors = stepErrors

		return s.Errors(), ErrStepInvalid
	}

	if s.current < len(s.form.Steps)-1 {
		s.current++
	}

	return nil, nil
}

// Previous moves the cursor back one step, clamped to 0. No validation gate.
func (s *FillSession) Previous() {
	if s.current > 0 {
		s.current--
	}
}

// Submit re-validates the current step and emits the response payload,
// values grouped per step under "step1", "step2", ... keys. It is only
// reachable from the last step.
func (s *FillSession) Submit() (map[string]map[string]any, error) {
	if s.current != len(s.form.Steps)-1 {
		return nil, ErrNotLastStep
	}

	stepErrors := ValidateStep(s.stepFields(s.current), s.values)
	if len(stepErrors) > 0 {
		s.errors = stepErrors

		return nil, ErrStepInvalid
	}

	payload := map[string]map[string]any{}

	for index, step := range s.form.Steps {
		stepValues := map[string]any{}

		for _, field := range step {
			if value, ok := s.values[field.ID]; ok {
				stepValues[field.ID] = value
			}
		}

		if len(stepValues) > 0 {
			payload[models.StepKey(index)] = stepValues
		}
	}

	return payload, nil
}

func (s *FillSession) stepFields(index int) models.Step {
	if index < 0 || index >= len(s.form.Steps) {
		return nil
	}

	return s.form.Steps[index]
}
