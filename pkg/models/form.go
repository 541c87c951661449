package models

import "time"

// DefaultFormTitle is the title a form starts with before the author renames it.
const DefaultFormTitle = "Untitled Form"

// Step is an ordered group of fields shown together before advancing.
type Step []*Field

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	clone := make(Step, len(s))
	for i, field := range s {
		clone[i] = field.Clone()
	}

	return clone
}

// FieldByID returns the field with the given id, or nil.
func (s Step) FieldByID(id string) *Field {
	for _, field := range s {
		if field.ID == id {
			return field
		}
	}

	return nil
}

// CloneSteps deep-copies a steps slice, outer and inner.
func CloneSteps(steps []Step) []Step {
	clone := make([]Step, len(steps))
	for i, step := range steps {
		clone[i] = step.Clone()
	}

	return clone
}

// Form is the aggregate root: the full persisted definition of a form.
// ID is the owner-side identifier, ShareID the public one handed out for
// distribution; both are assigned by the persistence layer at creation.
type Form struct {
	ID        string    `json:"id"`
	ShareID   string    `json:"shareId"`
	Owner     string    `json:"owner,omitempty"`
	Title     string    `json:"title"     validate:"required"`
	Steps     []Step    `json:"steps"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewForm returns an unsaved form with the default title and one empty step,
// the state the authoring surface starts from.
func NewForm() *Form {
	return &Form{
		Title: DefaultFormTitle,
		Steps: []Step{{}},
	}
}

// FieldByID returns the field with the given id from whichever step holds
// it, or nil.
func (f *Form) FieldByID(id string) *Field {
	for _, step := range f.Steps {
		if field := step.FieldByID(id); field != nil {
			return field
		}
	}

	return nil
}

// FieldCount returns the number of fields across all steps.
func (f *Form) FieldCount() int {
	count := 0
	for _, step := range f.Steps {
		count += len(step)
	}

	return count
}
