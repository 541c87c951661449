// Package builder implements the authoring-side state store: a mutable form
// document plus selection cursor, active step and preview mode, mutated
// through a fixed set of operations and persisted on save or on the
// auto-save interval.
package builder

import (
	"sync"
	"time"

	"github.com/formlane/formlane/pkg/models"
)

// PreviewMode selects the responsive preview width.
type PreviewMode string

const (
	PreviewModeDesktop PreviewMode = "desktop"
	PreviewModeTablet  PreviewMode = "tablet"
	PreviewModeMobile  PreviewMode = "mobile"
)

// FieldPatch is a partial field update. Nil members are left untouched;
// ID and Type are not patchable, no operation changes a field's type.
type FieldPatch struct {
	Label       *string                 `json:"label,omitempty"`
	Placeholder *string                 `json:"placeholder,omitempty"`
	HelpText    *string                 `json:"helpText,omitempty"`
	Required    *bool                   `json:"required,omitempty"`
	Options     *[]string               `json:"options,omitempty"`
	Validations *models.ValidationRules `json:"validations,omitempty"`
}

// Session owns one in-memory form document during authoring. Every mutation
// replaces the steps collection with fresh outer and inner slices, so a
// snapshot handed out earlier is never corrupted mid-update. Handlers run
// concurrently, so operations are serialized by a mutex.
type Session struct {
	mu sync.Mutex

	id              string
	owner           string
	title           string
	steps           []models.Step
	currentStep     int
	selectedFieldID string
	previewMode     PreviewMode
	formID          string
	shareID         string
	lastTouched     time.Time

	saver  Saver
	saveMu sync.Mutex

	autosaveStop chan struct{}
	autosaveOnce sync.Once
}

// NewSession starts an authoring session on an empty one-step form with the
// default title, the state the authoring surface mounts with.
func NewSession(id, owner string, saver Saver) *Session {
	return &Session{
		id:          id,
		owner:       owner,
		title:       models.DefaultFormTitle,
		steps:       []models.Step{{}},
		previewMode: PreviewModeDesktop,
		lastTouched: time.Now().UTC(),
		saver:       saver,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Owner returns the authenticated user the session belongs to, if any.
func (s *Session) Owner() string {
	return s.owner
}

// Title returns the form title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.title
}

// SetTitle renames the form.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = title
	s.touch()
}

// CurrentStep returns the active step index.
func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentStep
}

// SetCurrentStep moves the active step pointer, clamped into bounds.
func (s *Session) SetCurrentStep(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentStep = clamp(index, 0, len(s.steps)-1)
	s.touch()
}

// SelectedFieldID returns the id of the field being edited, or "".
func (s *Session) SelectedFieldID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedFieldID
}

// SelectField moves the selection cursor.
func (s *Session) SelectField(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedFieldID = id
	s.touch()
}

// PreviewMode returns the current responsive preview mode.
func (s *Session) PreviewMode() PreviewMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.previewMode
}

// SetPreviewMode switches the responsive preview; unknown modes are ignored.
func (s *Session) SetPreviewMode(mode PreviewMode) {
	if mode != PreviewModeDesktop && mode != PreviewModeTablet && mode != PreviewModeMobile {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.previewMode = mode
	s.touch()
}

// FormID returns the persisted form id recorded by the last save, or "".
func (s *Session) FormID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.formID
}

// ShareID returns the share id recorded by the last save, or "".
func (s *Session) ShareID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shareID
}

// Snapshot returns a deep copy of the current form document.
func (s *Session) Snapshot() *models.Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &models.Form{
		ID:      s.formID,
		ShareID: s.shareID,
		Owner:   s.owner,
		Title:   s.title,
		Steps:   models.CloneSteps(s.steps),
	}
}

// StepCount returns the number of steps.
func (s *Session) StepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.steps)
}

// AddField appends a defaulted field of the given type to the step and
// selects it. A negative index targets the active step; a step slot past
// the end is created on demand.
func (s *Session) AddField(fieldType models.FieldType, stepIndex int) *models.Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stepIndex < 0 {
		stepIndex = s.currentStep
	}

	field := models.DefaultField(fieldType)

	steps := cloneOuter(s.steps)
	for len(steps) <= stepIndex {
		steps = append(steps, models.Step{})
	}

	steps[stepIndex] = append(append(models.Step{}, steps[stepIndex]...), field)

	s.steps = steps
	s.selectedFieldID = field.ID
	s.touch()

	return field
}

// InsertFieldAtIndex inserts a defaulted field at the given position within
// a step and selects it. An out-of-range position falls back to append.
func (s *Session) InsertFieldAtIndex(fieldType models.FieldType, stepIndex, index int) *models.Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stepIndex < 0 || stepIndex >= len(s.steps) {
		stepIndex = clamp(stepIndex, 0, len(s.steps)-1)
	}

	field := models.DefaultField(fieldType)

	steps := cloneOuter(s.steps)
	fields := append(models.Step{}, steps[stepIndex]...)

	if index >= 0 && index <= len(fields) {
		fields = append(fields, nil)
		copy(fields[index+1:], fields[index:])
		fields[index] = field
	} else {
		fields = append(fields, field)
	}

	steps[stepIndex] = fields

	s.steps = steps
	s.selectedFieldID = field.ID
	s.touch()

	return field
}

// RemoveField removes the field with the given id from whichever step holds
// it and clears the selection if it pointed at the field. Removing an
// unknown id is a no-op.
func (s *Session) RemoveField(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := make([]models.Step, len(s.steps))

	for i, step := range s.steps {
		filtered := models.Step{}

		for _, field := range step {
			if field.ID != id {
				filtered = append(filtered, field)
			}
		}

		steps[i] = filtered
	}

	s.steps = steps

	if s.selectedFieldID == id {
		s.selectedFieldID = ""
	}

	s.touch()
}

// UpdateField shallow-merges the patch into the matching field wherever it
// is found; unknown ids are a no-op.
func (s *Session) UpdateField(id string, patch FieldPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := cloneOuter(s.steps)

	for i, step := range steps {
		for j, field := range step {
			if field.ID != id {
				continue
			}

			fields := append(models.Step{}, step...)
			fields[j] = applyPatch(field, patch)
			steps[i] = fields
		}
	}

	s.steps = steps
	s.touch()
}

// ReorderFields removes the field at fromIndex and reinserts it at toIndex
// within the same step. Cross-step moves are not supported by this
// operation; out-of-range indexes are a no-op.
func (s *Session) ReorderFields(stepIndex, fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stepIndex < 0 || stepIndex >= len(s.steps) {
		return
	}

	step := s.steps[stepIndex]
	if fromIndex < 0 || fromIndex >= len(step) {
		return
	}

	toIndex = clamp(toIndex, 0, len(step)-1)

	fields := append(models.Step{}, step...)
	moved := fields[fromIndex]
	fields = append(fields[:fromIndex], fields[fromIndex+1:]...)

	fields = append(fields, nil)
	copy(fields[toIndex+1:], fields[toIndex:])
	fields[toIndex] = moved

	steps := cloneOuter(s.steps)
	steps[stepIndex] = fields

	s.steps = steps
	s.touch()
}

// AddStep appends an empty step and makes it the active one.
func (s *Session) AddStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.steps = append(cloneOuter(s.steps), models.Step{})
	s.currentStep = len(s.steps) - 1
	s.touch()
}

// RemoveStep deletes a step. Removing the last remaining step is refused;
// if the active pointer falls out of bounds it moves to the new last step.
func (s *Session) RemoveStep(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) <= 1 || index < 0 || index >= len(s.steps) {
		return
	}

	steps := cloneOuter(s.steps)
	steps = append(steps[:index], steps[index+1:]...)

	s.steps = steps

	if s.currentStep >= len(steps) {
		s.currentStep = len(steps) - 1
	}

	s.touch()
}

// LoadTemplate replaces the session's document with a starter template.
func (s *Session) LoadTemplate(template Template) {
	steps := template.Steps()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = template.Name
	s.steps = steps
	s.currentStep = 0
	s.selectedFieldID = ""
	s.touch()
}

// LastTouched returns the time of the last mutation, for idle eviction.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastTouched
}

// hasContent reports whether any step holds at least one field. Callers
// must hold s.mu.
func (s *Session) hasContent() bool {
	for _, step := range s.steps {
		if len(step) > 0 {
			return true
		}
	}

	return false
}

// touch records mutation time. Callers must hold s.mu.
func (s *Session) touch() {
	s.lastTouched = time.Now().UTC()
}

func applyPatch(field *models.Field, patch FieldPatch) *models.Field {
	updated := field.Clone()

	if patch.Label != nil {
		updated.Label = *patch.Label
	}

	if patch.Placeholder != nil {
		updated.Placeholder = *patch.Placeholder
	}

	if patch.HelpText != nil {
		updated.HelpText = *patch.HelpText
	}

	if patch.Required != nil {
		updated.Required = *patch.Required
	}

	if patch.Options != nil {
		updated.Options = append([]string{}, (*patch.Options)...)
	}

	if patch.Validations != nil {
		updated.Validations = *patch.Validations
	}

	return updated
}

func cloneOuter(steps []models.Step) []models.Step {
	return append([]models.Step(nil), steps...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
