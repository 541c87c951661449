package builder

import (
	"testing"

	"github.com/formlane/formlane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession("session-1", "", nil)
}

func fieldIDs(step models.Step) []string {
	ids := make([]string, len(step))
	for i, field := range step {
		ids[i] = field.ID
	}

	return ids
}

func TestSession_StartsWithOneEmptyStep(t *testing.T) {
	session := newTestSession()

	assert.Equal(t, models.DefaultFormTitle, session.Title())
	assert.Equal(t, 1, session.StepCount())
	assert.Equal(t, 0, session.CurrentStep())
	assert.Empty(t, session.SelectedFieldID())
	assert.Equal(t, PreviewModeDesktop, session.PreviewMode())
}

func TestSession_AddFieldAppendsAndSelects(t *testing.T) {
	session := newTestSession()

	field := session.AddField(models.FieldTypeText, 0)

	snapshot := session.Snapshot()
	require.Len(t, snapshot.Steps[0], 1)
	assert.Equal(t, field.ID, snapshot.Steps[0][0].ID)
	assert.Equal(t, field.ID, session.SelectedFieldID())
}

func TestSession_AddFieldCreatesMissingStepSlot(t *testing.T) {
	session := newTestSession()

	session.AddField(models.FieldTypeEmail, 2)

	snapshot := session.Snapshot()
	require.Len(t, snapshot.Steps, 3)
	assert.Empty(t, snapshot.Steps[1])
	assert.Len(t, snapshot.Steps[2], 1)
}

func TestSession_InsertFieldAtIndex(t *testing.T) {
	session := newTestSession()
	first := session.AddField(models.FieldTypeText, 0)
	second := session.AddField(models.FieldTypeText, 0)

	inserted := session.InsertFieldAtIndex(models.FieldTypeEmail, 0, 1)

	step := session.Snapshot().Steps[0]
	assert.Equal(t, []string{first.ID, inserted.ID, second.ID}, fieldIDs(step))
	assert.Equal(t, inserted.ID, session.SelectedFieldID())
}

func TestSession_InsertFieldOutOfRangeAppends(t *testing.T) {
	session := newTestSession()
	first := session.AddField(models.FieldTypeText, 0)

	inserted := session.InsertFieldAtIndex(models.FieldTypeDate, 0, 99)

	step := session.Snapshot().Steps[0]
	assert.Equal(t, []string{first.ID, inserted.ID}, fieldIDs(step))
}

func TestSession_RemoveFieldIsIdempotent(t *testing.T) {
	session := newTestSession()
	field := session.AddField(models.FieldTypeText, 0)
	session.AddField(models.FieldTypeEmail, 0)

	session.RemoveField(field.ID)
	assert.Len(t, session.Snapshot().Steps[0], 1)
	assert.NotEqual(t, field.ID, session.SelectedFieldID())

	// second removal is a no-op, no error, no change
	session.RemoveField(field.ID)
	assert.Len(t, session.Snapshot().Steps[0], 1)
}

func TestSession_RemoveFieldClearsSelection(t *testing.T) {
	session := newTestSession()
	field := session.AddField(models.FieldTypeText, 0)
	require.Equal(t, field.ID, session.SelectedFieldID())

	session.RemoveField(field.ID)
	assert.Empty(t, session.SelectedFieldID())
}

func TestSession_RemoveFieldKeepsOtherSelection(t *testing.T) {
	session := newTestSession()
	first := session.AddField(models.FieldTypeText, 0)
	second := session.AddField(models.FieldTypeEmail, 0)
	require.Equal(t, second.ID, session.SelectedFieldID())

	session.RemoveField(first.ID)
	assert.Equal(t, second.ID, session.SelectedFieldID())
}

func TestSession_UpdateFieldShallowMerges(t *testing.T) {
	session := newTestSession()
	field := session.AddField(models.FieldTypeText, 0)

	label := "Your name"
	required := true
	session.UpdateField(field.ID, FieldPatch{Label: &label, Required: &required})

	updated := session.Snapshot().FieldByID(field.ID)
	assert.Equal(t, "Your name", updated.Label)
	assert.True(t, updated.Required)
	// untouched members keep their defaults
	assert.Equal(t, "Enter text...", updated.Placeholder)
	assert.Equal(t, models.FieldTypeText, updated.Type)
}

func TestSession_UpdateFieldUnknownIDIsNoOp(t *testing.T) {
	session := newTestSession()
	session.AddField(models.FieldTypeText, 0)
	before := session.Snapshot()

	label := "x"
	session.UpdateField("missing", FieldPatch{Label: &label})

	assert.Equal(t, before.Steps, session.Snapshot().Steps)
}

func TestSession_UpdateFieldValidations(t *testing.T) {
	session := newTestSession()
	field := session.AddField(models.FieldTypeTextarea, 0)

	rules := models.ValidationRules{MinLength: "5", MaxLength: "200"}
	session.UpdateField(field.ID, FieldPatch{Validations: &rules})

	assert.Equal(t, rules, session.Snapshot().FieldByID(field.ID).Validations)
}

func TestSession_ReorderFieldsIsPermutation(t *testing.T) {
	session := newTestSession()
	a := session.AddField(models.FieldTypeText, 0)
	b := session.AddField(models.FieldTypeEmail, 0)
	c := session.AddField(models.FieldTypeDate, 0)

	session.ReorderFields(0, 0, 2)

	step := session.Snapshot().Steps[0]
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, fieldIDs(step))
	assert.Len(t, step, 3)
}

func TestSession_ReorderFieldsOutOfRangeIsNoOp(t *testing.T) {
	session := newTestSession()
	a := session.AddField(models.FieldTypeText, 0)
	b := session.AddField(models.FieldTypeEmail, 0)

	session.ReorderFields(0, 5, 0)
	session.ReorderFields(3, 0, 1)

	assert.Equal(t, []string{a.ID, b.ID}, fieldIDs(session.Snapshot().Steps[0]))
}

func TestSession_AddStepSelectsIt(t *testing.T) {
	session := newTestSession()

	session.AddStep()

	assert.Equal(t, 2, session.StepCount())
	assert.Equal(t, 1, session.CurrentStep())
}

func TestSession_AddThenRemoveStepRestoresCount(t *testing.T) {
	session := newTestSession()
	session.AddStep()

	session.RemoveStep(1)

	assert.Equal(t, 1, session.StepCount())
}

func TestSession_RemoveLastStepIsRefused(t *testing.T) {
	session := newTestSession()

	session.RemoveStep(0)

	assert.Equal(t, 1, session.StepCount())
}

func TestSession_RemoveActiveStepClampsPointer(t *testing.T) {
	session := newTestSession()
	session.AddStep()
	session.AddStep()
	require.Equal(t, 2, session.CurrentStep())

	session.RemoveStep(2)

	assert.Equal(t, 1, session.CurrentStep())
}

func TestSession_SnapshotIsImmutable(t *testing.T) {
	session := newTestSession()
	field := session.AddField(models.FieldTypeText, 0)

	before := session.Snapshot()

	label := "changed"
	session.UpdateField(field.ID, FieldPatch{Label: &label})
	session.AddField(models.FieldTypeDate, 0)

	// the earlier snapshot observes none of the later mutations
	assert.Equal(t, "Text Field", before.Steps[0][0].Label)
	assert.Len(t, before.Steps[0], 1)
}

func TestSession_SetPreviewModeIgnoresUnknown(t *testing.T) {
	session := newTestSession()

	session.SetPreviewMode(PreviewModeMobile)
	assert.Equal(t, PreviewModeMobile, session.PreviewMode())

	session.SetPreviewMode(PreviewMode("watch"))
	assert.Equal(t, PreviewModeMobile, session.PreviewMode())
}

func TestSession_SetCurrentStepClamps(t *testing.T) {
	session := newTestSession()
	session.AddStep()

	session.SetCurrentStep(10)
	assert.Equal(t, 1, session.CurrentStep())

	session.SetCurrentStep(-2)
	assert.Equal(t, 0, session.CurrentStep())
}

func TestSession_LoadTemplate(t *testing.T) {
	session := newTestSession()
	template, ok := TemplateByName("Contact Form")
	require.True(t, ok)

	session.LoadTemplate(template)

	snapshot := session.Snapshot()
	assert.Equal(t, "Contact Form", snapshot.Title)
	require.Len(t, snapshot.Steps, 1)
	assert.Len(t, snapshot.Steps[0], 4)
	assert.Equal(t, "Full Name", snapshot.Steps[0][0].Label)
	assert.True(t, snapshot.Steps[0][0].Required)
	assert.Equal(t, 0, session.CurrentStep())
	assert.Empty(t, session.SelectedFieldID())
}

func TestBuiltinTemplates_FreshIDsPerBuild(t *testing.T) {
	template, ok := TemplateByName("Registration Form")
	require.True(t, ok)

	first := template.Steps()
	second := template.Steps()

	assert.NotEqual(t, first[0][0].ID, second[0][0].ID)
	assert.Len(t, first, 2)
}
