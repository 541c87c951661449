package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm(t *testing.T) {
	form := NewForm()

	assert.Equal(t, DefaultFormTitle, form.Title)
	require.Len(t, form.Steps, 1)
	assert.Empty(t, form.Steps[0])
	assert.Empty(t, form.ID)
	assert.Empty(t, form.ShareID)
}

func TestForm_FieldByID(t *testing.T) {
	first := DefaultField(FieldTypeText)
	second := DefaultField(FieldTypeEmail)
	form := &Form{
		Title: "Contact",
		Steps: []Step{{first}, {second}},
	}

	assert.Equal(t, second, form.FieldByID(second.ID))
	assert.Nil(t, form.FieldByID("missing"))
}

func TestCloneSteps_IsDeep(t *testing.T) {
	field := DefaultField(FieldTypeText)
	steps := []Step{{field}}

	clone := CloneSteps(steps)
	clone[0][0].Label = "changed"
	clone[0] = append(clone[0], DefaultField(FieldTypeDate))

	assert.Equal(t, "Text Field", steps[0][0].Label)
	assert.Len(t, steps[0], 1)
}

func TestStepKey(t *testing.T) {
	assert.Equal(t, "step1", StepKey(0))
	assert.Equal(t, "step3", StepKey(2))
}

func TestForm_FieldCount(t *testing.T) {
	form := &Form{Steps: []Step{
		{DefaultField(FieldTypeText), DefaultField(FieldTypeEmail)},
		{},
		{DefaultField(FieldTypeDate)},
	}}

	assert.Equal(t, 3, form.FieldCount())
}
