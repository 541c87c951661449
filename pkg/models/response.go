package models

import (
	"strconv"
	"time"
)

// ResponseEntry is one recorded submission against a form's share id.
// Values are grouped per step under keys like "step1". ShareID links the
// entry back to the originating form.
type ResponseEntry struct {
	ID        string                    `json:"id"`
	ShareID   string                    `json:"shareId" validate:"required"`
	Steps     map[string]map[string]any `json:"steps"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// StepKey returns the submission map key for the zero-based step index,
// e.g. StepKey(0) == "step1".
func StepKey(index int) string {
	return "step" + strconv.Itoa(index+1)
}
