package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/web"
)

type fillState struct {
	SessionID string            `json:"sessionId"`
	Step      int               `json:"step"`
	Controls  []map[string]any  `json:"controls"`
	Errors    map[string]string `json:"errors"`
}

// publishTwoStepForm saves a form with a required name field on step one and
// an email field on step two, returning its share id.
func publishTwoStepForm(t *testing.T, app *fiber.App, cookie *http.Cookie) string {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/form/create", web.CreateFormRequest{
		Title: "Signup",
		Steps: []models.Step{
			{&models.Field{ID: "name", Type: models.FieldTypeText, Label: "Name", Required: true}},
			{&models.Field{ID: "email", Type: models.FieldTypeEmail, Label: "Email"}},
		},
	})
	req.AddCookie(cookie)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var form models.Form
	decodeBody(t, resp, &form)
	require.NotEmpty(t, form.ShareID)

	return form.ShareID
}

func startFill(t *testing.T, app *fiber.App, shareID string) fillState {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/fill/start/"+shareID, nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var state fillState
	decodeBody(t, resp, &state)
	require.NotEmpty(t, state.SessionID)

	return state
}

func TestFillHandlers_UnknownShareID(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/fill/start/no-such-form", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFillHandlers_StepThroughAndSubmit(t *testing.T) {
	app := setupTestApp(t)
	cookie := register(t, app, "author@example.com")
	shareID := publishTwoStepForm(t, app, cookie)

	state := startFill(t, app, shareID)
	assert.Equal(t, 0, state.Step)
	require.Len(t, state.Controls, 1)

	base := "/fill/session/" + state.SessionID

	// The required name gates the first step.
	nextResp, err := app.Test(httptest.NewRequest(http.MethodPost, base+"/next", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, nextResp.StatusCode)

	var blocked struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, nextResp, &blocked)
	_ = nextResp.Body.Close()
	assert.Equal(t, "This field is required", blocked.Errors["name"])

	valueResp, err := app.Test(jsonRequest(t, http.MethodPost, base+"/values",
		web.FillValueRequest{FieldID: "name", Value: "Ada"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, valueResp.StatusCode)
	_ = valueResp.Body.Close()

	nextResp, err = app.Test(httptest.NewRequest(http.MethodPost, base+"/next", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, nextResp.StatusCode)

	var advanced fillState
	decodeBody(t, nextResp, &advanced)
	_ = nextResp.Body.Close()
	assert.Equal(t, 1, advanced.Step)

	valueResp, err = app.Test(jsonRequest(t, http.MethodPost, base+"/values",
		web.FillValueRequest{FieldID: "email", Value: "ada@example.com"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, valueResp.StatusCode)
	_ = valueResp.Body.Close()

	submitResp, err := app.Test(httptest.NewRequest(http.MethodPost, base+"/submit", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)

	var submitted struct {
		ID string `json:"id"`
	}
	decodeBody(t, submitResp, &submitted)
	_ = submitResp.Body.Close()
	assert.NotEmpty(t, submitted.ID)

	// The entry shows up on the owner's response list.
	listReq := httptest.NewRequest(http.MethodGet, "/formres/list?shareId="+shareID, nil)
	listReq.AddCookie(cookie)

	listResp, err := app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listing struct {
		Count int `json:"count"`
	}
	decodeBody(t, listResp, &listing)
	_ = listResp.Body.Close()
	assert.Equal(t, 1, listing.Count)
}

func TestFillHandlers_SubmitOnlyFromLastStep(t *testing.T) {
	app := setupTestApp(t)
	cookie := register(t, app, "author@example.com")
	shareID := publishTwoStepForm(t, app, cookie)

	state := startFill(t, app, shareID)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/fill/session/"+state.SessionID+"/submit", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFillHandlers_PreviousIsUngated(t *testing.T) {
	app := setupTestApp(t)
	cookie := register(t, app, "author@example.com")
	shareID := publishTwoStepForm(t, app, cookie)

	state := startFill(t, app, shareID)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/fill/session/"+state.SessionID+"/previous", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var back fillState
	decodeBody(t, resp, &back)
	assert.Equal(t, 0, back.Step)
}
