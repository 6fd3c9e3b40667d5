package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notesync/internal/pkg/logger"
	"notesync/internal/pkg/serverutils"
	"notesync/internal/repository/memory"
	"notesync/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *memory.NoteRepository) {
	t.Helper()
	repo := memory.NewNoteRepository("note_app", nil, logger.NewNopLogger())
	svc := service.NewNoteService(repo, nil, "note_app", logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewNoteController(svc).RegisterRoutes(app.Group("/api"))
	return app, repo
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// notesOf decodes the list payload. An empty list is omitted from the body.
func notesOf(t *testing.T, res apiResponse) []map[string]interface{} {
	t.Helper()
	notes := []map[string]interface{}{}
	if len(res.Data) == 0 {
		return notes
	}
	require.NoError(t, json.Unmarshal(res.Data, &notes))
	return notes
}

func TestNoteController_CreateAndList(t *testing.T) {
	app, _ := newTestApp(t)

	status, res := doRequest(t, app, http.MethodPost, "/api/note/v1", `{"title":"Groceries","body":"milk","is_favorite":true}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, res.Success)
	assert.JSONEq(t, `{"id":1}`, string(res.Data))

	status, res = doRequest(t, app, http.MethodGet, "/api/note/v1", "")
	assert.Equal(t, http.StatusOK, status)

	notes := notesOf(t, res)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0]["title"])
	assert.Equal(t, true, notes[0]["is_favorite"])
}

func TestNoteController_CreateRejectsEmptyNote(t *testing.T) {
	app, repo := newTestApp(t)

	status, res := doRequest(t, app, http.MethodPost, "/api/note/v1", `{"title":"  ","body":"\n"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, res.Success)
	assert.Equal(t, "Validation failed", res.Message)

	notes, err := repo.FindAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteController_InvalidBody(t *testing.T) {
	app, _ := newTestApp(t)

	status, res := doRequest(t, app, http.MethodPost, "/api/note/v1", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", res.Message)
}

func TestNoteController_UpdateAndDelete(t *testing.T) {
	app, _ := newTestApp(t)

	_, _ = doRequest(t, app, http.MethodPost, "/api/note/v1", `{"title":"draft"}`)

	status, res := doRequest(t, app, http.MethodPut, "/api/note/v1/1", `{"title":"final","body":"","is_favorite":true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)

	_, res = doRequest(t, app, http.MethodGet, "/api/note/v1", "")
	assert.Contains(t, string(res.Data), `"title":"final"`)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/note/v1/1", "")
	assert.Equal(t, http.StatusOK, status)

	// Deleting a missing id is not an error.
	status, _ = doRequest(t, app, http.MethodDelete, "/api/note/v1/1", "")
	assert.Equal(t, http.StatusOK, status)

	_, res = doRequest(t, app, http.MethodGet, "/api/note/v1", "")
	assert.Empty(t, notesOf(t, res))
}

func TestNoteController_InvalidId(t *testing.T) {
	app, _ := newTestApp(t)

	for _, id := range []string{"abc", "0", "-4"} {
		status, res := doRequest(t, app, http.MethodDelete, "/api/note/v1/"+id, "")
		assert.Equal(t, http.StatusBadRequest, status, id)
		assert.Equal(t, "Invalid note id", res.Message, id)
	}
}

func TestNoteController_StoreFailure(t *testing.T) {
	app, repo := newTestApp(t)
	repo.FailWith(assert.AnError)

	status, res := doRequest(t, app, http.MethodGet, "/api/note/v1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)
	assert.Empty(t, notesOf(t, res))

	status, res = doRequest(t, app, http.MethodPost, "/api/note/v1", `{"title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "failed to add note")
}
