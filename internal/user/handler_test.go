package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/fkhayef/eventsplit/pkg/middleware"
)

const (
	aliceID = "6f1c2a44-8d3b-4c1e-9b7a-1f0e2d3c4b5a"
	bobID   = "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"
)

func request(t *testing.T, svc *Service, method, path, userID, body string) (int, map[string]any) {
	t.Helper()

	router := middleware.UserMiddleware(NewHandler(svc).Routes())
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestSaveAndGetMe(t *testing.T) {
	svc, _ := newTestService()

	code, _ := request(t, svc, http.MethodGet, "/me", aliceID, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env := request(t, svc, http.MethodPut, "/me", aliceID, `{"display_name": "Alice"}`)
	assert.Equal(t, http.StatusOK, code)
	data := env["data"].(map[string]any)
	assert.Equal(t, "Alice", data["display_name"])
	assert.Equal(t, aliceID, data["id"])

	code, env = request(t, svc, http.MethodGet, "/"+aliceID, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alice", env["data"].(map[string]any)["display_name"])
}

func TestSaveMeRequiresUser(t *testing.T) {
	svc, _ := newTestService()

	code, _ := request(t, svc, http.MethodPut, "/me", "", `{"display_name": "Alice"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSaveMeValidation(t *testing.T) {
	svc, _ := newTestService()

	code, _ := request(t, svc, http.MethodPut, "/me", aliceID, `{"display_name": " "}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = request(t, svc, http.MethodPut, "/me", aliceID, `{"nickname": "Al"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSaveMeEmailConflict(t *testing.T) {
	svc, _ := newTestService()
	body := `{"display_name": "Someone", "email": "same@example.com"}`

	code, _ := request(t, svc, http.MethodPut, "/me", aliceID, body)
	assert.Equal(t, http.StatusOK, code)

	code, _ = request(t, svc, http.MethodPut, "/me", bobID, body)
	assert.Equal(t, http.StatusConflict, code)
}

func TestListByIDs(t *testing.T) {
	svc, _ := newTestService()
	_, _ = request(t, svc, http.MethodPut, "/me", aliceID, `{"display_name": "Alice"}`)

	code, env := request(t, svc, http.MethodGet, "/?ids="+aliceID+","+bobID, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, len(env["data"].([]any)))

	code, _ = request(t, svc, http.MethodGet, "/?ids=not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
