package attendance

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/fkhayef/eventsplit/pkg/middleware"
	"github.com/fkhayef/eventsplit/pkg/response"
)

type envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   *response.APIError `json:"error"`
}

func serve(t *testing.T, f *fakeCollab, userID, path, body string) (int, envelope) {
	t.Helper()

	svc := NewService(f.collaborators(), f, nil)
	router := middleware.UserMiddleware(NewHandler(svc).Routes())

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestPreviewHandlerDefaultsToJoinSelection(t *testing.T) {
	code, env := serve(t, newFakeCollab(), bobID, "/event/"+eventID+"/preview", "")
	assert.Equal(t, http.StatusOK, code)

	var p PreviewResponse
	assert.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "join", p.Mode)
	assert.True(t, p.PendingJoin)
	assert.Equal(t, []string{"hike", "lunch", "boat"}, p.Selection)
	assert.Equal(t, Requirements{UpFront: true, SettledLater: true}, p.Requirements)
	assert.Equal(t, int64(2700), p.Summary.UpFrontCents)
	assert.Equal(t, "USD 27.00", p.Summary.UpFrontDisplay)
	assert.Equal(t, 4, len(p.Lines))
	assert.False(t, p.CanCommit)
}

func TestPreviewHandlerAppliesSelection(t *testing.T) {
	body := `{"itinerary_item_ids": ["lunch"]}`
	code, env := serve(t, newFakeCollab(), bobID, "/event/"+eventID+"/preview", body)
	assert.Equal(t, http.StatusOK, code)

	var p PreviewResponse
	assert.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, []string{"lunch"}, p.Selection)
	assert.Equal(t, int64(1200), p.Summary.UpFrontCents)
	assert.Equal(t, int64(3000), p.Summary.SettledAfterCents)
}

func TestCommitHandler(t *testing.T) {
	acked := `{"acknowledge_up_front": true, "up_front_cents": 2700, "acknowledge_settled_later": true, "settled_after_cents": 5000}`

	tests := []struct {
		name     string
		setup    func(*fakeCollab)
		user     string
		path     string
		body     string
		wantCode int
		wantLog  []string
	}{
		{
			name:     "joins and saves",
			user:     bobID,
			body:     acked,
			wantCode: http.StatusOK,
			wantLog:  []string{"fetch", "join", "persist:hike,lunch,boat", "fetch"},
		},
		{
			name:     "missing acknowledgement",
			user:     bobID,
			body:     `{"acknowledge_up_front": true, "up_front_cents": 2700}`,
			wantCode: http.StatusUnprocessableEntity,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "acknowledgement without the total",
			user:     bobID,
			body:     `{"acknowledge_up_front": true, "acknowledge_settled_later": true}`,
			wantCode: http.StatusUnprocessableEntity,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "acknowledged total is out of date",
			user:     bobID,
			body:     `{"acknowledge_up_front": true, "up_front_cents": 1500, "acknowledge_settled_later": true, "settled_after_cents": 5000}`,
			wantCode: http.StatusUnprocessableEntity,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "empty selection",
			user:     bobID,
			body:     `{"itinerary_item_ids": [], "acknowledge_up_front": true, "acknowledge_settled_later": true}`,
			wantCode: http.StatusUnprocessableEntity,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "join rejected",
			setup:    func(f *fakeCollab) { f.joinOK = false },
			user:     bobID,
			body:     acked,
			wantCode: http.StatusBadGateway,
			wantLog:  []string{"fetch", "join"},
		},
		{
			name:     "attendee edits without joining",
			user:     aliceID,
			body:     `{"itinerary_item_ids": ["boat"], "acknowledge_settled_later": true, "settled_after_cents": 7500}`,
			wantCode: http.StatusOK,
			wantLog:  []string{"fetch", "persist:boat", "fetch"},
		},
		{
			name:     "selection disabled",
			setup:    func(f *fakeCollab) { f.event.ItineraryAttendanceEnabled = false },
			user:     bobID,
			body:     acked,
			wantCode: http.StatusConflict,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "unknown event",
			user:     bobID,
			path:     "/event/bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb/commit",
			body:     acked,
			wantCode: http.StatusNotFound,
			wantLog:  []string{"fetch"},
		},
		{
			name:     "anonymous",
			body:     acked,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed event id",
			user:     bobID,
			path:     "/event/not-a-uuid/commit",
			body:     acked,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeCollab()
			if tt.setup != nil {
				tt.setup(f)
			}
			path := tt.path
			if path == "" {
				path = "/event/" + eventID + "/commit"
			}

			code, env := serve(t, f, tt.user, path, tt.body)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
			assert.Equal(t, tt.wantLog, f.calls())
		})
	}
}

func TestCommitHandlerHidesCollaboratorErrors(t *testing.T) {
	f := newFakeCollab()
	f.persist = []persistResult{{err: errors.New("pq: connection reset by peer")}}
	body := `{"acknowledge_up_front": true, "up_front_cents": 2700, "acknowledge_settled_later": true, "settled_after_cents": 5000}`

	code, env := serve(t, f, bobID, "/event/"+eventID+"/commit", body)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.NotZero(t, env.Error)
	assert.NotContains(t, env.Error.Message, "pq:")
	assert.Equal(t, "Failed to save attendance, please try again", env.Error.Message)
}

func TestCommitHandlerNotifiesHost(t *testing.T) {
	f := newFakeCollab()
	body := `{"acknowledge_up_front": true, "up_front_cents": 2700, "acknowledge_settled_later": true, "settled_after_cents": 5000}`

	code, env := serve(t, f, bobID, "/event/"+eventID+"/commit", body)
	assert.Equal(t, http.StatusOK, code)

	var c CommitResponse
	assert.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, "success", c.Outcome)
	assert.True(t, c.Joined)
	assert.NotZero(t, c.Event)
	assert.Equal(t, []string{"joined:" + bobID}, f.notified)
}
