package attendance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/logging"
	"github.com/fkhayef/eventsplit/pkg/middleware"
	"github.com/fkhayef/eventsplit/pkg/response"
)

// Handler handles HTTP requests for itinerary attendance selection
type Handler struct {
	service *Service
}

// NewHandler creates a new attendance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for attendance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireUser)

	r.Post("/event/{eventId}/preview", h.Preview)
	r.Post("/event/{eventId}/commit", h.Commit)

	return r
}

// Preview handles POST /attendance/event/{eventId}/preview
// @Summary      Preview an itinerary selection
// @Description  Returns the expenses that apply to the selection, the user's up-front and settled-later totals, and which acknowledgements a commit needs. Gated users start with every item selected; attendees start from their saved selection.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        eventId path string true "Event ID"
// @Param        request body SelectionRequest false "Selection to preview"
// @Success      200 {object} response.APIResponse{data=PreviewResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /attendance/event/{eventId}/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	var req SelectionRequest
	if err := response.Decode(r, &req); err != nil && !errors.Is(err, response.ErrEmptyBody) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Preview(r.Context(), eventID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to preview selection")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse(userID))
}

// Commit handles POST /attendance/event/{eventId}/commit
// @Summary      Save an itinerary selection
// @Description  Joins the event first when the user is gated, then saves the selection. A failed save after a successful join keeps the join.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        eventId path string true "Event ID"
// @Param        request body CommitRequest true "Selection and acknowledgements with the totals they were given against"
// @Success      200 {object} response.APIResponse{data=CommitResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /attendance/event/{eventId}/commit [post]
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	var req CommitRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Commit(r.Context(), eventID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to save selection")
		return
	}

	switch result.Outcome {
	case OutcomeSuccess:
		response.JSON(w, http.StatusOK, result.ToResponse(userID))
	case OutcomeRejected:
		response.Unprocessable(w, result.Err.Error())
	case OutcomeIgnored:
		response.Conflict(w, result.Err.Error())
	default:
		logging.FromContext(r.Context(), h.service.logger).Warn("attendance commit failed",
			"event_id", eventID, "phase", result.Phase.String(), "error", result.Err)
		response.BadGateway(w, "Failed to save attendance, please try again")
	}
}

func pathEventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return "", false
	}
	return id.String(), true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrSelectionNotAvailable):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
