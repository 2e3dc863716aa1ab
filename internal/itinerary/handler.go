package itinerary

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/eventsplit/pkg/middleware"
	"github.com/fkhayef/eventsplit/pkg/response"
)

// Handler handles HTTP requests for itinerary operations
type Handler struct {
	service *Service
}

// NewHandler creates a new itinerary handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for itinerary endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/event/{eventId}", h.ListByEvent)
	r.Get("/event/{eventId}/attendance", h.ListAttendance)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
		r.Get("/event/{eventId}/attendance/me", h.GetMyAttendance)
	})

	return r
}

// Create handles POST /itinerary
// @Summary      Add an itinerary item
// @Tags         itinerary
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        request body CreateItemRequest true "Itinerary item"
// @Success      201 {object} response.APIResponse{data=ItemResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /itinerary [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateItemRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if _, err := uuid.Parse(req.EventID); err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	item, err := h.service.CreateItem(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create itinerary item")
		return
	}

	response.JSON(w, http.StatusCreated, item.ToResponse())
}

// ListByEvent handles GET /itinerary/event/{eventId}
// @Summary      List an event's itinerary
// @Tags         itinerary
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=[]ItemResponse}
// @Router       /itinerary/event/{eventId} [get]
func (h *Handler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	items, err := h.service.ListItems(r.Context(), eventID.String())
	if err != nil {
		response.InternalError(w, "Failed to list itinerary")
		return
	}

	out := make([]*ItemResponse, len(items))
	for i := range items {
		out[i] = items[i].ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// Delete handles DELETE /itinerary/{id}
// @Summary      Delete an itinerary item
// @Description  Expenses linked to a deleted item are unlinked and count as event-wide.
// @Tags         itinerary
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Item ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /itinerary/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.DeleteItem(r.Context(), id.String(), userID); err != nil {
		writeError(w, err, "Failed to delete itinerary item")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Itinerary item deleted successfully"})
}

// GetMyAttendance handles GET /itinerary/event/{eventId}/attendance/me
// @Summary      Get my itinerary selection
// @Tags         itinerary
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        eventId path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=AttendanceResponse}
// @Router       /itinerary/event/{eventId}/attendance/me [get]
func (h *Handler) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	entry, err := h.service.GetAttendance(r.Context(), eventID.String(), userID)
	if err != nil {
		response.InternalError(w, "Failed to get attendance")
		return
	}
	if entry == nil {
		entry = &AttendanceEntry{EventID: eventID.String(), UserID: userID}
	}

	response.JSON(w, http.StatusOK, entry.ToResponse())
}

// ListAttendance handles GET /itinerary/event/{eventId}/attendance
// @Summary      List itinerary selections of all attendees
// @Tags         itinerary
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=[]AttendanceResponse}
// @Router       /itinerary/event/{eventId}/attendance [get]
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventId"))
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	entries, err := h.service.ListAttendance(r.Context(), eventID.String())
	if err != nil {
		response.InternalError(w, "Failed to list attendance")
		return
	}

	out := make([]*AttendanceResponse, len(entries))
	for i := range entries {
		out[i] = entries[i].ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotHost):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrMissingStart):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
