package event

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/eventsplit/pkg/middleware"
	"github.com/fkhayef/eventsplit/pkg/response"
)

// Handler handles HTTP requests for event operations
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/summary", h.Summary)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Post("/{id}/join", h.Join)
		r.Post("/{id}/leave", h.Leave)
	})

	return r
}

// Create handles POST /events
// @Summary      Create a new event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user, becomes the host"
// @Param        request body CreateEventRequest true "Event creation request"
// @Success      201 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateEventRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse(userID))
}

// GetByID handles GET /events/{id}
// @Summary      Get event by ID
// @Description  Returns the event with itinerary, attendance and expenses, plus the gating status of the requesting user.
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string false "Viewing user"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	e, err := h.service.FetchEventByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(userID))
}

// Update handles PATCH /events/{id}
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Event ID"
// @Param        request body UpdateEventRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	var req UpdateEventRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.UpdateEvent(r.Context(), id, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to update event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(userID))
}

// Join handles POST /events/{id}/join
// @Summary      Join an event
// @Description  Joins directly when no itinerary selection is required. Otherwise responds 409 and the attendance workflow must be used.
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /events/{id}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	e, err := h.service.RequestJoin(r.Context(), id, userID)
	if err != nil {
		writeError(w, err, "Failed to join event")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(userID))
}

// Leave handles POST /events/{id}/leave
// @Summary      Leave an event
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /events/{id}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := h.service.Leave(r.Context(), id, userID); err != nil {
		writeError(w, err, "Failed to leave event")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Left event successfully"})
}

// Summary handles GET /events/{id}/summary
// @Summary      What the viewer owes
// @Description  Per-line shares and up-front/settled-later totals for the requesting user. Pass items (comma separated, possibly empty) to count only event-wide expenses and those linked to the listed itinerary items.
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string false "Viewing user"
// @Param        id path string true "Event ID"
// @Param        items query string false "Selected itinerary item IDs"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id}/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	selected, scoped := parseItems(r)

	v, err := h.service.SummaryFor(r.Context(), id, userID, selected, scoped)
	if err != nil {
		writeError(w, err, "Failed to compute summary")
		return
	}

	response.JSON(w, http.StatusOK, v.ToResponse(userID, scoped))
}

// parseItems reads the items query parameter. Its presence, even empty,
// scopes the summary.
func parseItems(r *http.Request) ([]string, bool) {
	values, ok := r.URL.Query()["items"]
	if !ok {
		return nil, false
	}

	ids := make([]string, 0)
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, true
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid event ID")
		return "", false
	}
	return id.String(), true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotHost):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrItinerarySelectionRequired), errors.Is(err, ErrHostCannotLeave):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrInvalidCurrency):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
