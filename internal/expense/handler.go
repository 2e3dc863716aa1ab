package expense

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/eventsplit/pkg/middleware"
	"github.com/fkhayef/eventsplit/pkg/money"
	"github.com/fkhayef/eventsplit/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/event/{eventId}", h.ListByEvent)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense line item for an event. GROUP expenses are always settled later; non-CUSTOM presets derive participants from the event's people.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateExpenseRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if _, err := uuid.Parse(req.EventID); err != nil {
		response.BadRequest(w, "Invalid event ID")
		return
	}

	e, err := h.service.CreateExpense(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create expense")
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid expense ID")
	if !ok {
		return
	}

	e, err := h.service.GetExpenseByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// ListByEvent handles GET /expenses/event/{eventId}
// @Summary      List expenses by event
// @Tags         expenses
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/event/{eventId} [get]
func (h *Handler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventId", "Invalid event ID")
	if !ok {
		return
	}

	expenses, err := h.service.ListExpensesByEventID(r.Context(), eventID)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}

	response.JSON(w, http.StatusOK, out)
}

// Update handles PATCH /expenses/{id}
// @Summary      Update an expense
// @Description  Partially update an expense. Changing the preset re-derives participants; switching to GROUP forces SETTLED_LATER.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid expense ID")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	var req UpdateExpenseRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.UpdateExpense(r.Context(), id, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to update expense")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Param        X-User-ID header string true "Acting user"
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid expense ID")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		writeError(w, err, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request, param, message string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.BadRequest(w, message)
		return "", false
	}
	return id.String(), true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrExpenseNotFound), errors.Is(err, ErrEventNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotHost):
		response.Forbidden(w, err.Error())
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrInvalidAppliesTo),
		errors.Is(err, ErrInvalidSplitType),
		errors.Is(err, ErrInvalidTiming),
		errors.Is(err, ErrInvalidSettledKind),
		errors.Is(err, ErrUnknownItineraryItem):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
