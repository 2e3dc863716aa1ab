package event

import (
	"time"

	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/itinerary"
)

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title                      string `json:"title" validate:"required,min=1,max=255"`
	Currency                   string `json:"currency,omitempty" validate:"omitempty,len=3"`
	ItineraryAttendanceEnabled bool   `json:"itinerary_attendance_enabled"`
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Title                      *string `json:"title,omitempty"`
	Currency                   *string `json:"currency,omitempty"`
	ItineraryAttendanceEnabled *bool   `json:"itinerary_attendance_enabled,omitempty"`
}

// EventResponse represents an event as seen by the requesting user
type EventResponse struct {
	ID                         string                          `json:"id"`
	Title                      string                          `json:"title"`
	HostID                     string                          `json:"host_id"`
	Currency                   string                          `json:"currency"`
	ItineraryAttendanceEnabled bool                            `json:"itinerary_attendance_enabled"`
	AttendeeIDs                []string                        `json:"attendee_ids"`
	Itinerary                  []*itinerary.ItemResponse       `json:"itinerary"`
	Attendance                 []*itinerary.AttendanceResponse `json:"attendance"`
	Expenses                   []*expense.ExpenseResponse      `json:"expenses"`
	Gate                       GateStatus                      `json:"gate"`
	CreatedAt                  string                          `json:"created_at"`
}

// SummaryResponse represents what the viewer owes for an event
type SummaryResponse struct {
	EventID string                   `json:"event_id"`
	Scoped  bool                     `json:"scoped"`
	Lines   []*expense.LineResponse  `json:"lines"`
	Summary *expense.SummaryResponse `json:"summary"`
}

// ToResponse converts an Event to an EventResponse for viewerID
func (e *Event) ToResponse(viewerID string) *EventResponse {
	resp := &EventResponse{
		ID:                         e.ID,
		Title:                      e.Title,
		HostID:                     e.HostID,
		Currency:                   e.Currency,
		ItineraryAttendanceEnabled: e.ItineraryAttendanceEnabled,
		AttendeeIDs:                append([]string{}, e.AttendeeIDs...),
		Itinerary:                  make([]*itinerary.ItemResponse, len(e.Itinerary)),
		Attendance:                 make([]*itinerary.AttendanceResponse, len(e.Attendance)),
		Expenses:                   make([]*expense.ExpenseResponse, 0, len(e.Expenses)),
		Gate:                       GateStatusFor(e, viewerID),
		CreatedAt:                  e.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i := range e.Itinerary {
		resp.Itinerary[i] = e.Itinerary[i].ToResponse()
	}
	for i := range e.Attendance {
		resp.Attendance[i] = e.Attendance[i].ToResponse()
	}
	for _, x := range e.Expenses {
		if x != nil {
			resp.Expenses = append(resp.Expenses, x.ToResponse())
		}
	}
	return resp
}

// ToResponse converts a ViewerSummary to a SummaryResponse for viewerID
func (v *ViewerSummary) ToResponse(viewerID string, scoped bool) *SummaryResponse {
	return &SummaryResponse{
		EventID: v.Event.ID,
		Scoped:  scoped,
		Lines:   expense.NewLineResponses(v.Lines, viewerID, v.Event.HostID),
		Summary: v.Summary.ToResponse(),
	}
}
