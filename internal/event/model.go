package event

import (
	"time"

	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/itinerary"
)

// Event is an event with everything needed to compute what attendees owe
type Event struct {
	ID                         string    `json:"id"`
	Title                      string    `json:"title"`
	HostID                     string    `json:"host_id"`
	Currency                   string    `json:"currency"`
	ItineraryAttendanceEnabled bool      `json:"itinerary_attendance_enabled"`
	CreatedAt                  time.Time `json:"created_at"`

	// Populated by the service
	AttendeeIDs []string                    `json:"attendee_ids"`
	Itinerary   []itinerary.Item            `json:"itinerary"`
	Attendance  []itinerary.AttendanceEntry `json:"attendance"`
	Expenses    []*expense.Expense          `json:"expenses"`
}

// IsHost reports whether userID hosts the event
func (e *Event) IsHost(userID string) bool {
	return userID != "" && e.HostID == userID
}

// IsAttending reports whether userID is on the attendee list
func (e *Event) IsAttending(userID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// People returns the host followed by the attendees, without duplicates
func (e *Event) People() []string {
	people := make([]string, 0, len(e.AttendeeIDs)+1)
	seen := make(map[string]struct{}, len(e.AttendeeIDs)+1)
	for _, id := range append([]string{e.HostID}, e.AttendeeIDs...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		people = append(people, id)
	}
	return people
}

// AttendanceFor returns userID's attendance entry, or nil if none exists
func (e *Event) AttendanceFor(userID string) *itinerary.AttendanceEntry {
	for i := range e.Attendance {
		if e.Attendance[i].UserID == userID {
			return &e.Attendance[i]
		}
	}
	return nil
}

// ItemIDs returns the ids of the event's itinerary items in order
func (e *Event) ItemIDs() []string {
	return itinerary.ItemIDsOf(e.Itinerary)
}

// ExpenseContext describes the event for the expense write path
func (e *Event) ExpenseContext() *expense.EventContext {
	return &expense.EventContext{
		EventID:   e.ID,
		HostID:    e.HostID,
		PeopleIDs: e.People(),
		ItemIDs:   e.ItemIDs(),
		Currency:  e.Currency,
	}
}
