package itinerary

import "time"

// Item is a sub-activity of an event
type Item struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	Title           string    `json:"title"`
	Location        *string   `json:"location,omitempty"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
}

// Duration returns how long the item lasts
func (i *Item) Duration() time.Duration {
	return time.Duration(i.DurationMinutes) * time.Minute
}

// EndsAt returns when the item finishes
func (i *Item) EndsAt() time.Time {
	return i.StartsAt.Add(i.Duration())
}

// AttendanceEntry is the set of items one user has committed to attend.
// There is at most one entry per (EventID, UserID).
type AttendanceEntry struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	ItemIDs   []string  `json:"itinerary_item_ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemIDsOf returns the ids of items in order
func ItemIDsOf(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
