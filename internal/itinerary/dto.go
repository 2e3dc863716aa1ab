package itinerary

import "time"

// CreateItemRequest represents the request to add an itinerary item
type CreateItemRequest struct {
	EventID         string    `json:"event_id" validate:"required,uuid"`
	Title           string    `json:"title" validate:"required,min=1,max=255"`
	Location        *string   `json:"location,omitempty"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
	Position        *int      `json:"position,omitempty"`
}

// ItemResponse represents the response for an itinerary item
type ItemResponse struct {
	ID              string  `json:"id"`
	EventID         string  `json:"event_id"`
	Title           string  `json:"title"`
	Location        *string `json:"location,omitempty"`
	StartsAt        string  `json:"starts_at"`
	EndsAt          string  `json:"ends_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Position        int     `json:"position"`
}

// AttendanceResponse represents a user's selected itinerary items
type AttendanceResponse struct {
	EventID   string   `json:"event_id"`
	UserID    string   `json:"user_id"`
	ItemIDs   []string `json:"itinerary_item_ids"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// ToResponse converts an Item to an ItemResponse DTO
func (i *Item) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:              i.ID,
		EventID:         i.EventID,
		Title:           i.Title,
		Location:        i.Location,
		StartsAt:        i.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:          i.EndsAt().UTC().Format(time.RFC3339),
		DurationMinutes: i.DurationMinutes,
		Position:        i.Position,
	}
}

// ToResponse converts an AttendanceEntry to an AttendanceResponse DTO
func (a *AttendanceEntry) ToResponse() *AttendanceResponse {
	resp := &AttendanceResponse{
		EventID: a.EventID,
		UserID:  a.UserID,
		ItemIDs: append([]string{}, a.ItemIDs...),
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = a.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
