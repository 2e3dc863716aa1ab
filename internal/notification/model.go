package notification

import "time"

// Type classifies a notification
type Type string

const (
	TypeAttendanceJoined  Type = "ATTENDANCE_JOINED"  // a guest joined after picking items
	TypeAttendanceUpdated Type = "ATTENDANCE_UPDATED" // an attendee changed their items
)

// Notification is a message for one recipient about an event
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        Type      `json:"type"`
	Message     string    `json:"message"`
	EventID     *string   `json:"event_id,omitempty"`
	ActorID     *string   `json:"actor_id,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
