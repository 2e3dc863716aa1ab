package expense

import (
	"time"

	"github.com/fkhayef/eventsplit/internal/expense/split"
)

// AppliesTo is the participant-selection preset of an expense
type AppliesTo string

const (
	AppliesToEveryone   AppliesTo = "EVERYONE"
	AppliesToHostOnly   AppliesTo = "HOST_ONLY"
	AppliesToGuestsOnly AppliesTo = "GUESTS_ONLY"
	AppliesToCustom     AppliesTo = "CUSTOM" // ParticipantIDs is authoritative
)

// Valid reports whether the preset is known
func (a AppliesTo) Valid() bool {
	switch a {
	case AppliesToEveryone, AppliesToHostOnly, AppliesToGuestsOnly, AppliesToCustom:
		return true
	}
	return false
}

// Timing describes when the cost is collected
type Timing string

const (
	TimingUpFront      Timing = "UP_FRONT"
	TimingSettledLater Timing = "SETTLED_LATER"
)

// Valid reports whether the timing is known
func (t Timing) Valid() bool {
	return t == TimingUpFront || t == TimingSettledLater
}

// SettledKind qualifies a SETTLED_LATER amount
type SettledKind string

const (
	SettledKindExact    SettledKind = "EXACT"
	SettledKindEstimate SettledKind = "ESTIMATE"
)

// Valid reports whether the settled kind is known
func (k SettledKind) Valid() bool {
	return k == SettledKindExact || k == SettledKindEstimate
}

// Expense is one cost line item belonging to an event
type Expense struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	Title           string          `json:"title"`
	AppliesTo       AppliesTo       `json:"applies_to"`
	SplitType       split.SplitType `json:"split_type"`
	Timing          Timing          `json:"timing"`
	SettledKind     *SettledKind    `json:"settled_kind,omitempty"` // nil iff Timing is UP_FRONT
	AmountCents     *int64          `json:"amount_cents,omitempty"`
	Currency        string          `json:"currency"`
	ParticipantIDs  []string        `json:"participant_ids"`
	ItineraryItemID *string         `json:"itinerary_item_id,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Amount returns the stored amount, treating an absent amount as zero
func (e *Expense) Amount() int64 {
	if e == nil || e.AmountCents == nil {
		return 0
	}
	return *e.AmountCents
}

// IsScoped reports whether the expense belongs to a single itinerary item
func (e *Expense) IsScoped() bool {
	return e != nil && e.ItineraryItemID != nil && *e.ItineraryItemID != ""
}

// HasParticipant reports whether userID is stored as cost-bearing
func (e *Expense) HasParticipant(userID string) bool {
	for _, id := range e.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can edit without touching the original
func (e *Expense) Clone() *Expense {
	if e == nil {
		return nil
	}
	c := *e
	c.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
	if e.SettledKind != nil {
		k := *e.SettledKind
		c.SettledKind = &k
	}
	if e.AmountCents != nil {
		a := *e.AmountCents
		c.AmountCents = &a
	}
	if e.ItineraryItemID != nil {
		id := *e.ItineraryItemID
		c.ItineraryItemID = &id
	}
	return &c
}

// EventContext is what the write path needs to know about the owning event
type EventContext struct {
	EventID   string
	HostID    string
	PeopleIDs []string // host and attendees, ordered
	ItemIDs   []string // itinerary items of the event
	Currency  string
}

// HasItem reports whether itemID is one of the event's itinerary items
func (c *EventContext) HasItem(itemID string) bool {
	for _, id := range c.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
