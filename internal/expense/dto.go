package expense

import (
	"fmt"

	"github.com/fkhayef/eventsplit/internal/expense/split"
	"github.com/fkhayef/eventsplit/pkg/money"
)

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	EventID         string   `json:"event_id" validate:"required,uuid"`
	Title           string   `json:"title" validate:"required,min=1,max=255"`
	AppliesTo       string   `json:"applies_to" validate:"required,oneof=EVERYONE HOST_ONLY GUESTS_ONLY CUSTOM"`
	SplitType       string   `json:"split_type" validate:"required,oneof=GROUP PER_PERSON"`
	Timing          string   `json:"timing" validate:"required,oneof=UP_FRONT SETTLED_LATER"`
	SettledKind     *string  `json:"settled_kind,omitempty" validate:"omitempty,oneof=EXACT ESTIMATE"`
	Amount          *string  `json:"amount,omitempty"` // e.g. "12.50"
	Currency        string   `json:"currency,omitempty"`
	ParticipantIDs  []string `json:"participant_ids,omitempty"` // used when applies_to is CUSTOM
	ItineraryItemID *string  `json:"itinerary_item_id,omitempty"`
}

// UpdateExpenseRequest represents the request to update an expense
type UpdateExpenseRequest struct {
	Title              *string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	AppliesTo          *string   `json:"applies_to,omitempty"`
	SplitType          *string   `json:"split_type,omitempty"`
	Timing             *string   `json:"timing,omitempty"`
	SettledKind        *string   `json:"settled_kind,omitempty"`
	Amount             *string   `json:"amount,omitempty"`
	Currency           *string   `json:"currency,omitempty"`
	ParticipantIDs     *[]string `json:"participant_ids,omitempty"`
	ItineraryItemID    *string   `json:"itinerary_item_id,omitempty"`
	ClearItineraryItem bool      `json:"clear_itinerary_item,omitempty"`
}

// AmountError reports amount text that was rejected and the amount kept
// in its place
type AmountError struct {
	Raw  string
	Kept string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%v: got %q, keeping %s", money.ErrInvalidAmount, e.Raw, e.Kept)
}

func (e *AmountError) Unwrap() error {
	return money.ErrInvalidAmount
}

// toExpense converts the request into an unsaved expense
func (r *CreateExpenseRequest) toExpense() (*Expense, error) {
	e := &Expense{
		EventID:         r.EventID,
		Title:           r.Title,
		AppliesTo:       AppliesTo(r.AppliesTo),
		SplitType:       split.SplitType(r.SplitType),
		Timing:          Timing(r.Timing),
		Currency:        r.Currency,
		ParticipantIDs:  append([]string{}, r.ParticipantIDs...),
		ItineraryItemID: r.ItineraryItemID,
	}

	if r.SettledKind != nil {
		k := SettledKind(*r.SettledKind)
		e.SettledKind = &k
	}

	if r.Amount != nil {
		cents, err := money.ParseAmount(*r.Amount)
		if err != nil {
			return nil, err
		}
		e.AmountCents = &cents
	}

	return e, nil
}

// toPatch converts the request into a Patch. The amount text is entered over
// current; text that does not parse keeps current and is reported.
func (r *UpdateExpenseRequest) toPatch(current int64) (Patch, error) {
	p := Patch{
		Title:              r.Title,
		Currency:           r.Currency,
		ParticipantIDs:     r.ParticipantIDs,
		ItineraryItemID:    r.ItineraryItemID,
		ClearItineraryItem: r.ClearItineraryItem,
	}

	if r.AppliesTo != nil {
		a := AppliesTo(*r.AppliesTo)
		p.AppliesTo = &a
	}
	if r.SplitType != nil {
		t := split.SplitType(*r.SplitType)
		p.SplitType = &t
	}
	if r.Timing != nil {
		t := Timing(*r.Timing)
		p.Timing = &t
	}
	if r.SettledKind != nil {
		k := SettledKind(*r.SettledKind)
		p.SettledKind = &k
	}
	if r.Amount != nil {
		in := money.NewInput(current)
		if !in.Set(*r.Amount) {
			return Patch{}, &AmountError{Raw: in.Raw(), Kept: in.Blur()}
		}
		cents := in.Cents()
		p.AmountCents = &cents
	}

	return p, nil
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              string   `json:"id"`
	EventID         string   `json:"event_id"`
	Title           string   `json:"title"`
	AppliesTo       string   `json:"applies_to"`
	SplitType       string   `json:"split_type"`
	Timing          string   `json:"timing"`
	SettledKind     *string  `json:"settled_kind,omitempty"`
	AmountCents     int64    `json:"amount_cents"`
	Currency        string   `json:"currency"`
	ParticipantIDs  []string `json:"participant_ids"`
	ItineraryItemID *string  `json:"itinerary_item_id,omitempty"`
	TotalCents      int64    `json:"total_cents"`
	PerPersonCents  int64    `json:"per_person_cents"`
	IsEstimate      bool     `json:"is_estimate"`
	TotalDisplay    string   `json:"total_display"`
	CreatedBy       string   `json:"created_by"`
	UpdatedAt       string   `json:"updated_at"`
}

// LineResponse is an expense as seen by one viewer
type LineResponse struct {
	Expense                 *ExpenseResponse `json:"expense"`
	IsEffectiveParticipant  bool             `json:"is_effective_participant"`
	EffectiveParticipantIDs []string         `json:"effective_participant_ids"`
	Speculative             bool             `json:"speculative"`
	ViewerPerPersonCents    int64            `json:"viewer_per_person_cents"`
	ViewerDisplay           string           `json:"viewer_display"`
}

// SummaryResponse represents what a viewer owes
type SummaryResponse struct {
	Summary
	UpFrontDisplay      string `json:"up_front_display"`
	SettledAfterDisplay string `json:"settled_after_display"`
	TotalDisplay        string `json:"total_display"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:              e.ID,
		EventID:         e.EventID,
		Title:           e.Title,
		AppliesTo:       string(e.AppliesTo),
		SplitType:       string(e.SplitType),
		Timing:          string(e.Timing),
		AmountCents:     e.Amount(),
		Currency:        e.Currency,
		ParticipantIDs:  append([]string{}, e.ParticipantIDs...),
		ItineraryItemID: e.ItineraryItemID,
		TotalCents:      TotalCents(e),
		PerPersonCents:  PerPersonCents(e),
		IsEstimate:      IsEstimate(e),
		TotalDisplay:    money.FormatCents(TotalCents(e), e.Currency),
		CreatedBy:       e.CreatedBy,
		UpdatedAt:       e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.SettledKind != nil {
		k := string(*e.SettledKind)
		resp.SettledKind = &k
	}
	return resp
}

// NewLineResponses converts evaluated lines to response DTOs for viewerID
func NewLineResponses(lines []Line, viewerID, hostID string) []*LineResponse {
	out := make([]*LineResponse, len(lines))
	for i, l := range lines {
		effective := EffectiveParticipantIDs(l.Expense, viewerID, hostID)
		out[i] = &LineResponse{
			Expense:                 l.Expense.ToResponse(),
			IsEffectiveParticipant:  l.IsEffectiveParticipant,
			EffectiveParticipantIDs: effective.IDs,
			Speculative:             effective.Speculative,
			ViewerPerPersonCents:    l.ViewerPerPersonCents,
			ViewerDisplay:           money.FormatCents(l.ViewerPerPersonCents, l.Expense.Currency),
		}
	}
	return out
}

// ToResponse converts a Summary to a SummaryResponse DTO
func (s Summary) ToResponse() *SummaryResponse {
	return &SummaryResponse{
		Summary:             s,
		UpFrontDisplay:      money.FormatCents(s.UpFrontCents, s.Currency),
		SettledAfterDisplay: money.FormatCents(s.SettledAfterCents, s.Currency),
		TotalDisplay:        money.FormatCents(s.TotalCents, s.Currency),
	}
}
