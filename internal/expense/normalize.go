package expense

import (
	"github.com/fkhayef/eventsplit/internal/expense/split"
)

// Patch holds the editable fields of an expense; nil means unchanged
type Patch struct {
	Title              *string
	AppliesTo          *AppliesTo
	SplitType          *split.SplitType
	Timing             *Timing
	SettledKind        *SettledKind
	AmountCents        *int64
	Currency           *string
	ParticipantIDs     *[]string
	ItineraryItemID    *string
	ClearItineraryItem bool
}

// Apply copies the set fields of p onto e. Supplying an explicit participant
// list without a preset switches the expense to CUSTOM.
func (e *Expense) Apply(p Patch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.AppliesTo != nil {
		e.AppliesTo = *p.AppliesTo
	}
	if p.ParticipantIDs != nil {
		e.ParticipantIDs = append([]string(nil), (*p.ParticipantIDs)...)
		if p.AppliesTo == nil {
			e.AppliesTo = AppliesToCustom
		}
	}
	if p.SplitType != nil {
		e.SplitType = *p.SplitType
	}
	if p.Timing != nil {
		e.Timing = *p.Timing
	}
	if p.SettledKind != nil {
		k := *p.SettledKind
		e.SettledKind = &k
	}
	if p.AmountCents != nil {
		a := *p.AmountCents
		e.AmountCents = &a
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.ClearItineraryItem {
		e.ItineraryItemID = nil
	} else if p.ItineraryItemID != nil {
		id := *p.ItineraryItemID
		e.ItineraryItemID = &id
	}
}

// Normalize restores the structural invariants of an expense after a write:
//   - GROUP totals are always settled later
//   - SettledKind is set exactly when Timing is SETTLED_LATER
//   - non-CUSTOM presets re-derive ParticipantIDs from the people list
//   - ParticipantIDs is an ordered set
func Normalize(e *Expense, ec *EventContext, editorID string) {
	if e.SplitType == split.SplitTypeGroup && e.Timing == TimingUpFront {
		e.Timing = TimingSettledLater
	}

	switch e.Timing {
	case TimingSettledLater:
		if e.SettledKind == nil || !e.SettledKind.Valid() {
			k := SettledKindExact
			e.SettledKind = &k
		}
	default:
		e.SettledKind = nil
	}

	if e.ItineraryItemID != nil && *e.ItineraryItemID == "" {
		e.ItineraryItemID = nil
	}

	if e.AppliesTo != AppliesToCustom && ec != nil {
		e.ParticipantIDs = DeriveParticipants(e.AppliesTo, ec.PeopleIDs, ec.HostID, editorID)
	}
	e.ParticipantIDs = appendUnique(make([]string, 0, len(e.ParticipantIDs)), e.ParticipantIDs...)

	if e.Currency == "" && ec != nil {
		e.Currency = ec.Currency
	}
}
