package expense

import (
	"github.com/fkhayef/eventsplit/internal/expense/split"
)

var strategies = split.NewSplitStrategyFactory()

// TotalCents is the full cost of the expense across its stored participants
func TotalCents(e *Expense) int64 {
	if e == nil {
		return 0
	}
	return strategies.ForType(e.SplitType).TotalCents(e.Amount(), len(e.ParticipantIDs))
}

// PerPersonCents is the share of one stored participant
func PerPersonCents(e *Expense) int64 {
	if e == nil {
		return 0
	}
	return strategies.ForType(e.SplitType).PerPersonCents(e.Amount(), len(e.ParticipantIDs))
}

// IsEstimate reports whether the amount is a settled-later estimate
func IsEstimate(e *Expense) bool {
	return e != nil &&
		e.Timing == TimingSettledLater &&
		e.SettledKind != nil && *e.SettledKind == SettledKindEstimate
}

// EffectiveParticipants is the participant set as seen by one viewer. It may
// include the viewer speculatively; the stored expense is never modified.
type EffectiveParticipants struct {
	IDs         []string
	Speculative bool // viewer was added without being stored
}

// Contains reports whether id is counted
func (p EffectiveParticipants) Contains(id string) bool {
	return id != "" && contains(p.IDs, id)
}

// Len is the head count used for division
func (p EffectiveParticipants) Len() int {
	return len(p.IDs)
}

// EffectiveParticipantIDs returns who counts toward the expense for viewerID.
// A viewer who is not stored is added for EVERYONE, and for GUESTS_ONLY when
// they are not the host, so prospective attendees can preview their share.
func EffectiveParticipantIDs(e *Expense, viewerID, hostID string) EffectiveParticipants {
	if e == nil {
		return EffectiveParticipants{IDs: []string{}}
	}

	ids := append([]string{}, e.ParticipantIDs...)
	if viewerID == "" || contains(ids, viewerID) {
		return EffectiveParticipants{IDs: ids}
	}

	include := e.AppliesTo == AppliesToEveryone ||
		(e.AppliesTo == AppliesToGuestsOnly && viewerID != hostID)
	if !include {
		return EffectiveParticipants{IDs: ids}
	}

	return EffectiveParticipants{IDs: append(ids, viewerID), Speculative: true}
}

// ViewerPerPersonCents is the share for viewerID, dividing by the effective
// head count. PER_PERSON expenses always cost the per-head price.
func ViewerPerPersonCents(e *Expense, viewerID, hostID string) int64 {
	if e == nil {
		return 0
	}
	effective := EffectiveParticipantIDs(e, viewerID, hostID)
	return strategies.ForType(e.SplitType).PerPersonCents(e.Amount(), effective.Len())
}
