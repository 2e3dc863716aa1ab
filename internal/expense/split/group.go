package split

import "github.com/fkhayef/eventsplit/pkg/money"

// =============================================================================
// GROUP SPLIT STRATEGY
// The stored amount is the total; each participant owes a rounded share
// =============================================================================

// GroupStrategy implements the Strategy interface for group totals
type GroupStrategy struct{}

// Type returns the split type identifier
func (s *GroupStrategy) Type() SplitType {
	return SplitTypeGroup
}

// TotalCents is the stored amount; group totals are already integral cents
func (s *GroupStrategy) TotalCents(amountCents int64, participants int) int64 {
	return amountCents
}

// PerPersonCents divides the total evenly, rounding half away from zero.
// Nobody to divide by means nobody owes anything.
func (s *GroupStrategy) PerPersonCents(amountCents int64, participants int) int64 {
	if participants <= 0 {
		return 0
	}
	return money.DivRound(amountCents, int64(participants))
}
