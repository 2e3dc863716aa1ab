package split

// =============================================================================
// PER-PERSON SPLIT STRATEGY
// The stored amount is a fixed per-head price
// =============================================================================

// PerPersonStrategy implements the Strategy interface for per-head prices
type PerPersonStrategy struct{}

// Type returns the split type identifier
func (s *PerPersonStrategy) Type() SplitType {
	return SplitTypePerPerson
}

// TotalCents multiplies the per-head price by the head count
func (s *PerPersonStrategy) TotalCents(amountCents int64, participants int) int64 {
	if participants <= 0 {
		return 0
	}
	return amountCents * int64(participants)
}

// PerPersonCents is the per-head price regardless of group size
func (s *PerPersonStrategy) PerPersonCents(amountCents int64, participants int) int64 {
	return amountCents
}
