package split

import (
	"fmt"
)

// SplitType defines how an expense amount is interpreted
type SplitType string

const (
	// SplitTypeGroup stores a total that is divided across participants
	SplitTypeGroup SplitType = "GROUP"
	// SplitTypePerPerson stores a fixed per-head price
	SplitTypePerPerson SplitType = "PER_PERSON"
)

// Valid reports whether the split type is known
func (t SplitType) Valid() bool {
	return t == SplitTypeGroup || t == SplitTypePerPerson
}

// Strategy is the interface that all split strategies must implement.
// Amounts are minor units; participant counts are never negative.
type Strategy interface {
	// Type returns the type identifier for this strategy
	Type() SplitType

	// TotalCents returns the full cost of the expense for the given head count
	TotalCents(amountCents int64, participants int) int64

	// PerPersonCents returns what one participant owes for the given head count
	PerPersonCents(amountCents int64, participants int) int64
}

// Factory creates split strategies based on the requested type
type Factory struct {
	strategies map[SplitType]Strategy
}

// NewSplitStrategyFactory creates a new factory instance
func NewSplitStrategyFactory() *Factory {
	return &Factory{
		strategies: map[SplitType]Strategy{
			SplitTypeGroup:     &GroupStrategy{},
			SplitTypePerPerson: &PerPersonStrategy{},
		},
	}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	s, ok := f.strategies[splitType]
	if !ok {
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
	return s, nil
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

// ForType returns the strategy for splitType, or a strategy that computes
// zero for everything when the type is unknown.
func (f *Factory) ForType(splitType SplitType) Strategy {
	if s, err := f.Create(splitType); err == nil {
		return s
	}
	return zeroStrategy{splitType: splitType}
}

type zeroStrategy struct {
	splitType SplitType
}

func (z zeroStrategy) Type() SplitType { return z.splitType }

func (zeroStrategy) TotalCents(int64, int) int64 { return 0 }

func (zeroStrategy) PerPersonCents(int64, int) int64 { return 0 }
