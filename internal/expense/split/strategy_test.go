package split

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFactoryCreate(t *testing.T) {
	f := NewSplitStrategyFactory()

	s, err := f.Create(SplitTypeGroup)
	assert.NoError(t, err)
	assert.Equal(t, SplitTypeGroup, s.Type())

	s, err = f.CreateFromString("PER_PERSON")
	assert.NoError(t, err)
	assert.Equal(t, SplitTypePerPerson, s.Type())

	_, err = f.CreateFromString("EVEN")
	assert.Error(t, err)
}

func TestFactoryForTypeUnknownIsZero(t *testing.T) {
	s := NewSplitStrategyFactory().ForType("BOGUS")
	assert.Equal(t, int64(0), s.TotalCents(1000, 3))
	assert.Equal(t, int64(0), s.PerPersonCents(1000, 3))
}

func TestGroupStrategy(t *testing.T) {
	s := &GroupStrategy{}

	tests := []struct {
		name         string
		amount       int64
		participants int
		wantTotal    int64
		wantPer      int64
	}{
		{name: "thirds round down", amount: 1000, participants: 3, wantTotal: 1000, wantPer: 333},
		{name: "sixths round up", amount: 1000, participants: 6, wantTotal: 1000, wantPer: 167},
		{name: "half cent rounds away from zero", amount: 5, participants: 2, wantTotal: 5, wantPer: 3},
		{name: "no participants", amount: 1000, participants: 0, wantTotal: 1000, wantPer: 0},
		{name: "zero amount", amount: 0, participants: 4, wantTotal: 0, wantPer: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTotal, s.TotalCents(tt.amount, tt.participants))
			assert.Equal(t, tt.wantPer, s.PerPersonCents(tt.amount, tt.participants))
		})
	}
}

func TestGroupStrategyRoundingSlack(t *testing.T) {
	s := &GroupStrategy{}
	for amount := int64(0); amount <= 2000; amount += 37 {
		for n := 1; n <= 12; n++ {
			per := s.PerPersonCents(amount, n)
			assert.Equal(t, per, s.PerPersonCents(amount, n))

			diff := per*int64(n) - amount
			if diff < 0 {
				diff = -diff
			}
			assert.True(t, diff <= int64(n-1), "amount=%d n=%d per=%d", amount, n, per)
		}
	}
}

func TestPerPersonStrategy(t *testing.T) {
	s := &PerPersonStrategy{}
	for n := 0; n <= 10; n++ {
		assert.Equal(t, int64(500), s.PerPersonCents(500, n))
		assert.Equal(t, int64(500)*int64(n), s.TotalCents(500, n))
	}
}
