package expense

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSummarize(t *testing.T) {
	upFront := perPersonExpense(400, "A")
	dinner := groupExpense(900, "A", "B", "C")
	fuel := groupExpense(1000, "A", "B")
	fuel.SettledKind = kind(SettledKindEstimate)
	notMine := perPersonExpense(700, "B")

	s := SummarizeForViewer([]*Expense{upFront, dinner, fuel, notMine}, "A", "H")

	assert.Equal(t, Summary{
		UpFrontCents:      400,
		SettledAfterCents: 300 + 500,
		TotalCents:        1200,
		HasEstimate:       true,
		Currency:          "USD",
	}, s)
}

func TestSummarizeIgnoresNonParticipantEstimates(t *testing.T) {
	fuel := groupExpense(1000, "B")
	fuel.SettledKind = kind(SettledKindEstimate)

	s := SummarizeForViewer([]*Expense{fuel}, "A", "H")
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeUsesViewerShare(t *testing.T) {
	e := groupExpense(1000, "A", "B", "C")
	e.AppliesTo = AppliesToEveryone

	lines := ViewerLines([]*Expense{e, nil}, "D", "A")
	assert.Equal(t, 1, len(lines))
	assert.True(t, lines[0].IsEffectiveParticipant)
	assert.Equal(t, int64(250), lines[0].ViewerPerPersonCents)

	s := Summarize(lines)
	assert.Equal(t, int64(250), s.SettledAfterCents)
	assert.Equal(t, int64(250), s.TotalCents)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
