package expense

import "github.com/fkhayef/eventsplit/internal/expense/split"

func cents(v int64) *int64 { return &v }

func kind(k SettledKind) *SettledKind { return &k }

func strPtr(s string) *string { return &s }

func groupExpense(amount int64, participants ...string) *Expense {
	return &Expense{
		ID:             "exp-group",
		Title:          "Cabin",
		AppliesTo:      AppliesToCustom,
		SplitType:      split.SplitTypeGroup,
		Timing:         TimingSettledLater,
		SettledKind:    kind(SettledKindExact),
		AmountCents:    cents(amount),
		Currency:       "USD",
		ParticipantIDs: participants,
	}
}

func perPersonExpense(amount int64, participants ...string) *Expense {
	return &Expense{
		ID:             "exp-pp",
		Title:          "Tickets",
		AppliesTo:      AppliesToCustom,
		SplitType:      split.SplitTypePerPerson,
		Timing:         TimingUpFront,
		AmountCents:    cents(amount),
		Currency:       "USD",
		ParticipantIDs: participants,
	}
}
