package expense

// Line is one expense as evaluated for a single viewer
type Line struct {
	Expense                *Expense
	IsEffectiveParticipant bool
	ViewerPerPersonCents   int64
	IsEstimate             bool
}

// Summary is what a viewer owes across a set of expenses
type Summary struct {
	UpFrontCents      int64  `json:"up_front_cents"`
	SettledAfterCents int64  `json:"settled_after_cents"`
	TotalCents        int64  `json:"total_cents"`
	HasEstimate       bool   `json:"has_estimate"`
	Currency          string `json:"currency,omitempty"`
}

// ViewerLines evaluates every expense for viewerID
func ViewerLines(expenses []*Expense, viewerID, hostID string) []Line {
	lines := make([]Line, 0, len(expenses))
	for _, e := range expenses {
		if e == nil {
			continue
		}
		lines = append(lines, Line{
			Expense:                e,
			IsEffectiveParticipant: EffectiveParticipantIDs(e, viewerID, hostID).Contains(viewerID),
			ViewerPerPersonCents:   ViewerPerPersonCents(e, viewerID, hostID),
			IsEstimate:             IsEstimate(e),
		})
	}
	return lines
}

// Summarize folds lines into up-front and settled-later totals. Lines where
// the viewer is not an effective participant contribute nothing.
func Summarize(lines []Line) Summary {
	var s Summary
	for _, l := range lines {
		if !l.IsEffectiveParticipant || l.Expense == nil {
			continue
		}
		if s.Currency == "" {
			s.Currency = l.Expense.Currency
		}

		switch l.Expense.Timing {
		case TimingUpFront:
			s.UpFrontCents += l.ViewerPerPersonCents
		case TimingSettledLater:
			s.SettledAfterCents += l.ViewerPerPersonCents
			if l.IsEstimate {
				s.HasEstimate = true
			}
		}
	}
	s.TotalCents = s.UpFrontCents + s.SettledAfterCents
	return s
}

// SummarizeForViewer evaluates and folds expenses for viewerID in one step
func SummarizeForViewer(expenses []*Expense, viewerID, hostID string) Summary {
	return Summarize(ViewerLines(expenses, viewerID, hostID))
}
