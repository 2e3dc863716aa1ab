package itinerary

import "github.com/fkhayef/eventsplit/internal/expense"

// FilterExpensesForSelection narrows expenses to those relevant when only the
// selected items are attended. Event-wide expenses are always kept; scoped
// expenses are kept when their item is selected. Order is preserved.
func FilterExpensesForSelection(expenses []*expense.Expense, selectedItemIDs []string) []*expense.Expense {
	selected := make(map[string]struct{}, len(selectedItemIDs))
	for _, id := range selectedItemIDs {
		selected[id] = struct{}{}
	}

	out := make([]*expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e == nil {
			continue
		}
		if !e.IsScoped() {
			out = append(out, e)
			continue
		}
		if _, ok := selected[*e.ItineraryItemID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// FilterResolvedExpenses is FilterExpensesForSelection restricted to items
// that exist: an expense linked to an unknown item is dropped even if its id
// appears in the selection.
func FilterResolvedExpenses(expenses []*expense.Expense, items []Item, selectedItemIDs []string) []*expense.Expense {
	resolved := NewSelection(selectedItemIDs...).Resolve(items)
	return FilterExpensesForSelection(expenses, resolved.IDs())
}
