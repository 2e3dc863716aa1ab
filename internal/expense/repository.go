package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const expenseColumns = `id, event_id, title, applies_to, split_type, timing, settled_kind,
	amount_cents, currency, participant_ids, itinerary_item_id, created_by, created_at, updated_at`

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.EventID,
		&e.Title,
		&e.AppliesTo,
		&e.SplitType,
		&e.Timing,
		&e.SettledKind,
		&e.AmountCents,
		&e.Currency,
		pq.Array(&e.ParticipantIDs),
		&e.ItineraryItemID,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.ParticipantIDs == nil {
		e.ParticipantIDs = []string{}
	}
	return e, nil
}

// CreateExpense inserts a new expense into the database
func (r *Repository) CreateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (id, event_id, title, applies_to, split_type, timing, settled_kind,
			amount_cents, currency, participant_ids, itinerary_item_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + expenseColumns

	created, err := scanExpense(r.db.QueryRowContext(ctx, query,
		e.ID,
		e.EventID,
		e.Title,
		e.AppliesTo,
		e.SplitType,
		e.Timing,
		e.SettledKind,
		e.AmountCents,
		e.Currency,
		pq.Array(e.ParticipantIDs),
		e.ItineraryItemID,
		e.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListExpensesByEventID retrieves all expenses for an event in creation order
func (r *Repository) ListExpensesByEventID(ctx context.Context, eventID string) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE event_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense overwrites the editable columns of an expense
func (r *Repository) UpdateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		UPDATE expenses
		SET title = $2, applies_to = $3, split_type = $4, timing = $5, settled_kind = $6,
			amount_cents = $7, currency = $8, participant_ids = $9, itinerary_item_id = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + expenseColumns

	updated, err := scanExpense(r.db.QueryRowContext(ctx, query,
		e.ID,
		e.Title,
		e.AppliesTo,
		e.SplitType,
		e.Timing,
		e.SettledKind,
		e.AmountCents,
		e.Currency,
		pq.Array(e.ParticipantIDs),
		e.ItineraryItemID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return updated, nil
}

// DeleteExpense deletes an expense
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}
