package itinerary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles itinerary item and attendance persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new itinerary repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateItem inserts a new itinerary item
func (r *Repository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	query := `
		INSERT INTO itinerary_items (id, event_id, title, location, starts_at, duration_minutes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, event_id, title, location, starts_at, duration_minutes, position, created_at
	`

	created := &Item{}
	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.EventID,
		item.Title,
		item.Location,
		item.StartsAt,
		item.DurationMinutes,
		item.Position,
	).Scan(
		&created.ID,
		&created.EventID,
		&created.Title,
		&created.Location,
		&created.StartsAt,
		&created.DurationMinutes,
		&created.Position,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary item: %w", err)
	}

	return created, nil
}

// GetItemByID retrieves an itinerary item by its ID
func (r *Repository) GetItemByID(ctx context.Context, id string) (*Item, error) {
	query := `
		SELECT id, event_id, title, location, starts_at, duration_minutes, position, created_at
		FROM itinerary_items
		WHERE id = $1
	`

	item := &Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.EventID,
		&item.Title,
		&item.Location,
		&item.StartsAt,
		&item.DurationMinutes,
		&item.Position,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get itinerary item: %w", err)
	}

	return item, nil
}

// ListItemsByEventID retrieves an event's itinerary in display order
func (r *Repository) ListItemsByEventID(ctx context.Context, eventID string) ([]Item, error) {
	query := `
		SELECT id, event_id, title, location, starts_at, duration_minutes, position, created_at
		FROM itinerary_items
		WHERE event_id = $1
		ORDER BY position, starts_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.EventID,
			&item.Title,
			&item.Location,
			&item.StartsAt,
			&item.DurationMinutes,
			&item.Position,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// NextPosition returns the position after the last item of an event
func (r *Repository) NextPosition(ctx context.Context, eventID string) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM itinerary_items WHERE event_id = $1`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute item position: %w", err)
	}
	return next, nil
}

// DeleteItem deletes an itinerary item and unlinks the expenses that
// referenced it, so they count as event-wide from then on
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM itinerary_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	if _, err := tx.ExecContext(ctx, `UPDATE expenses SET itinerary_item_id = NULL, updated_at = NOW() WHERE itinerary_item_id = $1`, id); err != nil {
		return fmt.Errorf("failed to unlink expenses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpsertAttendance stores the selection of one user, keyed by (event, user).
// It reports whether the database confirmed the write.
func (r *Repository) UpsertAttendance(ctx context.Context, eventID, userID string, itemIDs []string) (bool, error) {
	query := `
		INSERT INTO itinerary_attendance (event_id, user_id, item_ids)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET item_ids = EXCLUDED.item_ids, updated_at = NOW()
		RETURNING event_id
	`

	var confirmed string
	err := r.db.QueryRowContext(ctx, query, eventID, userID, pq.Array(itemIDs)).Scan(&confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return confirmed == eventID, nil
}

// GetAttendance retrieves one user's attendance entry, or nil if none exists
func (r *Repository) GetAttendance(ctx context.Context, eventID, userID string) (*AttendanceEntry, error) {
	query := `
		SELECT event_id, user_id, item_ids, updated_at
		FROM itinerary_attendance
		WHERE event_id = $1 AND user_id = $2
	`

	entry := &AttendanceEntry{}
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&entry.EventID,
		&entry.UserID,
		pq.Array(&entry.ItemIDs),
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return entry, nil
}

// ListAttendanceByEventID retrieves every attendance entry of an event
func (r *Repository) ListAttendanceByEventID(ctx context.Context, eventID string) ([]AttendanceEntry, error) {
	query := `
		SELECT event_id, user_id, item_ids, updated_at
		FROM itinerary_attendance
		WHERE event_id = $1
		ORDER BY updated_at, user_id
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	entries := make([]AttendanceEntry, 0)
	for rows.Next() {
		var entry AttendanceEntry
		if err := rows.Scan(
			&entry.EventID,
			&entry.UserID,
			pq.Array(&entry.ItemIDs),
			&entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
