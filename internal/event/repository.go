package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles event and attendee persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new event repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new event
func (r *Repository) Create(ctx context.Context, e *Event) (*Event, error) {
	query := `
		INSERT INTO events (id, title, host_id, currency, itinerary_attendance_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, host_id, currency, itinerary_attendance_enabled, created_at
	`

	created := &Event{}
	err := r.db.QueryRowContext(ctx, query,
		e.ID,
		e.Title,
		e.HostID,
		e.Currency,
		e.ItineraryAttendanceEnabled,
	).Scan(
		&created.ID,
		&created.Title,
		&created.HostID,
		&created.Currency,
		&created.ItineraryAttendanceEnabled,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// GetByID retrieves an event row by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := `
		SELECT id, title, host_id, currency, itinerary_attendance_enabled, created_at
		FROM events
		WHERE id = $1
	`

	e := &Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.Title,
		&e.HostID,
		&e.Currency,
		&e.ItineraryAttendanceEnabled,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// Update overwrites the editable columns of an event
func (r *Repository) Update(ctx context.Context, e *Event) (*Event, error) {
	query := `
		UPDATE events
		SET title = $2, currency = $3, itinerary_attendance_enabled = $4
		WHERE id = $1
		RETURNING id, title, host_id, currency, itinerary_attendance_enabled, created_at
	`

	updated := &Event{}
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Title, e.Currency, e.ItineraryAttendanceEnabled).Scan(
		&updated.ID,
		&updated.Title,
		&updated.HostID,
		&updated.Currency,
		&updated.ItineraryAttendanceEnabled,
		&updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return updated, nil
}

// ListAttendeeIDs retrieves the attendees of an event in join order
func (r *Repository) ListAttendeeIDs(ctx context.Context, eventID string) ([]string, error) {
	query := `SELECT user_id FROM event_attendees WHERE event_id = $1 ORDER BY joined_at, user_id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AddAttendee records userID as attending. Joining twice is a no-op.
func (r *Repository) AddAttendee(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("failed to add attendee: %w", err)
	}
	return nil
}

// RemoveAttendee removes userID and their itinerary selection in one
// transaction. It reports whether the user was attending.
func (r *Repository) RemoveAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove attendee: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM itinerary_attendance WHERE event_id = $1 AND user_id = $2`, eventID, userID); err != nil {
		return false, fmt.Errorf("failed to remove attendance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit leave: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}
