package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the profile for u.ID or replaces its editable fields
func (r *Repository) Upsert(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (id, display_name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    email = EXCLUDED.email,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = NOW()
		RETURNING id, display_name, email, avatar_url, created_at, updated_at
	`

	saved := &User{}
	err := r.db.QueryRowContext(ctx, query, u.ID, u.DisplayName, u.Email, u.AvatarURL).Scan(
		&saved.ID,
		&saved.DisplayName,
		&saved.Email,
		&saved.AvatarURL,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return saved, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, display_name, email, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.DisplayName,
		&u.Email,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// ListByIDs retrieves the profiles that exist among ids
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]*User, error) {
	query := `
		SELECT id, display_name, email, avatar_url, created_at, updated_at
		FROM users
		WHERE id = ANY($1::uuid[])
		ORDER BY display_name, id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, len(ids))
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(
			&u.ID,
			&u.DisplayName,
			&u.Email,
			&u.AvatarURL,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
