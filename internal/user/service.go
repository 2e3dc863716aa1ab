package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Common errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
	ErrEmptyDisplayName  = errors.New("display name can't be empty")
)

// Store persists user profiles
type Store interface {
	Upsert(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}

// Service handles user business logic
type Service struct {
	repo   Store
	logger *slog.Logger
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger.With("service", "user")}
}

// SaveProfile creates or updates the profile of userID
func (s *Service) SaveProfile(ctx context.Context, userID string, req *SaveProfileRequest) (*User, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, ErrEmptyDisplayName
	}

	u := &User{
		ID:          userID,
		DisplayName: name,
		Email:       normalizeEmail(req.Email),
		AvatarURL:   req.AvatarURL,
	}
	return s.repo.Upsert(ctx, u)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ListByIDs retrieves the known profiles among ids
func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

// DisplayNameOf returns the user's display name, or an empty string when
// they have no profile
func (s *Service) DisplayNameOf(ctx context.Context, id string) string {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to look up display name", "user_id", id, "error", err)
		return ""
	}
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
