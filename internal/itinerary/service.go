package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrItemNotFound    = errors.New("itinerary item not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrNotHost         = errors.New("only the event host can edit the itinerary")
	ErrEmptyTitle      = errors.New("title can't be empty")
	ErrInvalidDuration = errors.New("duration must not be negative")
	ErrMissingStart    = errors.New("starts_at is required")
)

// Store persists itinerary items and attendance entries
type Store interface {
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	GetItemByID(ctx context.Context, id string) (*Item, error)
	ListItemsByEventID(ctx context.Context, eventID string) ([]Item, error)
	NextPosition(ctx context.Context, eventID string) (int, error)
	DeleteItem(ctx context.Context, id string) error
	UpsertAttendance(ctx context.Context, eventID, userID string, itemIDs []string) (bool, error)
	GetAttendance(ctx context.Context, eventID, userID string) (*AttendanceEntry, error)
	ListAttendanceByEventID(ctx context.Context, eventID string) ([]AttendanceEntry, error)
}

// HostResolver looks up the host of an event. It returns an empty id when
// the event does not exist.
type HostResolver interface {
	HostOf(ctx context.Context, eventID string) (string, error)
}

// Service handles itinerary business logic
type Service struct {
	repo   Store
	hosts  HostResolver
	logger *slog.Logger
}

// NewService creates a new itinerary service
func NewService(repo Store, hosts HostResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		hosts:  hosts,
		logger: logger.With("service", "itinerary"),
	}
}

// CreateItem adds a sub-activity to an event's itinerary
func (s *Service) CreateItem(ctx context.Context, editorID string, req *CreateItemRequest) (*Item, error) {
	if err := s.requireHost(ctx, req.EventID, editorID); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, ErrEmptyTitle
	}
	if req.StartsAt.IsZero() {
		return nil, ErrMissingStart
	}
	if req.DurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}

	position, err := s.repo.NextPosition(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if req.Position != nil {
		position = *req.Position
	}

	item, err := s.repo.CreateItem(ctx, &Item{
		ID:              uuid.NewString(),
		EventID:         req.EventID,
		Title:           req.Title,
		Location:        req.Location,
		StartsAt:        req.StartsAt.UTC().Truncate(time.Second),
		DurationMinutes: req.DurationMinutes,
		Position:        position,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("itinerary item created", "event_id", item.EventID, "item_id", item.ID)
	return item, nil
}

// ListItems returns an event's itinerary in display order
func (s *Service) ListItems(ctx context.Context, eventID string) ([]Item, error) {
	return s.repo.ListItemsByEventID(ctx, eventID)
}

// DeleteItem removes an itinerary item
func (s *Service) DeleteItem(ctx context.Context, id, editorID string) error {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if err := s.requireHost(ctx, item.EventID, editorID); err != nil {
		return err
	}

	return s.repo.DeleteItem(ctx, id)
}

// GetAttendance returns a user's attendance entry, or nil if none exists
func (s *Service) GetAttendance(ctx context.Context, eventID, userID string) (*AttendanceEntry, error) {
	return s.repo.GetAttendance(ctx, eventID, userID)
}

// ListAttendance returns every attendance entry of an event
func (s *Service) ListAttendance(ctx context.Context, eventID string) ([]AttendanceEntry, error) {
	return s.repo.ListAttendanceByEventID(ctx, eventID)
}

// UpsertAttendance stores a user's selected items, replacing any previous
// selection. Only the attending user writes their own row.
func (s *Service) UpsertAttendance(ctx context.Context, eventID, userID string, itemIDs []string) (bool, error) {
	ids := NewSelection(itemIDs...).IDs()
	confirmed, err := s.repo.UpsertAttendance(ctx, eventID, userID, ids)
	if err != nil {
		return false, err
	}

	s.logger.Debug("attendance upserted",
		"event_id", eventID,
		"user_id", userID,
		"items", len(ids),
		"confirmed", confirmed,
	)
	return confirmed, nil
}

func (s *Service) requireHost(ctx context.Context, eventID, editorID string) error {
	hostID, err := s.hosts.HostOf(ctx, eventID)
	if err != nil {
		return err
	}
	if hostID == "" {
		return ErrEventNotFound
	}
	if hostID != editorID {
		return ErrNotHost
	}
	return nil
}
