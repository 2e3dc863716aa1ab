package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Store persists notifications
type Store interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
}

// NameResolver looks up how a user is shown to other people. An empty
// result means the user has no display name.
type NameResolver interface {
	DisplayNameOf(ctx context.Context, userID string) string
}

// Service handles notification business logic
type Service struct {
	repo   Store
	names  NameResolver
	logger *slog.Logger
}

// NewService creates a new notification service. names may be nil.
func NewService(repo Store, names NameResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, names: names, logger: logger.With("service", "notification")}
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// ListByRecipientID retrieves a page of notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID string, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	page, perPage = normalizePage(page, perPage)
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, (page-1)*perPage, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID string) error {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// NotifyAttendance tells the host that a guest joined or changed their
// itinerary selection. Hosts are not notified about themselves.
func (s *Service) NotifyAttendance(ctx context.Context, hostID, eventID, eventTitle, userID string, joined bool, items int) (*Notification, error) {
	if hostID == "" || hostID == userID {
		return nil, nil
	}

	n := &Notification{
		ID:          uuid.NewString(),
		RecipientID: hostID,
		Type:        TypeAttendanceUpdated,
		Message:     attendanceMessage(s.actorName(ctx, userID), eventTitle, joined, items),
		EventID:     &eventID,
		ActorID:     &userID,
	}
	if joined {
		n.Type = TypeAttendanceJoined
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("notification created", "notification_id", created.ID, "type", created.Type, "recipient_id", hostID)
	return created, nil
}

func (s *Service) actorName(ctx context.Context, userID string) string {
	if s.names != nil {
		if name := s.names.DisplayNameOf(ctx, userID); name != "" {
			return name
		}
	}
	return "A guest"
}

func attendanceMessage(actor, eventTitle string, joined bool, items int) string {
	noun := "items"
	if items == 1 {
		noun = "item"
	}
	if joined {
		return fmt.Sprintf("%s joined %s for %d itinerary %s", actor, eventTitle, items, noun)
	}
	return fmt.Sprintf("%s updated their plans for %s to %d itinerary %s", actor, eventTitle, items, noun)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
