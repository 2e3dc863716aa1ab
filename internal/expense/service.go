package expense

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrNotHost              = errors.New("only the event host can edit expenses")
	ErrEmptyTitle           = errors.New("title can't be empty")
	ErrInvalidAppliesTo     = errors.New("applies_to must be EVERYONE, HOST_ONLY, GUESTS_ONLY or CUSTOM")
	ErrInvalidSplitType     = errors.New("split_type must be GROUP or PER_PERSON")
	ErrInvalidTiming        = errors.New("timing must be UP_FRONT or SETTLED_LATER")
	ErrInvalidSettledKind   = errors.New("settled_kind must be EXACT or ESTIMATE")
	ErrUnknownItineraryItem = errors.New("itinerary item does not belong to this event")
)

// Store persists expenses
type Store interface {
	CreateExpense(ctx context.Context, e *Expense) (*Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*Expense, error)
	ListExpensesByEventID(ctx context.Context, eventID string) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) (*Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// EventResolver supplies the host and people list of an event.
// It returns nil, nil when the event does not exist.
type EventResolver interface {
	ResolveEventContext(ctx context.Context, eventID string) (*EventContext, error)
}

// Service handles expense business logic
type Service struct {
	repo   Store
	events EventResolver
	logger *slog.Logger
}

// NewService creates a new expense service with dependencies injected
func NewService(repo Store, events EventResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		events: events,
		logger: logger.With("service", "expense"),
	}
}

// CreateExpense validates, normalizes and stores a new expense
func (s *Service) CreateExpense(ctx context.Context, editorID string, req *CreateExpenseRequest) (*Expense, error) {
	ec, err := s.editableEvent(ctx, req.EventID, editorID)
	if err != nil {
		return nil, err
	}

	e, err := req.toExpense()
	if err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	e.EventID = ec.EventID
	e.CreatedBy = editorID

	if err := Prepare(e, ec, editorID); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense created",
		"event_id", created.EventID,
		"expense_id", created.ID,
		"split_type", created.SplitType,
		"timing", created.Timing,
	)
	return created, nil
}

// GetExpenseByID retrieves an expense
func (s *Service) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// ListExpensesByEventID retrieves the expenses of an event
func (s *Service) ListExpensesByEventID(ctx context.Context, eventID string) ([]*Expense, error) {
	return s.repo.ListExpensesByEventID(ctx, eventID)
}

// UpdateExpense applies a partial edit. Preset changes re-derive the
// participant list and split/timing conflicts are corrected, never rejected.
func (s *Service) UpdateExpense(ctx context.Context, id, editorID string, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ec, err := s.editableEvent(ctx, existing.EventID, editorID)
	if err != nil {
		return nil, err
	}

	patch, err := req.toPatch(existing.Amount())
	if err != nil {
		return nil, err
	}

	// a link left untouched by the patch may point at a deleted item; it
	// stays as it is and drops out of scoped views
	relinked := patch.ItineraryItemID != nil || patch.ClearItineraryItem

	edited := existing.Clone()
	edited.Apply(patch)
	if err := prepare(edited, ec, editorID, relinked); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateExpense(ctx, edited)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}

	if existing.Timing != updated.Timing && req.Timing == nil {
		s.logger.Info("expense timing corrected",
			"expense_id", updated.ID,
			"split_type", updated.SplitType,
			"timing", updated.Timing,
		)
	}
	return updated, nil
}

// DeleteExpense removes an expense
func (s *Service) DeleteExpense(ctx context.Context, id, editorID string) error {
	existing, err := s.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.editableEvent(ctx, existing.EventID, editorID); err != nil {
		return err
	}

	return s.repo.DeleteExpense(ctx, id)
}

// editableEvent resolves the event and checks that editorID hosts it
func (s *Service) editableEvent(ctx context.Context, eventID, editorID string) (*EventContext, error) {
	ec, err := s.events.ResolveEventContext(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ec == nil {
		return nil, ErrEventNotFound
	}
	if ec.HostID != editorID {
		return nil, ErrNotHost
	}
	return ec, nil
}

// Prepare validates e against its event and normalizes it for storage
func Prepare(e *Expense, ec *EventContext, editorID string) error {
	return prepare(e, ec, editorID, true)
}

func prepare(e *Expense, ec *EventContext, editorID string, checkLink bool) error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if !e.AppliesTo.Valid() {
		return ErrInvalidAppliesTo
	}
	if !e.SplitType.Valid() {
		return ErrInvalidSplitType
	}
	if !e.Timing.Valid() {
		return ErrInvalidTiming
	}
	if e.SettledKind != nil && !e.SettledKind.Valid() {
		return ErrInvalidSettledKind
	}
	if checkLink && e.IsScoped() && !ec.HasItem(*e.ItineraryItemID) {
		return ErrUnknownItineraryItem
	}

	Normalize(e, ec, editorID)
	return nil
}
