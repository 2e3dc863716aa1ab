package event

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/itinerary"
)

// Common errors
var (
	ErrEventNotFound              = errors.New("event not found")
	ErrNotHost                    = errors.New("only the host can change the event")
	ErrEmptyTitle                 = errors.New("title can't be empty")
	ErrHostCannotLeave            = errors.New("the host can't leave their own event")
	ErrItinerarySelectionRequired = errors.New("pick the itinerary items you will attend before joining")
	ErrInvalidCurrency            = errors.New("currency must be a three-letter code")
)

// Store persists events and their attendee lists
type Store interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) (*Event, error)
	ListAttendeeIDs(ctx context.Context, eventID string) ([]string, error)
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) (bool, error)
}

// ExpenseLister lists the expenses of an event
type ExpenseLister interface {
	ListExpensesByEventID(ctx context.Context, eventID string) ([]*expense.Expense, error)
}

// ItineraryReader reads an event's itinerary and attendance rows
type ItineraryReader interface {
	ListItemsByEventID(ctx context.Context, eventID string) ([]itinerary.Item, error)
	ListAttendanceByEventID(ctx context.Context, eventID string) ([]itinerary.AttendanceEntry, error)
}

// Service handles event business logic
type Service struct {
	repo            Store
	expenses        ExpenseLister
	itinerary       ItineraryReader
	defaultCurrency string
	logger          *slog.Logger
}

// NewService creates a new event service
func NewService(repo Store, expenses ExpenseLister, itin ItineraryReader, defaultCurrency string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:            repo,
		expenses:        expenses,
		itinerary:       itin,
		defaultCurrency: defaultCurrency,
		logger:          logger.With("service", "event"),
	}
}

// CreateEvent creates an event hosted by hostID
func (s *Service) CreateEvent(ctx context.Context, hostID string, req *CreateEventRequest) (*Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	currency, err := s.currency(req.Currency)
	if err != nil {
		return nil, err
	}

	e := &Event{
		ID:                         uuid.NewString(),
		Title:                      title,
		HostID:                     hostID,
		Currency:                   currency,
		ItineraryAttendanceEnabled: req.ItineraryAttendanceEnabled,
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.logger.Info("event created", "event_id", created.ID, "host_id", hostID)
	return s.FetchEventByID(ctx, created.ID)
}

// UpdateEvent changes the title, currency or gating flag. Host only.
func (s *Service) UpdateEvent(ctx context.Context, id, editorID string, req *UpdateEventRequest) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	if e.HostID != editorID {
		return nil, ErrNotHost
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		e.Title = title
	}
	if req.Currency != nil {
		currency, err := s.currency(*req.Currency)
		if err != nil {
			return nil, err
		}
		e.Currency = currency
	}
	if req.ItineraryAttendanceEnabled != nil {
		e.ItineraryAttendanceEnabled = *req.ItineraryAttendanceEnabled
	}

	if _, err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.FetchEventByID(ctx, id)
}

// FetchEventByID loads the event with its attendees, itinerary, attendance
// rows and expenses.
func (s *Service) FetchEventByID(ctx context.Context, id string) (*Event, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}

	if e.Attendance, err = s.itinerary.ListAttendanceByEventID(ctx, id); err != nil {
		return nil, err
	}
	if e.Expenses, err = s.expenses.ListExpensesByEventID(ctx, id); err != nil {
		return nil, err
	}

	return e, nil
}

// load reads the event row with attendees and itinerary items
func (s *Service) load(ctx context.Context, id string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}

	if e.AttendeeIDs, err = s.repo.ListAttendeeIDs(ctx, id); err != nil {
		return nil, err
	}
	if e.Itinerary, err = s.itinerary.ListItemsByEventID(ctx, id); err != nil {
		return nil, err
	}

	return e, nil
}

// Join adds userID to the attendees. It is idempotent and the host is
// always considered joined.
func (s *Service) Join(ctx context.Context, eventID, userID string) (bool, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if e == nil {
		return false, ErrEventNotFound
	}
	if e.IsHost(userID) {
		return true, nil
	}

	if err := s.repo.AddAttendee(ctx, eventID, userID); err != nil {
		return false, err
	}

	s.logger.Info("attendee joined", "event_id", eventID, "user_id", userID)
	return true, nil
}

// RequestJoin joins userID directly when the itinerary gate does not apply.
// Gated users must go through the attendance workflow instead.
func (s *Service) RequestJoin(ctx context.Context, eventID, userID string) (*Event, error) {
	e, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	if RequiresItineraryGate(e, userID) {
		return nil, ErrItinerarySelectionRequired
	}

	if _, err := s.Join(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return s.FetchEventByID(ctx, eventID)
}

// Leave removes userID from the attendees along with their selection
func (s *Service) Leave(ctx context.Context, eventID, userID string) (bool, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if e == nil {
		return false, ErrEventNotFound
	}
	if e.IsHost(userID) {
		return false, ErrHostCannotLeave
	}

	removed, err := s.repo.RemoveAttendee(ctx, eventID, userID)
	if err != nil {
		return false, err
	}

	s.logger.Info("attendee left", "event_id", eventID, "user_id", userID, "was_attending", removed)
	return true, nil
}

// ResolveEventContext describes an event for the expense write path. It
// returns nil when the event does not exist.
func (s *Service) ResolveEventContext(ctx context.Context, eventID string) (*expense.EventContext, error) {
	e, err := s.load(ctx, eventID)
	if err != nil || e == nil {
		return nil, err
	}
	return e.ExpenseContext(), nil
}

// HostOf returns the host of an event, or an empty id if it does not exist
func (s *Service) HostOf(ctx context.Context, eventID string) (string, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil || e == nil {
		return "", err
	}
	return e.HostID, nil
}

// ViewerSummary is what one viewer owes for an event
type ViewerSummary struct {
	Event   *Event
	Lines   []expense.Line
	Summary expense.Summary
}

// SummaryFor evaluates the event's expenses for viewerID. When scoped is
// set only event-wide expenses and those linked to the selected items count.
func (s *Service) SummaryFor(ctx context.Context, eventID, viewerID string, selected []string, scoped bool) (*ViewerSummary, error) {
	e, err := s.FetchEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return Summarize(e, viewerID, selected, scoped), nil
}

// Summarize evaluates an already loaded event for viewerID
func Summarize(e *Event, viewerID string, selected []string, scoped bool) *ViewerSummary {
	expenses := e.Expenses
	if scoped {
		expenses = itinerary.FilterResolvedExpenses(expenses, e.Itinerary, selected)
	}

	lines := expense.ViewerLines(expenses, viewerID, e.HostID)
	summary := expense.Summarize(lines)
	if summary.Currency == "" {
		summary.Currency = e.Currency
	}

	return &ViewerSummary{Event: e, Lines: lines, Summary: summary}
}

func (s *Service) currency(raw string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		c = s.defaultCurrency
	}
	if len(c) != 3 {
		return "", ErrInvalidCurrency
	}
	return c, nil
}
