package attendance

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/logging"
	"github.com/fkhayef/eventsplit/internal/notification"
)

// ErrSelectionNotAvailable is returned when the user has nothing to select:
// itinerary attendance is off, the event has no items, or the user is a
// non-attendee who can join directly.
var ErrSelectionNotAvailable = errors.New("itinerary selection is not available for this event")

// Notifier tells hosts about attendance changes
type Notifier interface {
	NotifyAttendance(ctx context.Context, hostID, eventID, eventTitle, userID string, joined bool, items int) (*notification.Notification, error)
}

// Service runs one workflow per request for the HTTP layer
type Service struct {
	collab   Collaborators
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates a new attendance service
func NewService(collab Collaborators, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collab:   collab,
		notifier: notifier,
		logger:   logger.With("service", "attendance"),
		inflight: make(map[string]struct{}),
	}
}

// ModeFor picks how userID enters the selection: join when the itinerary
// gate applies, edit when they already attend or host.
func ModeFor(ev *event.Event, userID string) (Mode, error) {
	if event.RequiresItineraryGate(ev, userID) {
		return ModeJoin, nil
	}
	if !ev.ItineraryAttendanceEnabled || len(ev.Itinerary) == 0 {
		return "", ErrSelectionNotAvailable
	}
	if ev.IsAttending(userID) || ev.IsHost(userID) {
		return ModeEdit, nil
	}
	return "", ErrSelectionNotAvailable
}

// Preview opens a workflow, applies the selection if given and reports
// what it costs userID. Nothing is persisted.
func (s *Service) Preview(ctx context.Context, eventID, userID string, req *SelectionRequest) (*Preview, error) {
	wf, _, err := s.open(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if req != nil && req.ItemIDs != nil {
		if err := wf.SetSelection(*req.ItemIDs); err != nil {
			return nil, err
		}
	}

	p := wf.Preview()
	return &p, nil
}

// Commit runs the workflow to completion for one request. Concurrent commits
// for the same user and event are ignored while one is running.
func (s *Service) Commit(ctx context.Context, eventID, userID string, req *CommitRequest) (CommitResult, error) {
	key := eventID + "/" + userID
	if !s.acquire(key) {
		return CommitResult{Outcome: OutcomeIgnored, Err: ErrCommitInProgress}, nil
	}
	defer s.release(key)

	wf, ev, err := s.open(ctx, eventID, userID)
	if err != nil {
		return CommitResult{}, err
	}
	if req.ItemIDs != nil {
		if err := wf.SetSelection(*req.ItemIDs); err != nil {
			return CommitResult{}, err
		}
	}

	p := wf.Preview()
	upFront := acknowledged(req.AcknowledgeUpFront, req.UpFrontCents, p.Summary.UpFrontCents)
	settled := acknowledged(req.AcknowledgeSettledLater, req.SettledAfterCents, p.Summary.SettledAfterCents)
	if (p.Requirements.UpFront && req.AcknowledgeUpFront && !upFront) ||
		(p.Requirements.SettledLater && req.AcknowledgeSettledLater && !settled) {
		return CommitResult{Outcome: OutcomeRejected, Phase: p.Phase, Err: ErrAcknowledgementStale}, nil
	}

	if err := wf.AcknowledgeUpFront(upFront); err != nil {
		return CommitResult{}, err
	}
	if err := wf.AcknowledgeSettledLater(settled); err != nil {
		return CommitResult{}, err
	}

	items := len(p.Selection)
	result := wf.Commit(ctx)
	if result.Outcome == OutcomeSuccess {
		s.notify(ctx, ev, userID, result.Joined, items)
	}
	return result, nil
}

// acknowledged reports whether an acknowledgement given against seen still
// holds for the current total
func acknowledged(ack bool, seen *int64, current int64) bool {
	return ack && seen != nil && *seen == current
}

func (s *Service) open(ctx context.Context, eventID, userID string) (*Workflow, *event.Event, error) {
	ev, err := s.collab.Events.FetchEventByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if ev == nil {
		return nil, nil, event.ErrEventNotFound
	}

	mode, err := ModeFor(ev, userID)
	if err != nil {
		return nil, nil, err
	}

	wf := NewWorkflow(s.collab, s.logger)
	if err := wf.Open(OpenParams{Event: ev, UserID: userID, Mode: mode}); err != nil {
		return nil, nil, err
	}
	return wf, ev, nil
}

func (s *Service) notify(ctx context.Context, ev *event.Event, userID string, joined bool, items int) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.NotifyAttendance(ctx, ev.HostID, ev.ID, ev.Title, userID, joined, items); err != nil {
		logging.FromContext(ctx, s.logger).Warn("failed to notify host", "event_id", ev.ID, "error", err)
	}
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}
