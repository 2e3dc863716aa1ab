package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/itinerary"
	"github.com/fkhayef/eventsplit/internal/logging"
)

// Common errors
var (
	ErrNotOpen                 = errors.New("attendance selection is not open")
	ErrAlreadyOpen             = errors.New("attendance selection is already open")
	ErrCommitInProgress        = errors.New("attendance is being saved")
	ErrEmptySelection          = errors.New("select at least one itinerary item")
	ErrAcknowledgementRequired = errors.New("acknowledge the costs before saving")
	ErrUnknownItem             = errors.New("itinerary item not found")
	ErrMissingEvent            = errors.New("event is required")
	ErrJoinRejected            = errors.New("join was rejected")
	ErrAttendanceNotConfirmed  = errors.New("attendance was not confirmed")
	ErrAcknowledgementStale    = errors.New("totals changed since they were acknowledged")
	ErrMissingCollaborator     = errors.New("attendance collaborator is not configured")
)

// State is the lifecycle state of a Workflow
type State int

const (
	StateClosed State = iota
	StateSelecting
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateCommitting:
		return "committing"
	default:
		return "closed"
	}
}

// Mode is how the workflow was opened
type Mode string

const (
	ModeJoin Mode = "join" // every item starts selected
	ModeEdit Mode = "edit" // starts from the saved selection
)

// Phase tracks progress through the commit steps
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseJoining
	PhasePersisting
	PhaseRefreshing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseJoining:
		return "joining"
	case PhasePersisting:
		return "persisting"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a Commit call
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"  // retryable, selection kept
	OutcomeRejected Outcome = "rejected" // validation failed, nothing was called
	OutcomeIgnored  Outcome = "ignored"  // another commit is in flight
)

// Membership adds a user to an event's attendees. Join must be idempotent.
type Membership interface {
	Join(ctx context.Context, eventID, userID string) (bool, error)
}

// AttendanceStore persists a user's itinerary selection
type AttendanceStore interface {
	UpsertAttendance(ctx context.Context, eventID, userID string, itemIDs []string) (bool, error)
}

// EventFetcher loads the authoritative state of an event
type EventFetcher interface {
	FetchEventByID(ctx context.Context, eventID string) (*event.Event, error)
}

// Collaborators are the external services a commit talks to
type Collaborators struct {
	Membership Membership
	Store      AttendanceStore
	Events     EventFetcher
	Timeout    time.Duration // per call, zero means no limit
}

// OpenParams describes the selection to open
type OpenParams struct {
	Event  *event.Event
	UserID string
	Mode   Mode
}

// Requirements are the acknowledgements the current totals call for
type Requirements struct {
	UpFront      bool `json:"up_front"`
	SettledLater bool `json:"settled_later"`
}

// Acknowledgements are what the user has confirmed
type Acknowledgements struct {
	UpFront      bool `json:"up_front"`
	SettledLater bool `json:"settled_later"`
}

// Satisfies reports whether every required acknowledgement is given
func (a Acknowledgements) Satisfies(r Requirements) bool {
	return (!r.UpFront || a.UpFront) && (!r.SettledLater || a.SettledLater)
}

// Preview is a snapshot of an open workflow
type Preview struct {
	EventID      string
	HostID       string
	State        State
	Mode         Mode
	PendingJoin  bool
	Phase        Phase
	Selection    []string
	Expenses     []*expense.Expense
	Lines        []expense.Line
	Summary      expense.Summary
	Requirements Requirements
	Acknowledged Acknowledgements
	CanCommit    bool
	LastError    error
}

// CommitResult reports how a Commit ended
type CommitResult struct {
	Outcome Outcome
	Phase   Phase        // last phase reached
	Joined  bool         // this commit performed the join
	Event   *event.Event // refreshed event, nil if the refresh failed
	Err     error
}

// Workflow is the join-with-selection and edit-selection state machine for
// one user on one event. It is safe for concurrent use; the lock is not held
// while collaborators are called.
type Workflow struct {
	collab Collaborators
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	mode        Mode
	phase       Phase
	ev          *event.Event
	userID      string
	pendingJoin bool
	selection   itinerary.Selection
	acks        Acknowledgements
	lastErr     error

	// derived from selection
	expenses []*expense.Expense
	lines    []expense.Line
	summary  expense.Summary
}

// NewWorkflow creates a closed workflow
func NewWorkflow(collab Collaborators, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{collab: collab, logger: logger.With("component", "attendance_workflow")}
}

// Open starts a selection. Join mode selects every item; edit mode starts
// from the user's saved entry, dropping ids that are no longer on the
// itinerary.
func (w *Workflow) Open(p OpenParams) error {
	if p.Event == nil {
		return ErrMissingEvent
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateClosed {
		return ErrAlreadyOpen
	}

	var selection itinerary.Selection
	switch p.Mode {
	case ModeJoin:
		selection = itinerary.SelectAll(p.Event.Itinerary)
	case ModeEdit:
		if entry := p.Event.AttendanceFor(p.UserID); entry != nil {
			selection = itinerary.NewSelection(entry.ItemIDs...).Resolve(p.Event.Itinerary)
		} else {
			selection = itinerary.NewSelection()
		}
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}

	w.state = StateSelecting
	w.mode = p.Mode
	w.phase = PhaseNotStarted
	w.ev = p.Event
	w.userID = p.UserID
	w.pendingJoin = p.Mode == ModeJoin && !p.Event.IsAttending(p.UserID) && !p.Event.IsHost(p.UserID)
	w.selection = selection
	w.acks = Acknowledgements{}
	w.lastErr = nil
	w.recompute()

	return nil
}

// Toggle flips one item in or out of the selection
func (w *Workflow) Toggle(itemID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}
	if !w.hasItem(itemID) {
		return ErrUnknownItem
	}

	w.changeSelection(w.selection.Toggle(itemID).Resolve(w.ev.Itinerary))
	return nil
}

// SetSelection replaces the selection. Unknown ids are dropped.
func (w *Workflow) SetSelection(ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}

	next := itinerary.NewSelection(ids...).Resolve(w.ev.Itinerary)
	if next.Equal(w.selection) {
		return nil
	}
	w.changeSelection(next)
	return nil
}

// AcknowledgeUpFront records the user's confirmation of the up-front total
func (w *Workflow) AcknowledgeUpFront(ack bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}
	w.acks.UpFront = ack
	return nil
}

// AcknowledgeSettledLater records the user's confirmation of the
// settled-later total
func (w *Workflow) AcknowledgeSettledLater(ack bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(); err != nil {
		return err
	}
	w.acks.SettledLater = ack
	return nil
}

// Requirements returns the acknowledgements the current selection needs
func (w *Workflow) Requirements() Requirements {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.requirements()
}

// CanCommit reports whether Commit would pass validation
func (w *Workflow) CanCommit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validate() == nil
}

// State returns the current state
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Preview returns a snapshot of the selection and what it costs the user
func (w *Workflow) Preview() Preview {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := Preview{
		State:        w.state,
		Mode:         w.mode,
		PendingJoin:  w.pendingJoin,
		Phase:        w.phase,
		Selection:    w.selection.IDs(),
		Expenses:     append([]*expense.Expense(nil), w.expenses...),
		Lines:        append([]expense.Line(nil), w.lines...),
		Summary:      w.summary,
		Requirements: w.requirements(),
		Acknowledged: w.acks,
		CanCommit:    w.validate() == nil,
		LastError:    w.lastErr,
	}
	if w.ev != nil {
		p.EventID = w.ev.ID
		p.HostID = w.ev.HostID
	}
	return p
}

// Close abandons the selection. It is refused while a commit is running.
func (w *Workflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateCommitting {
		return ErrCommitInProgress
	}
	w.reset()
	return nil
}

// Commit saves the selection. A pending join runs first and persistence is
// only attempted once it succeeds. A join that succeeded is kept when
// persistence fails, so a retry only persists.
func (w *Workflow) Commit(ctx context.Context) CommitResult {
	w.mu.Lock()
	if w.state == StateCommitting {
		phase := w.phase
		w.mu.Unlock()
		return CommitResult{Outcome: OutcomeIgnored, Phase: phase, Err: ErrCommitInProgress}
	}
	if err := w.validate(); err != nil {
		phase := w.phase
		w.mu.Unlock()
		return CommitResult{Outcome: OutcomeRejected, Phase: phase, Err: err}
	}

	w.state = StateCommitting
	w.phase = PhaseNotStarted
	w.lastErr = nil
	eventID := w.ev.ID
	userID := w.userID
	itemIDs := w.selection.IDs()
	pendingJoin := w.pendingJoin
	w.mu.Unlock()

	logger := logging.FromContext(ctx, w.logger).With("event_id", eventID, "user_id", userID)
	result := CommitResult{}

	if pendingJoin {
		w.setPhase(PhaseJoining)
		ok, err := w.join(ctx, eventID, userID)
		if err != nil || !ok {
			return w.fail(logger, result, PhaseJoining, joinError(err))
		}

		result.Joined = true
		w.mu.Lock()
		w.pendingJoin = false
		w.mu.Unlock()
		logger.Info("joined event from attendance selection")
	}

	w.setPhase(PhasePersisting)
	confirmed, err := w.persist(ctx, eventID, userID, itemIDs)
	if err != nil || !confirmed {
		return w.fail(logger, result, PhasePersisting, persistError(err))
	}

	w.setPhase(PhaseRefreshing)
	refreshed, err := w.refresh(ctx, eventID)
	if err != nil || refreshed == nil {
		logger.Warn("attendance saved but event refresh failed", "error", err)
		refreshed = nil
	}

	w.mu.Lock()
	w.reset()
	w.phase = PhaseDone
	w.mu.Unlock()

	logger.Info("attendance committed", "items", len(itemIDs), "joined", result.Joined)

	result.Outcome = OutcomeSuccess
	result.Phase = PhaseDone
	result.Event = refreshed
	return result
}

func (w *Workflow) fail(logger *slog.Logger, result CommitResult, at Phase, err error) CommitResult {
	w.mu.Lock()
	w.state = StateSelecting
	w.phase = PhaseFailed
	w.lastErr = err
	w.mu.Unlock()

	logger.Warn("attendance commit failed", "phase", at.String(), "error", err)

	result.Outcome = OutcomeFailure
	result.Phase = at
	result.Err = err
	return result
}

func (w *Workflow) join(ctx context.Context, eventID, userID string) (bool, error) {
	if w.collab.Membership == nil {
		return false, ErrMissingCollaborator
	}
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()
	return w.collab.Membership.Join(ctx, eventID, userID)
}

func (w *Workflow) persist(ctx context.Context, eventID, userID string, itemIDs []string) (bool, error) {
	if w.collab.Store == nil {
		return false, ErrMissingCollaborator
	}
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()
	return w.collab.Store.UpsertAttendance(ctx, eventID, userID, itemIDs)
}

func (w *Workflow) refresh(ctx context.Context, eventID string) (*event.Event, error) {
	if w.collab.Events == nil {
		return nil, nil
	}
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()
	return w.collab.Events.FetchEventByID(ctx, eventID)
}

func (w *Workflow) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.collab.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.collab.Timeout)
}

func joinError(err error) error {
	if err == nil {
		return ErrJoinRejected
	}
	return fmt.Errorf("join: %w", err)
}

func persistError(err error) error {
	if err == nil {
		return ErrAttendanceNotConfirmed
	}
	return fmt.Errorf("save attendance: %w", err)
}

func (w *Workflow) setPhase(p Phase) {
	w.mu.Lock()
	w.phase = p
	w.mu.Unlock()
}

// editable requires the Selecting state. Caller holds mu.
func (w *Workflow) editable() error {
	switch w.state {
	case StateSelecting:
		return nil
	case StateCommitting:
		return ErrCommitInProgress
	default:
		return ErrNotOpen
	}
}

// validate checks the commit preconditions. Caller holds mu.
func (w *Workflow) validate() error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.selection.IsEmpty() {
		return ErrEmptySelection
	}
	if !w.acks.Satisfies(w.requirements()) {
		return ErrAcknowledgementRequired
	}
	return nil
}

func (w *Workflow) requirements() Requirements {
	if w.state == StateClosed {
		return Requirements{}
	}
	return Requirements{
		UpFront:      w.summary.UpFrontCents > 0,
		SettledLater: w.summary.SettledAfterCents > 0,
	}
}

// changeSelection applies a new selection and clears any acknowledgement
// whose requirement still applies to the new totals. Caller holds mu.
func (w *Workflow) changeSelection(next itinerary.Selection) {
	w.selection = next
	w.recompute()

	req := w.requirements()
	if req.UpFront {
		w.acks.UpFront = false
	}
	if req.SettledLater {
		w.acks.SettledLater = false
	}
}

// recompute derives the filtered expenses and the user's totals. Caller
// holds mu.
func (w *Workflow) recompute() {
	w.expenses = itinerary.FilterResolvedExpenses(w.ev.Expenses, w.ev.Itinerary, w.selection.IDs())
	w.lines = expense.ViewerLines(w.expenses, w.userID, w.ev.HostID)
	w.summary = expense.Summarize(w.lines)
	if w.summary.Currency == "" {
		w.summary.Currency = w.ev.Currency
	}
}

func (w *Workflow) hasItem(itemID string) bool {
	for _, item := range w.ev.Itinerary {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// reset returns to Closed. Caller holds mu.
func (w *Workflow) reset() {
	w.state = StateClosed
	w.mode = ""
	w.phase = PhaseNotStarted
	w.ev = nil
	w.userID = ""
	w.pendingJoin = false
	w.selection = itinerary.Selection{}
	w.acks = Acknowledgements{}
	w.lastErr = nil
	w.expenses = nil
	w.lines = nil
	w.summary = expense.Summary{}
}
