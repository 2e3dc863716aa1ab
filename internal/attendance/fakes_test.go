package attendance

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fkhayef/eventsplit/internal/event"
	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/expense/split"
	"github.com/fkhayef/eventsplit/internal/itinerary"
	"github.com/fkhayef/eventsplit/internal/notification"
)

const (
	eventID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	hostID  = "11111111-1111-1111-1111-111111111111"
	aliceID = "22222222-2222-2222-2222-222222222222"
	bobID   = "33333333-3333-3333-3333-333333333333"
)

// lakeWeekend has a host, one attendee (alice) and three itinerary items.
// For a prospective guest every item selected costs 27.00 up front and
// 50.00 settled later.
func lakeWeekend() *event.Event {
	amount := func(v int64) *int64 { return &v }
	item := func(id string) *string { return &id }
	estimate := expense.SettledKindEstimate
	exact := expense.SettledKindExact

	return &event.Event{
		ID:                         eventID,
		Title:                      "Lake weekend",
		HostID:                     hostID,
		Currency:                   "USD",
		ItineraryAttendanceEnabled: true,
		AttendeeIDs:                []string{aliceID},
		Itinerary: []itinerary.Item{
			{ID: "hike", EventID: eventID, Title: "Hike", Position: 0},
			{ID: "lunch", EventID: eventID, Title: "Lunch", Position: 1},
			{ID: "boat", EventID: eventID, Title: "Boat", Position: 2},
		},
		Expenses: []*expense.Expense{
			{
				ID: "cabin", Title: "Cabin", AppliesTo: expense.AppliesToEveryone,
				SplitType: split.SplitTypeGroup, Timing: expense.TimingSettledLater, SettledKind: &exact,
				AmountCents: amount(9000), Currency: "USD", ParticipantIDs: []string{hostID, aliceID},
			},
			{
				ID: "permit", Title: "Trail permit", AppliesTo: expense.AppliesToGuestsOnly,
				SplitType: split.SplitTypePerPerson, Timing: expense.TimingUpFront,
				AmountCents: amount(1500), Currency: "USD", ParticipantIDs: []string{aliceID},
				ItineraryItemID: item("hike"),
			},
			{
				ID: "lunch-tab", Title: "Lunch", AppliesTo: expense.AppliesToEveryone,
				SplitType: split.SplitTypePerPerson, Timing: expense.TimingUpFront,
				AmountCents: amount(1200), Currency: "USD", ParticipantIDs: []string{hostID, aliceID},
				ItineraryItemID: item("lunch"),
			},
			{
				ID: "boat-fuel", Title: "Fuel", AppliesTo: expense.AppliesToEveryone,
				SplitType: split.SplitTypeGroup, Timing: expense.TimingSettledLater, SettledKind: &estimate,
				AmountCents: amount(6000), Currency: "USD", ParticipantIDs: []string{hostID, aliceID},
				ItineraryItemID: item("boat"),
			},
		},
	}
}

type persistResult struct {
	ok  bool
	err error
}

// fakeCollab implements every collaborator and records the calls it sees
type fakeCollab struct {
	mu  sync.Mutex
	log []string

	joinOK      bool
	joinErr     error
	joinWaitCtx bool          // Join blocks until its context ends
	joinStarted chan struct{} // closed when Join is first entered
	startOnce   sync.Once
	joinRelease chan struct{} // Join blocks until closed

	persist []persistResult // consumed in order, confirmed once empty

	event    *event.Event
	fetchErr error

	notified []string
}

func newFakeCollab() *fakeCollab {
	return &fakeCollab{joinOK: true, event: lakeWeekend()}
}

func (f *fakeCollab) collaborators() Collaborators {
	return Collaborators{Membership: f, Store: f, Events: f, Timeout: time.Second}
}

func (f *fakeCollab) record(call string) {
	f.mu.Lock()
	f.log = append(f.log, call)
	f.mu.Unlock()
}

func (f *fakeCollab) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.log) == 0 {
		return nil
	}
	return append([]string{}, f.log...)
}

func (f *fakeCollab) Join(ctx context.Context, eventID, userID string) (bool, error) {
	f.record("join")
	if f.joinStarted != nil {
		f.startOnce.Do(func() { close(f.joinStarted) })
	}
	if f.joinRelease != nil {
		<-f.joinRelease
	}
	if f.joinWaitCtx {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return f.joinOK, f.joinErr
}

func (f *fakeCollab) UpsertAttendance(_ context.Context, eventID, userID string, itemIDs []string) (bool, error) {
	f.record("persist:" + strings.Join(itemIDs, ","))

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.persist) == 0 {
		return true, nil
	}
	next := f.persist[0]
	f.persist = f.persist[1:]
	return next.ok, next.err
}

func (f *fakeCollab) FetchEventByID(_ context.Context, id string) (*event.Event, error) {
	f.record("fetch")
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.event == nil || f.event.ID != id {
		return nil, event.ErrEventNotFound
	}
	return f.event, nil
}

func (f *fakeCollab) NotifyAttendance(_ context.Context, hostID, eventID, eventTitle, userID string, joined bool, items int) (*notification.Notification, error) {
	kind := "updated"
	if joined {
		kind = "joined"
	}
	f.mu.Lock()
	f.notified = append(f.notified, kind+":"+userID)
	f.mu.Unlock()
	return &notification.Notification{RecipientID: hostID}, nil
}
