package event

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/fkhayef/eventsplit/internal/expense"
	"github.com/fkhayef/eventsplit/internal/expense/split"
	"github.com/fkhayef/eventsplit/internal/itinerary"
)

const (
	lakeID  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	hostID  = "11111111-1111-1111-1111-111111111111"
	aliceID = "22222222-2222-2222-2222-222222222222"
	bobID   = "33333333-3333-3333-3333-333333333333"
)

// memoryStore keeps events, attendees, itineraries, attendance rows and
// expenses in maps. It serves as the event store and as both readers.
type memoryStore struct {
	events     map[string]Event
	attendees  map[string][]string
	items      map[string][]itinerary.Item
	attendance map[string][]itinerary.AttendanceEntry
	expenses   map[string][]*expense.Expense
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events:     map[string]Event{},
		attendees:  map[string][]string{},
		items:      map[string][]itinerary.Item{},
		attendance: map[string][]itinerary.AttendanceEntry{},
		expenses:   map[string][]*expense.Expense{},
	}
}

func (m *memoryStore) Create(_ context.Context, e *Event) (*Event, error) {
	saved := Event{
		ID:                         e.ID,
		Title:                      e.Title,
		HostID:                     e.HostID,
		Currency:                   e.Currency,
		ItineraryAttendanceEnabled: e.ItineraryAttendanceEnabled,
		CreatedAt:                  time.Now(),
	}
	m.events[e.ID] = saved
	return &saved, nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memoryStore) Update(_ context.Context, e *Event) (*Event, error) {
	existing, ok := m.events[e.ID]
	if !ok {
		return nil, nil
	}
	existing.Title = e.Title
	existing.Currency = e.Currency
	existing.ItineraryAttendanceEnabled = e.ItineraryAttendanceEnabled
	m.events[e.ID] = existing
	return &existing, nil
}

func (m *memoryStore) ListAttendeeIDs(_ context.Context, eventID string) ([]string, error) {
	return append([]string{}, m.attendees[eventID]...), nil
}

func (m *memoryStore) AddAttendee(_ context.Context, eventID, userID string) error {
	for _, id := range m.attendees[eventID] {
		if id == userID {
			return nil
		}
	}
	m.attendees[eventID] = append(m.attendees[eventID], userID)
	return nil
}

func (m *memoryStore) RemoveAttendee(_ context.Context, eventID, userID string) (bool, error) {
	removed := false
	kept := m.attendees[eventID][:0]
	for _, id := range m.attendees[eventID] {
		if id == userID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	m.attendees[eventID] = kept

	rows := m.attendance[eventID][:0]
	for _, entry := range m.attendance[eventID] {
		if entry.UserID != userID {
			rows = append(rows, entry)
		}
	}
	m.attendance[eventID] = rows
	return removed, nil
}

func (m *memoryStore) ListItemsByEventID(_ context.Context, eventID string) ([]itinerary.Item, error) {
	return append([]itinerary.Item{}, m.items[eventID]...), nil
}

func (m *memoryStore) ListAttendanceByEventID(_ context.Context, eventID string) ([]itinerary.AttendanceEntry, error) {
	return append([]itinerary.AttendanceEntry{}, m.attendance[eventID]...), nil
}

func (m *memoryStore) ListExpensesByEventID(_ context.Context, eventID string) ([]*expense.Expense, error) {
	return append([]*expense.Expense{}, m.expenses[eventID]...), nil
}

// newLakeWeekend seeds a gated event hosted by hostID with alice attending
// and two itinerary items. bob has not joined.
func newLakeWeekend() (*Service, *memoryStore) {
	store := newMemoryStore()
	store.events[lakeID] = Event{
		ID:                         lakeID,
		Title:                      "Lake weekend",
		HostID:                     hostID,
		Currency:                   "USD",
		ItineraryAttendanceEnabled: true,
	}
	store.attendees[lakeID] = []string{aliceID}
	store.items[lakeID] = []itinerary.Item{
		{ID: "hike", EventID: lakeID, Title: "Hike"},
		{ID: "lunch", EventID: lakeID, Title: "Lunch", Position: 1},
	}
	store.attendance[lakeID] = []itinerary.AttendanceEntry{
		{EventID: lakeID, UserID: aliceID, ItemIDs: []string{"lunch"}},
	}

	hike := "hike"
	lunch := "lunch"
	amount := func(v int64) *int64 { return &v }
	store.expenses[lakeID] = []*expense.Expense{
		{
			ID: "cabin", EventID: lakeID, AppliesTo: expense.AppliesToEveryone, SplitType: split.SplitTypeGroup,
			Timing: expense.TimingSettledLater, AmountCents: amount(9000), Currency: "USD",
			ParticipantIDs: []string{hostID, aliceID},
		},
		{
			ID: "permit", EventID: lakeID, AppliesTo: expense.AppliesToGuestsOnly, SplitType: split.SplitTypePerPerson,
			Timing: expense.TimingUpFront, AmountCents: amount(1500), Currency: "USD",
			ParticipantIDs: []string{aliceID}, ItineraryItemID: &hike,
		},
		{
			ID: "sandwiches", EventID: lakeID, AppliesTo: expense.AppliesToEveryone, SplitType: split.SplitTypePerPerson,
			Timing: expense.TimingUpFront, AmountCents: amount(1200), Currency: "USD",
			ParticipantIDs: []string{hostID, aliceID}, ItineraryItemID: &lunch,
		},
	}

	return NewService(store, store, store, "USD", nil), store
}

func TestCreateEvent(t *testing.T) {
	svc, _ := newLakeWeekend()
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, hostID, &CreateEventRequest{Title: "  Ski trip ", Currency: "eur"})
	assert.NoError(t, err)
	assert.Equal(t, "Ski trip", e.Title)
	assert.Equal(t, "EUR", e.Currency)
	assert.Equal(t, hostID, e.HostID)
	assert.Equal(t, []string{}, e.AttendeeIDs)

	e, err = svc.CreateEvent(ctx, hostID, &CreateEventRequest{Title: "Picnic"})
	assert.NoError(t, err)
	assert.Equal(t, "USD", e.Currency)

	_, err = svc.CreateEvent(ctx, hostID, &CreateEventRequest{Title: " "})
	assert.IsError(t, err, ErrEmptyTitle)

	_, err = svc.CreateEvent(ctx, hostID, &CreateEventRequest{Title: "Picnic", Currency: "euro"})
	assert.IsError(t, err, ErrInvalidCurrency)
}

func TestUpdateEventHostOnly(t *testing.T) {
	svc, store := newLakeWeekend()
	ctx := context.Background()
	off := false

	_, err := svc.UpdateEvent(ctx, lakeID, aliceID, &UpdateEventRequest{ItineraryAttendanceEnabled: &off})
	assert.IsError(t, err, ErrNotHost)
	assert.True(t, store.events[lakeID].ItineraryAttendanceEnabled)

	e, err := svc.UpdateEvent(ctx, lakeID, hostID, &UpdateEventRequest{ItineraryAttendanceEnabled: &off})
	assert.NoError(t, err)
	assert.False(t, e.ItineraryAttendanceEnabled)
	assert.Equal(t, "Lake weekend", e.Title)

	_, err = svc.UpdateEvent(ctx, bobID, hostID, &UpdateEventRequest{})
	assert.IsError(t, err, ErrEventNotFound)
}

func TestRequestJoinGated(t *testing.T) {
	svc, store := newLakeWeekend()

	_, err := svc.RequestJoin(context.Background(), lakeID, bobID)
	assert.IsError(t, err, ErrItinerarySelectionRequired)
	assert.Equal(t, []string{aliceID}, store.attendees[lakeID])
}

func TestRequestJoinWithoutGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*memoryStore)
	}{
		{name: "gating disabled", mutate: func(m *memoryStore) {
			e := m.events[lakeID]
			e.ItineraryAttendanceEnabled = false
			m.events[lakeID] = e
		}},
		{name: "no itinerary", mutate: func(m *memoryStore) { m.items[lakeID] = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newLakeWeekend()
			tt.mutate(store)

			e, err := svc.RequestJoin(context.Background(), lakeID, bobID)
			assert.NoError(t, err)
			assert.Equal(t, []string{aliceID, bobID}, e.AttendeeIDs)
			assert.True(t, e.IsAttending(bobID))
		})
	}
}

func TestRequestJoinUnknownEvent(t *testing.T) {
	svc, _ := newLakeWeekend()

	_, err := svc.RequestJoin(context.Background(), bobID, aliceID)
	assert.IsError(t, err, ErrEventNotFound)
}

func TestJoinIsIdempotent(t *testing.T) {
	svc, store := newLakeWeekend()
	ctx := context.Background()

	for n := 0; n < 2; n++ {
		joined, err := svc.Join(ctx, lakeID, bobID)
		assert.NoError(t, err)
		assert.True(t, joined)
	}
	assert.Equal(t, []string{aliceID, bobID}, store.attendees[lakeID])

	joined, err := svc.Join(ctx, lakeID, hostID)
	assert.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, []string{aliceID, bobID}, store.attendees[lakeID])
}

func TestLeave(t *testing.T) {
	svc, store := newLakeWeekend()
	ctx := context.Background()

	_, err := svc.Leave(ctx, lakeID, hostID)
	assert.IsError(t, err, ErrHostCannotLeave)

	left, err := svc.Leave(ctx, lakeID, aliceID)
	assert.NoError(t, err)
	assert.True(t, left)
	assert.Equal(t, 0, len(store.attendees[lakeID]))
	assert.Equal(t, 0, len(store.attendance[lakeID]))

	left, err = svc.Leave(ctx, lakeID, bobID)
	assert.NoError(t, err)
	assert.True(t, left)

	e, err := svc.FetchEventByID(ctx, lakeID)
	assert.NoError(t, err)
	assert.Zero(t, e.AttendanceFor(aliceID))
	assert.True(t, RequiresItineraryGate(e, aliceID))

	_, err = svc.Leave(ctx, bobID, aliceID)
	assert.IsError(t, err, ErrEventNotFound)
}

func TestSummaryFor(t *testing.T) {
	svc, _ := newLakeWeekend()
	ctx := context.Background()

	v, err := svc.SummaryFor(ctx, lakeID, bobID, nil, false)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(v.Lines))
	assert.Equal(t, int64(2700), v.Summary.UpFrontCents)
	assert.Equal(t, int64(3000), v.Summary.SettledAfterCents)

	v, err = svc.SummaryFor(ctx, lakeID, bobID, []string{"hike"}, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(v.Lines))
	assert.Equal(t, int64(1500), v.Summary.UpFrontCents)
	assert.Equal(t, int64(3000), v.Summary.SettledAfterCents)
}

func TestResolveEventContext(t *testing.T) {
	svc, _ := newLakeWeekend()
	ctx := context.Background()

	ec, err := svc.ResolveEventContext(ctx, lakeID)
	assert.NoError(t, err)
	assert.Equal(t, []string{hostID, aliceID}, ec.PeopleIDs)
	assert.Equal(t, []string{"hike", "lunch"}, ec.ItemIDs)

	ec, err = svc.ResolveEventContext(ctx, bobID)
	assert.NoError(t, err)
	assert.Zero(t, ec)

	host, err := svc.HostOf(ctx, lakeID)
	assert.NoError(t, err)
	assert.Equal(t, hostID, host)
}
