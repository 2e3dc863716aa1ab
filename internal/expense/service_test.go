package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/fkhayef/eventsplit/internal/expense/split"
	"github.com/fkhayef/eventsplit/pkg/money"
)

const (
	eventID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	hostID  = "11111111-1111-1111-1111-111111111111"
	guestID = "22222222-2222-2222-2222-222222222222"
	otherID = "33333333-3333-3333-3333-333333333333"
)

// memoryStore keeps expenses in a map
type memoryStore struct {
	items map[string]*Expense
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]*Expense{}}
}

func (m *memoryStore) CreateExpense(_ context.Context, e *Expense) (*Expense, error) {
	saved := e.Clone()
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	m.items[e.ID] = saved
	return saved.Clone(), nil
}

func (m *memoryStore) GetExpenseByID(_ context.Context, id string) (*Expense, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

func (m *memoryStore) ListExpensesByEventID(_ context.Context, eventID string) ([]*Expense, error) {
	out := []*Expense{}
	for _, e := range m.items {
		if e.EventID == eventID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (m *memoryStore) UpdateExpense(_ context.Context, e *Expense) (*Expense, error) {
	if _, ok := m.items[e.ID]; !ok {
		return nil, nil
	}
	saved := e.Clone()
	saved.UpdatedAt = time.Now()
	m.items[e.ID] = saved
	return saved.Clone(), nil
}

func (m *memoryStore) DeleteExpense(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return ErrExpenseNotFound
	}
	delete(m.items, id)
	return nil
}

// events resolves event contexts from a map
type events map[string]*EventContext

func (e events) ResolveEventContext(_ context.Context, id string) (*EventContext, error) {
	return e[id], nil
}

func newTestService() (*Service, *memoryStore, events) {
	store := newMemoryStore()
	evs := events{
		eventID: {
			EventID:   eventID,
			HostID:    hostID,
			PeopleIDs: []string{hostID, guestID, otherID},
			ItemIDs:   []string{"hike", "lunch"},
			Currency:  "EUR",
		},
	}
	return NewService(store, evs, nil), store, evs
}

func createRequest() *CreateExpenseRequest {
	return &CreateExpenseRequest{
		EventID:   eventID,
		Title:     "Cabin",
		AppliesTo: string(AppliesToEveryone),
		SplitType: string(split.SplitTypeGroup),
		Timing:    string(TimingUpFront),
		Amount:    strPtr("90"),
	}
}

func TestCreateExpense(t *testing.T) {
	svc, _, _ := newTestService()

	e, err := svc.CreateExpense(context.Background(), hostID, createRequest())
	assert.NoError(t, err)
	assert.NotEqual(t, "", e.ID)
	assert.Equal(t, hostID, e.CreatedBy)
	assert.Equal(t, int64(9000), e.Amount())
	assert.Equal(t, TimingSettledLater, e.Timing)
	assert.Equal(t, SettledKindExact, *e.SettledKind)
	assert.Equal(t, []string{hostID, guestID, otherID}, e.ParticipantIDs)
	assert.Equal(t, "EUR", e.Currency)
	assert.Equal(t, int64(3000), PerPersonCents(e))
}

func TestCreateExpenseErrors(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		mutate func(*CreateExpenseRequest)
		want   error
	}{
		{name: "guest", editor: guestID, want: ErrNotHost},
		{
			name:   "unknown event",
			editor: hostID,
			mutate: func(r *CreateExpenseRequest) { r.EventID = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb" },
			want:   ErrEventNotFound,
		},
		{
			name:   "item of another event",
			editor: hostID,
			mutate: func(r *CreateExpenseRequest) { r.ItineraryItemID = strPtr("boat") },
			want:   ErrUnknownItineraryItem,
		},
		{
			name:   "bad amount",
			editor: hostID,
			mutate: func(r *CreateExpenseRequest) { r.Amount = strPtr("9.999") },
			want:   money.ErrInvalidAmount,
		},
		{
			name:   "bad split",
			editor: hostID,
			mutate: func(r *CreateExpenseRequest) { r.SplitType = "EVEN" },
			want:   ErrInvalidSplitType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService()
			req := createRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := svc.CreateExpense(context.Background(), tt.editor, req)
			assert.IsError(t, err, tt.want)
			assert.Equal(t, 0, len(store.items))
		})
	}
}

func TestUpdateExpenseRederivesAndCorrects(t *testing.T) {
	svc, _, _ := newTestService()
	req := createRequest()
	req.SplitType = string(split.SplitTypePerPerson)
	req.Amount = strPtr("12")

	e, err := svc.CreateExpense(context.Background(), hostID, req)
	assert.NoError(t, err)
	assert.Equal(t, TimingUpFront, e.Timing)
	assert.Zero(t, e.SettledKind)

	guests := string(AppliesToGuestsOnly)
	updated, err := svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{AppliesTo: &guests})
	assert.NoError(t, err)
	assert.Equal(t, []string{guestID, otherID}, updated.ParticipantIDs)
	assert.Equal(t, int64(2400), TotalCents(updated))

	group := string(split.SplitTypeGroup)
	updated, err = svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{SplitType: &group})
	assert.NoError(t, err)
	assert.Equal(t, TimingSettledLater, updated.Timing)
	assert.Equal(t, SettledKindExact, *updated.SettledKind)
	assert.Equal(t, int64(1200), TotalCents(updated))
}

func TestUpdateExpenseKeepsAmountOnBadInput(t *testing.T) {
	svc, store, _ := newTestService()
	e, err := svc.CreateExpense(context.Background(), hostID, createRequest())
	assert.NoError(t, err)

	_, err = svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{Amount: strPtr("ninety")})
	assert.IsError(t, err, money.ErrInvalidAmount)

	var amountErr *AmountError
	assert.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "90.00", amountErr.Kept)
	assert.Equal(t, int64(9000), store.items[e.ID].Amount())

	updated, err := svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{Amount: strPtr("45.5")})
	assert.NoError(t, err)
	assert.Equal(t, int64(4550), updated.Amount())
}

func TestUpdateExpenseHostOnly(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.CreateExpense(context.Background(), hostID, createRequest())
	assert.NoError(t, err)

	_, err = svc.UpdateExpense(context.Background(), e.ID, guestID, &UpdateExpenseRequest{Title: strPtr("Mine")})
	assert.IsError(t, err, ErrNotHost)

	_, err = svc.UpdateExpense(context.Background(), "missing", hostID, &UpdateExpenseRequest{Title: strPtr("Mine")})
	assert.IsError(t, err, ErrExpenseNotFound)
}

func TestUpdateExpenseWithDeletedItineraryItem(t *testing.T) {
	svc, _, evs := newTestService()
	req := createRequest()
	req.ItineraryItemID = strPtr("lunch")

	e, err := svc.CreateExpense(context.Background(), hostID, req)
	assert.NoError(t, err)

	// the host deletes the lunch item
	evs[eventID].ItemIDs = []string{"hike"}

	updated, err := svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{Title: strPtr("Cabin and lunch")})
	assert.NoError(t, err)
	assert.Equal(t, "Cabin and lunch", updated.Title)
	assert.Equal(t, "lunch", *updated.ItineraryItemID)

	_, err = svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{ItineraryItemID: strPtr("lunch")})
	assert.IsError(t, err, ErrUnknownItineraryItem)

	updated, err = svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{ItineraryItemID: strPtr("hike")})
	assert.NoError(t, err)
	assert.Equal(t, "hike", *updated.ItineraryItemID)

	updated, err = svc.UpdateExpense(context.Background(), e.ID, hostID, &UpdateExpenseRequest{ClearItineraryItem: true})
	assert.NoError(t, err)
	assert.Zero(t, updated.ItineraryItemID)
}

func TestDeleteExpense(t *testing.T) {
	svc, store, _ := newTestService()
	e, err := svc.CreateExpense(context.Background(), hostID, createRequest())
	assert.NoError(t, err)

	assert.IsError(t, svc.DeleteExpense(context.Background(), e.ID, guestID), ErrNotHost)
	assert.Equal(t, 1, len(store.items))

	assert.NoError(t, svc.DeleteExpense(context.Background(), e.ID, hostID))
	assert.Equal(t, 0, len(store.items))

	assert.IsError(t, svc.DeleteExpense(context.Background(), e.ID, hostID), ErrExpenseNotFound)
}
