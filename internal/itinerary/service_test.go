package itinerary

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

const (
	eventID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	hostID  = "11111111-1111-1111-1111-111111111111"
	guestID = "22222222-2222-2222-2222-222222222222"
)

// memoryStore keeps items and attendance in maps
type memoryStore struct {
	items      map[string]Item
	attendance map[string]AttendanceEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]Item{}, attendance: map[string]AttendanceEntry{}}
}

func (m *memoryStore) CreateItem(_ context.Context, item *Item) (*Item, error) {
	saved := *item
	saved.CreatedAt = time.Now()
	m.items[item.ID] = saved
	return &saved, nil
}

func (m *memoryStore) GetItemByID(_ context.Context, id string) (*Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memoryStore) ListItemsByEventID(_ context.Context, eventID string) ([]Item, error) {
	out := []Item{}
	for _, item := range m.items {
		if item.EventID == eventID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memoryStore) NextPosition(_ context.Context, eventID string) (int, error) {
	next := 0
	for _, item := range m.items {
		if item.EventID == eventID && item.Position >= next {
			next = item.Position + 1
		}
	}
	return next, nil
}

func (m *memoryStore) DeleteItem(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryStore) UpsertAttendance(_ context.Context, eventID, userID string, itemIDs []string) (bool, error) {
	m.attendance[eventID+"/"+userID] = AttendanceEntry{
		EventID:   eventID,
		UserID:    userID,
		ItemIDs:   append([]string{}, itemIDs...),
		UpdatedAt: time.Now(),
	}
	return true, nil
}

func (m *memoryStore) GetAttendance(_ context.Context, eventID, userID string) (*AttendanceEntry, error) {
	entry, ok := m.attendance[eventID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *memoryStore) ListAttendanceByEventID(_ context.Context, eventID string) ([]AttendanceEntry, error) {
	out := []AttendanceEntry{}
	for _, entry := range m.attendance {
		if entry.EventID == eventID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// hosts maps event ids to their host
type hosts map[string]string

func (h hosts) HostOf(_ context.Context, eventID string) (string, error) {
	return h[eventID], nil
}

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(store, hosts{eventID: hostID}, nil), store
}

func itemRequest(title string) *CreateItemRequest {
	return &CreateItemRequest{
		EventID:         eventID,
		Title:           title,
		StartsAt:        time.Date(2026, 7, 4, 9, 30, 15, 500, time.FixedZone("EDT", -4*3600)),
		DurationMinutes: 90,
	}
}

func TestCreateItem(t *testing.T) {
	svc, _ := newTestService()

	hike, err := svc.CreateItem(context.Background(), hostID, itemRequest("Hike"))
	assert.NoError(t, err)
	assert.Equal(t, 0, hike.Position)
	assert.True(t, hike.StartsAt.Equal(time.Date(2026, 7, 4, 13, 30, 15, 0, time.UTC)))
	assert.True(t, hike.EndsAt().Equal(time.Date(2026, 7, 4, 15, 0, 15, 0, time.UTC)))
	assert.Equal(t, time.UTC, hike.StartsAt.Location())

	lunch, err := svc.CreateItem(context.Background(), hostID, itemRequest("Lunch"))
	assert.NoError(t, err)
	assert.Equal(t, 1, lunch.Position)

	items, err := svc.ListItems(context.Background(), eventID)
	assert.NoError(t, err)
	assert.Equal(t, []string{hike.ID, lunch.ID}, ItemIDsOf(items))
}

func TestCreateItemErrors(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		mutate func(*CreateItemRequest)
		want   error
	}{
		{name: "guest", editor: guestID, want: ErrNotHost},
		{
			name:   "unknown event",
			editor: hostID,
			mutate: func(r *CreateItemRequest) { r.EventID = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb" },
			want:   ErrEventNotFound,
		},
		{name: "no title", editor: hostID, mutate: func(r *CreateItemRequest) { r.Title = "" }, want: ErrEmptyTitle},
		{name: "no start", editor: hostID, mutate: func(r *CreateItemRequest) { r.StartsAt = time.Time{} }, want: ErrMissingStart},
		{name: "negative duration", editor: hostID, mutate: func(r *CreateItemRequest) { r.DurationMinutes = -5 }, want: ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			req := itemRequest("Hike")
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := svc.CreateItem(context.Background(), tt.editor, req)
			assert.IsError(t, err, tt.want)
			assert.Equal(t, 0, len(store.items))
		})
	}
}

func TestDeleteItemHostOnly(t *testing.T) {
	svc, store := newTestService()
	item, err := svc.CreateItem(context.Background(), hostID, itemRequest("Hike"))
	assert.NoError(t, err)

	assert.IsError(t, svc.DeleteItem(context.Background(), item.ID, guestID), ErrNotHost)
	assert.Equal(t, 1, len(store.items))

	assert.NoError(t, svc.DeleteItem(context.Background(), item.ID, hostID))
	assert.Equal(t, 0, len(store.items))

	assert.IsError(t, svc.DeleteItem(context.Background(), item.ID, hostID), ErrItemNotFound)
}

func TestUpsertAttendanceDeduplicates(t *testing.T) {
	svc, store := newTestService()

	ok, err := svc.UpsertAttendance(context.Background(), eventID, guestID, []string{"lunch", "", "hike", "lunch"})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"lunch", "hike"}, store.attendance[eventID+"/"+guestID].ItemIDs)

	// a second write replaces the first
	_, err = svc.UpsertAttendance(context.Background(), eventID, guestID, []string{"boat"})
	assert.NoError(t, err)

	entry, err := svc.GetAttendance(context.Background(), eventID, guestID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"boat"}, entry.ItemIDs)

	entries, err := svc.ListAttendance(context.Background(), eventID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}
