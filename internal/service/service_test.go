package service

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

type recordingListener struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (l *recordingListener) OnReservationChange(_ context.Context, ev queue.ReservationEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

type fixture struct {
	rooms        *RoomService
	reservations *ReservationService
	listener     *recordingListener
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	roomStore, resStore := repository.NewMemoryStore()
	l := &recordingListener{}
	log := zap.NewNop()
	return fixture{
		rooms:        NewRoomService(roomStore, log),
		reservations: NewReservationService(roomStore, resStore, NewClock(tokyo(t)), log, l),
		listener:     l,
	}
}

func TestRoomService_CreateThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.rooms.Create(ctx, "Hall")
	require.NoError(t, err)
	b, err := f.rooms.Create(ctx, "  Hall  ")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "names need not be unique")

	rooms, err := f.rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Hall", rooms[1].Name)
}

func TestRoomService_CreateRejectsBlankName(t *testing.T) {
	f := newFixture(t)
	_, err := f.rooms.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	rooms, _ := f.rooms.List(context.Background())
	assert.Empty(t, rooms)
}

func TestRoomService_RenameIsNoOpOnBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, err := f.rooms.Create(ctx, "Hall")
	require.NoError(t, err)

	assert.ErrorIs(t, f.rooms.Rename(ctx, rm.ID, ""), ErrValidation)
	assert.ErrorIs(t, f.rooms.Rename(ctx, 999, "Other"), repository.ErrRoomNotFound)
	got, _ := f.rooms.Get(ctx, rm.ID)
	assert.Equal(t, "Hall", got.Name)

	require.NoError(t, f.rooms.Rename(ctx, rm.ID, "Great Hall"))
	got, _ = f.rooms.Get(ctx, rm.ID)
	assert.Equal(t, "Great Hall", got.Name)
}

// Hall/Choir walk-through: a room with a reservation survives deletion until
// the reservation is gone.
func TestRoomDeletionGuardScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hall, err := f.rooms.Create(ctx, "Hall")
	require.NoError(t, err)
	choir, err := f.reservations.Create(ctx, ReservationInput{
		Title: "Choir", Start: "2024-01-01T10:00:00Z", End: "2024-01-01T11:00:00Z", RoomID: hall.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.rooms.Delete(ctx, hall.ID), repository.ErrRoomInUse)
	_, err = f.rooms.Get(ctx, hall.ID)
	require.NoError(t, err, "room must still exist")

	require.NoError(t, f.reservations.Delete(ctx, choir.ID))
	require.NoError(t, f.rooms.Delete(ctx, hall.ID))
	_, err = f.rooms.Get(ctx, hall.ID)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestRoomService_Seed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	added, err := f.rooms.Seed(ctx, []string{"A", "", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = f.rooms.Seed(ctx, DefaultSeedRooms)
	require.NoError(t, err)
	assert.Zero(t, added, "seeding only fills an empty catalog")
}

func TestReservationService_CreateKeepsInstants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")

	_, err := f.reservations.Create(ctx, ReservationInput{
		Title: "Service", Start: "2024-06-01T09:00:00+09:00", End: "2024-06-01T10:00:00+09:00", RoomID: rm.ID,
	})
	require.NoError(t, err)
	_, err = f.reservations.Create(ctx, ReservationInput{
		Title: "Late", Start: "2024-01-01T10:00:00Z", End: "2024-01-01T09:00:00Z", RoomID: rm.ID,
	})
	require.NoError(t, err, "inverted ranges are accepted")

	list, err := f.reservations.ListForRoom(ctx, rm.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Service", list[0].Title)
	assert.True(t, list[0].Start.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, list[0].End.Equal(time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Asia/Tokyo", list[1].Start.Location().String())
	assert.Equal(t, "2024-01-01T19:00:00+09:00", f.reservations.Clock().Format(list[1].Start))
}

func TestReservationService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")

	_, err := f.reservations.Create(ctx, ReservationInput{Title: "x", Start: "soon", End: "2024-01-01T10:00:00Z", RoomID: rm.ID})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = f.reservations.Create(ctx, ReservationInput{Title: " ", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z", RoomID: rm.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reservations.Create(ctx, ReservationInput{Title: "x", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reservations.Create(ctx, ReservationInput{Title: "x", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z", RoomID: 42})
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)

	assert.Empty(t, f.listener.events)
}

func TestReservationService_UpdateAndDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reservations.Update(ctx, 5, ReservationInput{Title: "x", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z"})
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
	assert.ErrorIs(t, f.reservations.Delete(ctx, 5), repository.ErrReservationNotFound)
	assert.Empty(t, f.listener.events)
}

func TestReservationService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")
	res, err := f.reservations.Create(ctx, ReservationInput{Title: "A", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z", RoomID: rm.ID})
	require.NoError(t, err)

	updated, err := f.reservations.Update(ctx, res.ID, ReservationInput{Title: "B", Start: "2024-01-02T09:00:00-03:00", End: "2024-01-02T10:00:00-03:00"})
	require.NoError(t, err)
	assert.Equal(t, rm.ID, updated.RoomID)
	assert.Equal(t, "2024-01-02T21:00:00+09:00", f.reservations.Clock().Format(updated.Start))

	got, err := f.reservations.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.True(t, got.End.Equal(time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)))

	require.Len(t, f.listener.events, 2)
	assert.Equal(t, queue.ActionUpdated, f.listener.events[1].Action)
	assert.Equal(t, rm.ID, f.listener.events[1].RoomID)
}

func TestReservationService_UpdateBatchMixedIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")
	a, _ := f.reservations.Create(ctx, ReservationInput{Title: "A", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z", RoomID: rm.ID})
	b, _ := f.reservations.Create(ctx, ReservationInput{Title: "B", Start: "2024-01-01T11:00:00Z", End: "2024-01-01T12:00:00Z", RoomID: rm.ID})
	f.listener.events = nil

	report, err := f.reservations.UpdateBatch(ctx, []BatchItem{
		{ID: a.ID, Title: "A2", Start: "2024-01-03T09:00:00Z", End: "2024-01-03T10:00:00Z"},
		{ID: 999, Title: "Ghost", Start: "2024-01-03T09:00:00Z", End: "2024-01-03T10:00:00Z"},
		{ID: b.ID, Title: "B2", Start: "2024-01-03T18:00:00", End: "2024-01-03T19:00:00"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []BatchResult{
		{ID: a.ID, Outcome: OutcomeApplied},
		{ID: 999, Outcome: OutcomeSkippedNotFound},
		{ID: b.ID, Outcome: OutcomeApplied},
	}, report.Results)

	list, _ := f.reservations.ListForRoom(ctx, rm.ID)
	assert.Equal(t, "A2", list[0].Title)
	assert.Equal(t, "B2", list[1].Title)
	assert.Equal(t, "2024-01-03T18:00:00+09:00", f.reservations.Clock().Format(list[1].Start))

	require.Len(t, f.listener.events, 2)
	assert.True(t, f.listener.events[0].Batch)
}

func TestReservationService_UpdateBatchRejectsMalformedItemsUpFront(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")
	a, _ := f.reservations.Create(ctx, ReservationInput{Title: "A", Start: "2024-01-01T09:00:00Z", End: "2024-01-01T10:00:00Z", RoomID: rm.ID})

	_, err := f.reservations.UpdateBatch(ctx, []BatchItem{
		{ID: a.ID, Title: "A2", Start: "2024-01-03T09:00:00Z", End: "2024-01-03T10:00:00Z"},
		{ID: a.ID, Title: "A3", Start: "bad", End: "2024-01-03T10:00:00Z"},
	})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	got, _ := f.reservations.Get(ctx, a.ID)
	assert.Equal(t, "A", got.Title, "nothing is applied when any item is malformed")
}

func TestReservationService_UpdateBatchEmpty(t *testing.T) {
	f := newFixture(t)
	report, err := f.reservations.UpdateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Applied)
	assert.NotNil(t, report.Results)
}

func TestRoomService_NameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	longest := strings.Repeat("室", MaxRoomNameLength)
	rm, err := f.rooms.Create(ctx, longest)
	require.NoError(t, err)
	assert.Equal(t, longest, rm.Name)

	_, err = f.rooms.Create(ctx, longest+"室")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, f.rooms.Rename(ctx, rm.ID, strings.Repeat("a", MaxRoomNameLength+1)), ErrValidation)
	got, _ := f.rooms.Get(ctx, rm.ID)
	assert.Equal(t, longest, got.Name)
}

func TestReservationService_TitleLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rm, _ := f.rooms.Create(ctx, "Chapel")

	in := ReservationInput{
		Title:  strings.Repeat("礼", MaxTitleLength),
		Start:  "2024-01-01T09:00:00Z",
		End:    "2024-01-01T10:00:00Z",
		RoomID: rm.ID,
	}
	res, err := f.reservations.Create(ctx, in)
	require.NoError(t, err)

	in.Title += "x"
	_, err = f.reservations.Create(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reservations.Update(ctx, res.ID, in)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reservations.UpdateBatch(ctx, []BatchItem{{ID: res.ID, Title: in.Title, Start: in.Start, End: in.End}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReservationService_UpdateBatchNotSlowedByBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	pub := queue.NewPublisher(config.QueueConfig{
		URL:         "amqp://guest:guest@" + ln.Addr().String() + "/",
		QueueName:   "reservation.changed",
		DialTimeout: 300 * time.Millisecond,
		BufferSize:  64,
	}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pub.Run(ctx)

	roomStore, resStore := repository.NewMemoryStore()
	rooms := NewRoomService(roomStore, zap.NewNop())
	svc := NewReservationService(roomStore, resStore, NewClock(tokyo(t)), zap.NewNop(), pub)
	rm, err := rooms.Create(ctx, "Hall")
	require.NoError(t, err)

	var items []BatchItem
	for i := 0; i < 10; i++ {
		res, err := svc.Create(ctx, ReservationInput{Title: "r", Start: "2024-06-01T09:00:00", End: "2024-06-01T10:00:00", RoomID: rm.ID})
		require.NoError(t, err)
		items = append(items, BatchItem{ID: res.ID, Title: "moved", Start: "2024-06-02T09:00:00", End: "2024-06-02T10:00:00"})
	}

	begin := time.Now()
	report, err := svc.UpdateBatch(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Applied)
	assert.Less(t, time.Since(begin), 250*time.Millisecond)
}
