package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// memoryDB is the shared state behind the in-memory repositories.  It is
// used with STORE_DRIVER=memory for local runs and by tests.
type memoryDB struct {
	mu           sync.Mutex
	nextRoomID   uint64
	nextResID    uint64
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
}

// MemoryRoomRepo is the in-memory counterpart of RoomRepo.
type MemoryRoomRepo struct{ db *memoryDB }

// MemoryReservationRepo is the in-memory counterpart of ReservationRepo.
type MemoryReservationRepo struct{ db *memoryDB }

// NewMemoryStore returns room and reservation repositories backed by the same
// in-memory tables, so the room deletion guard and the foreign key behave as
// they do on MySQL.
func NewMemoryStore() (*MemoryRoomRepo, *MemoryReservationRepo) {
	db := &memoryDB{
		rooms:        map[uint64]model.Room{},
		reservations: map[uint64]model.Reservation{},
	}
	return &MemoryRoomRepo{db: db}, &MemoryReservationRepo{db: db}
}

func (r *MemoryRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Room{}
	for id := uint64(1); id <= r.db.nextRoomID; id++ {
		if rm, ok := r.db.rooms[id]; ok {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *MemoryRoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rm, ok := r.db.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &rm, nil
}

func (r *MemoryRoomRepo) Create(ctx context.Context, rm *model.Room) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.nextRoomID++
	now := time.Now().UTC()
	rm.ID, rm.CreatedAt, rm.UpdatedAt = r.db.nextRoomID, now, now
	r.db.rooms[rm.ID] = *rm
	return nil
}

func (r *MemoryRoomRepo) Rename(ctx context.Context, id uint64, name string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rm, ok := r.db.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	rm.Name, rm.UpdatedAt = name, time.Now().UTC()
	r.db.rooms[id] = rm
	return nil
}

func (r *MemoryRoomRepo) DeleteIfUnused(ctx context.Context, id uint64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.rooms[id]; !ok {
		return ErrRoomNotFound
	}
	for _, res := range r.db.reservations {
		if res.RoomID == id {
			return ErrRoomInUse
		}
	}
	delete(r.db.rooms, id)
	return nil
}

func (r *MemoryRoomRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.rooms), nil
}

func (r *MemoryReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Reservation{}
	for id := uint64(1); id <= r.db.nextResID; id++ {
		if res, ok := r.db.reservations[id]; ok && res.RoomID == roomID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *MemoryReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res, ok := r.db.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &res, nil
}

func (r *MemoryReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.rooms[res.RoomID]; !ok {
		return ErrRoomNotFound
	}
	r.db.nextResID++
	now := time.Now().UTC()
	res.ID, res.CreatedAt, res.UpdatedAt = r.db.nextResID, now, now
	res.Start, res.End = res.Start.UTC(), res.End.UTC()
	r.db.reservations[res.ID] = *res
	return nil
}

func (r *MemoryReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.updateLocked(model.ReservationPatch{ID: res.ID, Title: res.Title, Start: res.Start, End: res.End}, res)
}

func (r *MemoryReservationRepo) Delete(ctx context.Context, id uint64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(r.db.reservations, id)
	return nil
}

func (r *MemoryReservationRepo) UpdateBatch(ctx context.Context, patches []model.ReservationPatch) ([]*model.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*model.Reservation, len(patches))
	for i, p := range patches {
		var res model.Reservation
		if err := r.updateLocked(p, &res); err != nil {
			continue
		}
		out[i] = &res
	}
	return out, nil
}

// updateLocked applies p and copies the stored row into dst.
func (r *MemoryReservationRepo) updateLocked(p model.ReservationPatch, dst *model.Reservation) error {
	cur, ok := r.db.reservations[p.ID]
	if !ok {
		return ErrReservationNotFound
	}
	cur.Title, cur.Start, cur.End = p.Title, p.Start.UTC(), p.End.UTC()
	cur.UpdatedAt = time.Now().UTC()
	r.db.reservations[p.ID] = cur
	*dst = cur
	return nil
}
