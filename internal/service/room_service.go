package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// RoomStore is the storage the room catalog needs.  repository.RoomRepo and
// repository.MemoryRoomRepo implement it.
type RoomStore interface {
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	Create(ctx context.Context, rm *model.Room) error
	Rename(ctx context.Context, id uint64, name string) error
	DeleteIfUnused(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int, error)
}

// RoomService manages the room catalog.
type RoomService struct {
	rooms RoomStore
	log   *zap.Logger
}

// NewRoomService panics on a nil store, like the handler constructors do.
func NewRoomService(rooms RoomStore, log *zap.Logger) *RoomService {
	if rooms == nil {
		panic("nil RoomStore passed to NewRoomService")
	}
	return &RoomService{rooms: rooms, log: log.Named("rooms")}
}

// List returns every room in insertion order.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return s.rooms.List(ctx)
}

// Get returns one room or repository.ErrRoomNotFound.
func (s *RoomService) Get(ctx context.Context, id uint64) (*model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Create adds a room.  A blank or oversized name is rejected with
// ErrValidation.
func (s *RoomService) Create(ctx context.Context, name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, required("name")
	}
	if err := checkLength("name", name, MaxRoomNameLength); err != nil {
		return nil, err
	}
	rm := &model.Room{Name: name}
	if err := s.rooms.Create(ctx, rm); err != nil {
		return nil, err
	}
	s.log.Info("room created", zap.Uint64("room_id", rm.ID), zap.String("name", rm.Name))
	return rm, nil
}

// Rename changes a room's name.  Nothing changes when the name is blank or
// too long (ErrValidation) or the room does not exist (repository.ErrRoomNotFound);
// callers that want the silent behaviour ignore both.
func (s *RoomService) Rename(ctx context.Context, id uint64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return required("name")
	}
	if err := checkLength("name", name, MaxRoomNameLength); err != nil {
		return err
	}
	if err := s.rooms.Rename(ctx, id, name); err != nil {
		return err
	}
	s.log.Info("room renamed", zap.Uint64("room_id", id), zap.String("name", name))
	return nil
}

// Delete removes a room unless it still owns reservations
// (repository.ErrRoomInUse) or does not exist (repository.ErrRoomNotFound).
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
	err := s.rooms.DeleteIfUnused(ctx, id)
	switch {
	case err == nil:
		s.log.Info("room deleted", zap.Uint64("room_id", id))
	case errors.Is(err, repository.ErrRoomInUse):
		s.log.Info("room delete refused: room has reservations", zap.Uint64("room_id", id))
	}
	return err
}

// Seed inserts names when the catalog is empty and reports how many rooms
// were added.  It is only reached through the seed command.
func (s *RoomService) Seed(ctx context.Context, names []string) (int, error) {
	n, err := s.rooms.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("seed skipped: rooms already present", zap.Int("count", n))
		return 0, nil
	}
	added := 0
	for _, name := range names {
		if _, err := s.Create(ctx, name); err != nil {
			if errors.Is(err, ErrValidation) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

// DefaultSeedRooms is the room list the seed command uses when SEED_ROOMS is
// not set.
var DefaultSeedRooms = []string{
	"母子室",
	"礼拝堂",
	"学生会室",
	"和室",
	"牧師室",
	"食堂",
	"キッチン",
	"小礼拝堂",
	"ゲスト室",
	"1階会議室",
	"シャワー",
}
