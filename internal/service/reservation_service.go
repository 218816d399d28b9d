package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// ReservationStore is the storage the reservation operations need.
// repository.ReservationRepo and repository.MemoryReservationRepo implement it.
type ReservationStore interface {
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation) error
	Update(ctx context.Context, res *model.Reservation) error
	Delete(ctx context.Context, id uint64) error
	UpdateBatch(ctx context.Context, patches []model.ReservationPatch) ([]*model.Reservation, error)
}

// ReservationInput is the raw client input for a create or update.
type ReservationInput struct {
	Title  string
	Start  string
	End    string
	RoomID uint64 // ignored by Update
}

// BatchItem is one entry of a batch update.
type BatchItem struct {
	ID    uint64
	Title string
	Start string
	End   string
}

// Batch item outcomes.
const (
	OutcomeApplied         = "applied"
	OutcomeSkippedNotFound = "skipped_not_found"
)

// BatchResult is the outcome of one BatchItem.
type BatchResult struct {
	ID      uint64 `json:"id"`
	Outcome string `json:"outcome"`
}

// BatchReport aggregates a batch update.  Skipped items never fail the batch.
type BatchReport struct {
	Applied int           `json:"applied"`
	Skipped int           `json:"skipped"`
	Results []BatchResult `json:"results"`
}

// ReservationService applies the reservation mutation rules.  Concurrent
// writers are not coordinated: the last committed write wins.
type ReservationService struct {
	rooms        RoomStore
	reservations ReservationStore
	clock        Clock
	log          *zap.Logger
	listeners    []ChangeListener
}

// NewReservationService wires the stores, the facility clock and optional
// change listeners.
func NewReservationService(rooms RoomStore, reservations ReservationStore, clock Clock, log *zap.Logger, listeners ...ChangeListener) *ReservationService {
	if rooms == nil || reservations == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{
		rooms:        rooms,
		reservations: reservations,
		clock:        clock,
		log:          log.Named("reservations"),
		listeners:    listeners,
	}
}

// Clock returns the facility clock used for parsing and formatting.
func (s *ReservationService) Clock() Clock { return s.clock }

// ListForRoom returns a room's reservations with times in the facility zone.
// An unknown room yields an empty list.
func (s *ReservationService) ListForRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	list, err := s.reservations.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.localize(&list[i])
	}
	return list, nil
}

// Get returns one reservation or repository.ErrReservationNotFound.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.localize(res)
	return res, nil
}

// Create validates and normalizes in, checks that the room exists and
// stores the reservation.  Overlaps and start/end ordering are not checked.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*model.Reservation, error) {
	title, start, end, err := s.parse(in.Title, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if in.RoomID == 0 {
		return nil, required("room_id")
	}
	if _, err := s.rooms.GetByID(ctx, in.RoomID); err != nil {
		return nil, err
	}
	res := &model.Reservation{Title: title, Start: start, End: end, RoomID: in.RoomID}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	s.localize(res)
	s.log.Info("reservation created", zap.Uint64("reservation_id", res.ID), zap.Uint64("room_id", res.RoomID))
	s.notify(ctx, queue.ActionCreated, res, false)
	return res, nil
}

// Update overwrites title, start and end of reservation id.  The room is
// never changed.  Returns repository.ErrReservationNotFound for unknown ids.
func (s *ReservationService) Update(ctx context.Context, id uint64, in ReservationInput) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title, start, end, err := s.parse(in.Title, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	res.Title, res.Start, res.End = title, start, end
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	s.localize(res)
	s.log.Info("reservation updated", zap.Uint64("reservation_id", res.ID))
	s.notify(ctx, queue.ActionUpdated, res, false)
	return res, nil
}

// Delete removes reservation id or returns repository.ErrReservationNotFound.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("reservation deleted", zap.Uint64("reservation_id", id))
	s.notify(ctx, queue.ActionDeleted, res, false)
	return nil
}

// UpdateBatch validates every item first; one malformed item rejects the
// whole batch before anything is written.  Valid items are applied in a
// single transaction.  Unknown ids are skipped, logged and reported as
// OutcomeSkippedNotFound without failing the batch or rolling back the
// other items.  Timestamps are normalized exactly as in Update.
func (s *ReservationService) UpdateBatch(ctx context.Context, items []BatchItem) (*BatchReport, error) {
	patches := make([]model.ReservationPatch, 0, len(items))
	for _, it := range items {
		if it.ID == 0 {
			return nil, required("id")
		}
		title, start, end, err := s.parse(it.Title, it.Start, it.End)
		if err != nil {
			return nil, err
		}
		patches = append(patches, model.ReservationPatch{ID: it.ID, Title: title, Start: start, End: end})
	}

	report := &BatchReport{Results: make([]BatchResult, 0, len(items))}
	if len(patches) == 0 {
		return report, nil
	}
	updated, err := s.reservations.UpdateBatch(ctx, patches)
	if err != nil {
		return nil, err
	}
	for i, p := range patches {
		if updated[i] == nil {
			s.log.Warn("batch update: reservation not found", zap.Uint64("reservation_id", p.ID))
			report.Skipped++
			report.Results = append(report.Results, BatchResult{ID: p.ID, Outcome: OutcomeSkippedNotFound})
			continue
		}
		report.Applied++
		report.Results = append(report.Results, BatchResult{ID: p.ID, Outcome: OutcomeApplied})
	}
	s.log.Info("batch update committed", zap.Int("applied", report.Applied), zap.Int("skipped", report.Skipped))
	for _, res := range updated {
		if res != nil {
			s.localize(res)
			s.notify(ctx, queue.ActionUpdated, res, true)
		}
	}
	return report, nil
}

func (s *ReservationService) parse(title, rawStart, rawEnd string) (string, time.Time, time.Time, error) {
	if strings.TrimSpace(title) == "" {
		return "", time.Time{}, time.Time{}, required("title")
	}
	if err := checkLength("title", title, MaxTitleLength); err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	start, err := s.clock.Parse("start", rawStart)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	end, err := s.clock.Parse("end", rawEnd)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return title, start, end, nil
}

func (s *ReservationService) localize(res *model.Reservation) {
	res.Start = res.Start.In(s.clock.Location())
	res.End = res.End.In(s.clock.Location())
}
