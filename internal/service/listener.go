package service

import (
	"context"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// ChangeListener is notified after a reservation mutation has been
// committed.  Implementations must not fail the request; they log their own
// errors.
type ChangeListener interface {
	OnReservationChange(ctx context.Context, ev queue.ReservationEvent)
}

func (s *ReservationService) notify(ctx context.Context, action string, res *model.Reservation, batch bool) {
	if len(s.listeners) == 0 {
		return
	}
	ev := queue.ReservationEvent{
		Action:        action,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		Title:         res.Title,
		Start:         s.clock.Format(res.Start),
		End:           s.clock.Format(res.End),
		Batch:         batch,
		OccurredAt:    time.Now().In(s.clock.Location()).Format(TimestampLayout),
	}
	for _, l := range s.listeners {
		l.OnReservationChange(ctx, ev)
	}
}
