package model

import "time"

// Reservation is a titled time interval bound to exactly one room.
// Start and End are instants; the store keeps them in UTC and the service
// relabels them into the facility timezone.  Start < End is not enforced.
//
// Fields:
//  ID        – primary key identifier, assigned by storage.
//  Title     – display label, never empty.
//  Start     – beginning of the booking.
//  End       – end of the booking.
//  RoomID    – room the booking belongs to.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
    ID        uint64    // reservations.id
    Title     string    // reservations.title
    Start     time.Time // reservations.start_at
    End       time.Time // reservations.end_at
    RoomID    uint64    // reservations.room_id
    CreatedAt time.Time // reservations.created_at
    UpdatedAt time.Time // reservations.updated_at
}

// ReservationPatch carries the mutable fields of one reservation inside a
// batch update.
type ReservationPatch struct {
    ID    uint64
    Title string
    Start time.Time
    End   time.Time
}
