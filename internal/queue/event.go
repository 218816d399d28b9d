// Package queue defines the reservation change feed exchanged over RabbitMQ.
package queue

// Reservation change actions.
const (
    ActionCreated = "created"
    ActionUpdated = "updated"
    ActionDeleted = "deleted"
)

// ReservationEvent is emitted after a reservation mutation commits.  Batch
// updates emit one event per applied item with Batch set.  Times are
// ISO-8601 strings in the facility timezone.
type ReservationEvent struct {
    Action        string `json:"action"`
    ReservationID uint64 `json:"reservation_id"`
    RoomID        uint64 `json:"room_id"`
    Title         string `json:"title,omitempty"`
    Start         string `json:"start,omitempty"`
    End           string `json:"end,omitempty"`
    Batch         bool   `json:"batch,omitempty"`
    OccurredAt    string `json:"occurred_at"`
}
