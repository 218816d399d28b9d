package model

import "time"

// Room is a bookable space in the facility.  Names are labels only and are
// not required to be unique.
//
// Fields:
//  ID        – primary key identifier, assigned by storage.
//  Name      – display label, never empty.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
    ID        uint64    `json:"id"`   // rooms.id
    Name      string    `json:"name"` // rooms.name
    CreatedAt time.Time `json:"-"`    // rooms.created_at
    UpdatedAt time.Time `json:"-"`    // rooms.updated_at
}
