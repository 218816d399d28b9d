// Package repository defines the storage layer for rooms and reservations.
// The sentinel errors below let higher layers such as the service and the
// handlers distinguish absence and conflicts from storage faults.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrRoomNotFound is returned when a room id does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a reservation id does not resolve.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrRoomInUse is returned when deleting a room that still owns at least
// one reservation.
var ErrRoomInUse = errors.New("room has reservations")

// MySQL server error numbers the repositories translate.
const (
	mysqlErrRowIsReferenced = 1451 // parent row delete blocked by a foreign key
	mysqlErrNoReferencedRow = 1452 // child row insert/update with a dangling foreign key
)

// mysqlErrNumber reports the MySQL error number carried by err, or 0.
func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}
