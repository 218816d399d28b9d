package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo provides CRUD operations for rooms on MySQL.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, created_at, updated_at`

// List returns every room in insertion order.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a room.  It returns ErrRoomNotFound when no row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id).
		Scan(&rm.ID, &rm.Name, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// Create inserts a room and reads it back so the ID and timestamps are set.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO rooms (name) VALUES (?)`, rm.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, rm.ID).
		Scan(&rm.ID, &rm.Name, &rm.CreatedAt, &rm.UpdatedAt)
}

// Rename sets a room's name.  A zero row count is ambiguous on MySQL (the
// name may simply be unchanged) so existence is checked before reporting
// ErrRoomNotFound.
func (r *RoomRepo) Rename(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE rooms SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// DeleteIfUnused removes a room only when no reservation references it.
// The room row is locked for the duration of the check so a concurrent
// insert cannot slip in between the count and the delete.  Returns
// ErrRoomNotFound or ErrRoomInUse when nothing is deleted.
func (r *RoomRepo) DeleteIfUnused(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, id).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	var resCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE room_id = ?`, id).Scan(&resCount); err != nil {
		return err
	}
	if resCount > 0 {
		return ErrRoomInUse
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		if mysqlErrNumber(err) == mysqlErrRowIsReferenced {
			return ErrRoomInUse
		}
		return err
	}
	return tx.Commit()
}

// Count returns the number of rooms.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}
