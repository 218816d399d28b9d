package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations on MySQL.  All
// timestamps are written and read in UTC; presentation in the facility
// timezone is the caller's job.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, title, start_at, end_at, room_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner, res *model.Reservation) error {
	return s.Scan(&res.ID, &res.Title, &res.Start, &res.End, &res.RoomID, &res.CreatedAt, &res.UpdatedAt)
}

// ListByRoom returns the reservations of one room ordered by id.  An unknown
// room yields an empty slice, not an error.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE room_id = ? ORDER BY id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id), &res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Create inserts a reservation and reads the row back to populate the ID and
// timestamps.  A dangling room_id rejected by the foreign key is reported as
// ErrRoomNotFound.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (title, start_at, end_at, room_id) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.Title, res.Start.UTC(), res.End.UTC(), res.RoomID)
	if err != nil {
		if mysqlErrNumber(err) == mysqlErrNoReferencedRow {
			return ErrRoomNotFound
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID), res)
}

// Update overwrites title, start and end of an existing reservation.  Returns
// ErrReservationNotFound when the id does not resolve.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	return updateReservation(ctx, r.db, res)
}

// Delete removes a reservation.  Returns ErrReservationNotFound when no row
// was deleted.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// UpdateBatch applies every patch inside one transaction and commits once at
// the end.  The returned slice is parallel to patches: the updated
// reservation for each applied patch, nil for a patch whose id does not
// resolve.  Unknown ids never abort the batch; storage errors roll back
// everything.
func (r *ReservationRepo) UpdateBatch(ctx context.Context, patches []model.ReservationPatch) ([]*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]*model.Reservation, len(patches))
	for i, p := range patches {
		var cur model.Reservation
		err := scanReservation(tx.QueryRowContext(ctx,
			`SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, p.ID), &cur)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cur.Title, cur.Start, cur.End = p.Title, p.Start, p.End
		if err := updateReservation(ctx, tx, &cur); err != nil {
			return nil, err
		}
		out[i] = &cur
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func updateReservation(ctx context.Context, q execQuerier, res *model.Reservation) error {
	const qUpdate = `UPDATE reservations SET title = ?, start_at = ?, end_at = ? WHERE id = ?`
	result, err := q.ExecContext(ctx, qUpdate, res.Title, res.Start.UTC(), res.End.UTC(), res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows also means "values unchanged" on MySQL.
	var one int
	if err := q.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ? LIMIT 1`, res.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	return nil
}
