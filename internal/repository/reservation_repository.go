package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// ReservationRepo reads booked seats from the MySQL 'reserved_seats' table.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// Occupied returns every booked seat ordered by row and number. Rows are
// returned as stored; range checking belongs to the seat map builder.
func (r *ReservationRepo) Occupied(ctx context.Context) ([]model.SeatRef, error) {
	const q = `SELECT row_label, seat_number
	           FROM reserved_seats
	           ORDER BY row_label, seat_number`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list reserved seats: %w", err)
	}
	defer rows.Close()

	var out []model.SeatRef
	for rows.Next() {
		var s model.SeatRef
		if err := rows.Scan(&s.Row, &s.Number); err != nil {
			return nil, err
		}
		s.Row = strings.ToUpper(strings.TrimSpace(s.Row))
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reserve records a booked seat. It is used to seed the table; concurrent
// booking is handled by the unique key, not by this service.
func (r *ReservationRepo) Reserve(ctx context.Context, s model.SeatRef) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reserved_seats (row_label, seat_number) VALUES (?,?)",
		strings.ToUpper(s.Row), s.Number)
	if err != nil {
		return fmt.Errorf("reserve seat %s: %w", s, err)
	}
	return nil
}

// Seed reserves every seat not booked yet and returns how many were new.
// Seats already present are skipped.
func (r *ReservationRepo) Seed(ctx context.Context, seats []model.SeatRef) (int, error) {
	added := 0
	for _, s := range seats {
		err := r.Reserve(ctx, s)
		var myErr *mysql.MySQLError
		switch {
		case err == nil:
			added++
		case errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry:
		default:
			return added, err
		}
	}
	return added, nil
}
