package seating

import (
	"fmt"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// MalformedReservationError reports an occupied seat that does not exist in
// the layout. It matches model.ErrMalformedSeat under errors.Is.
type MalformedReservationError struct {
	Seat   model.SeatRef
	Reason string
}

func (e *MalformedReservationError) Error() string {
	return fmt.Sprintf("malformed reservation %s: %s", e.Seat, e.Reason)
}

func (e *MalformedReservationError) Unwrap() error { return model.ErrMalformedSeat }

// Row is one labelled row of the grid. Free[i] is true when seat i+1 is
// available.
type Row struct {
	Label string
	Free  []bool
}

// Grid is the occupancy map of a layout at one point in time.
type Grid struct {
	layout Layout
	rows   []Row
}

// BuildMap marks every seat of the layout available, then marks each
// occupied seat taken. An occupied seat with an unknown row or a number
// outside 1..RowLength aborts the build.
func BuildMap(layout Layout, occupied []model.SeatRef) (*Grid, error) {
	idx := make(map[string]int, len(layout.Rows))
	rows := make([]Row, len(layout.Rows))
	for i, label := range layout.Rows {
		free := make([]bool, layout.RowLength)
		for j := range free {
			free[j] = true
		}
		rows[i] = Row{Label: label, Free: free}
		idx[label] = i
	}
	for _, s := range occupied {
		i, ok := idx[s.Row]
		if !ok {
			return nil, &MalformedReservationError{Seat: s, Reason: "unknown row"}
		}
		if s.Number < 1 || s.Number > layout.RowLength {
			return nil, &MalformedReservationError{
				Seat:   s,
				Reason: fmt.Sprintf("seat number outside 1..%d", layout.RowLength),
			}
		}
		rows[i].Free[s.Number-1] = false
	}
	return &Grid{layout: layout, rows: rows}, nil
}

// Rows returns a copy of the rows in layout order.
func (g *Grid) Rows() []Row {
	out := make([]Row, len(g.rows))
	for i, r := range g.rows {
		out[i] = Row{Label: r.Label, Free: append([]bool(nil), r.Free...)}
	}
	return out
}

// Available reports whether the seat exists and is free.
func (g *Grid) Available(s model.SeatRef) bool {
	for _, r := range g.rows {
		if r.Label == s.Row {
			return s.Number >= 1 && s.Number <= len(r.Free) && r.Free[s.Number-1]
		}
	}
	return false
}
