package seating

import (
	"errors"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// ErrInvalidSize is returned for a requested group size below one.
var ErrInvalidSize = errors.New("group size must be positive")

// SeatGroup is a run of adjacent seats in one row, left to right.
type SeatGroup []model.SeatRef

// Labels returns the seat identifiers of the group.
func (g SeatGroup) Labels() []string {
	out := make([]string, len(g))
	for i, s := range g {
		out[i] = s.String()
	}
	return out
}

// FindGroups lists every window of size free seats that the layout's rule
// accepts. Rows are visited in layout order and windows left to right;
// overlapping windows are all reported. The grid is not modified.
func FindGroups(grid *Grid, size int) ([]SeatGroup, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	rule := grid.layout.rule()
	groups := []SeatGroup{}
	for _, row := range grid.rows {
		for _, positions := range windows(row.Free, size) {
			if !rule(positions) {
				continue
			}
			g := make(SeatGroup, len(positions))
			for i, p := range positions {
				g[i] = model.SeatRef{Row: row.Label, Number: p}
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// windows returns the 1-based positions of every all-free span of length
// size in free.
func windows(free []bool, size int) [][]int {
	var out [][]int
	run := 0
	for i, f := range free {
		if !f {
			run = 0
			continue
		}
		run++
		if run < size {
			continue
		}
		start := i - size + 2
		positions := make([]int, size)
		for k := range positions {
			positions[k] = start + k
		}
		out = append(out, positions)
	}
	return out
}
