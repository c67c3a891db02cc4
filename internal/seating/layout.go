// Package seating builds occupancy grids from reservation data and searches
// them for contiguous groups of free seats.
package seating

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// GroupRule reports whether a window of 1-based seat positions within one
// row is an acceptable group. Positions are ascending and contiguous.
type GroupRule func(positions []int) bool

// AllowAll accepts every window.
func AllowAll([]int) bool { return true }

// AisleGuard describes one aisle: a window that takes both Inner seats must
// also take both Outer seats, otherwise it strands a single seat on one side.
type AisleGuard struct {
	Inner [2]int
	Outer [2]int
}

// DefaultGuard is the aisle of the reference eight-seat row.
var DefaultGuard = AisleGuard{Inner: [2]int{4, 5}, Outer: [2]int{3, 6}}

// GuardRule combines guards into a GroupRule. A window passes only if every
// guard accepts it.
func GuardRule(guards ...AisleGuard) GroupRule {
	gs := append([]AisleGuard(nil), guards...)
	return func(positions []int) bool {
		for _, g := range gs {
			if contains(positions, g.Inner[0]) && contains(positions, g.Inner[1]) {
				if !contains(positions, g.Outer[0]) || !contains(positions, g.Outer[1]) {
					return false
				}
			}
		}
		return true
	}
}

func contains(positions []int, p int) bool {
	// windows are contiguous and ascending
	return len(positions) > 0 && p >= positions[0] && p <= positions[len(positions)-1]
}

// ParseGuards reads guards written as "inner-inner:outer-outer", separated
// by semicolons, e.g. "4-5:3-6;10-11:9-12". An empty string yields no guards.
func ParseGuards(s string) ([]AisleGuard, error) {
	var out []AisleGuard
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		inner, outer, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("aisle guard %q: want inner:outer", part)
		}
		in, err := parsePair(inner)
		if err != nil {
			return nil, fmt.Errorf("aisle guard %q: %w", part, err)
		}
		ou, err := parsePair(outer)
		if err != nil {
			return nil, fmt.Errorf("aisle guard %q: %w", part, err)
		}
		out = append(out, AisleGuard{Inner: in, Outer: ou})
	}
	return out, nil
}

func parsePair(s string) ([2]int, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return [2]int{}, fmt.Errorf("pair %q: want a-b", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return [2]int{}, fmt.Errorf("pair %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return [2]int{}, fmt.Errorf("pair %q: %w", s, err)
	}
	return [2]int{x, y}, nil
}

// Layout is the fixed seating configuration of a venue: the ordered row
// labels, the number of seats in every row and the rule that decides which
// windows are acceptable groups.
type Layout struct {
	Rows      []string
	RowLength int
	Rule      GroupRule
}

// DefaultLayout returns rows A..E with eight seats each and the reference
// aisle guard.
func DefaultLayout() Layout {
	return Layout{
		Rows:      []string{"A", "B", "C", "D", "E"},
		RowLength: 8,
		Rule:      GuardRule(DefaultGuard),
	}
}

// NewLayout validates the configuration and builds a Layout whose rule is
// the conjunction of guards. With no guards every window is acceptable.
func NewLayout(rows []string, rowLength int, guards ...AisleGuard) (Layout, error) {
	if len(rows) == 0 {
		return Layout{}, errors.New("layout: no rows")
	}
	if rowLength <= 0 {
		return Layout{}, fmt.Errorf("layout: row length %d", rowLength)
	}
	seen := make(map[string]bool, len(rows))
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" {
			return Layout{}, errors.New("layout: empty row label")
		}
		if seen[r] {
			return Layout{}, fmt.Errorf("layout: duplicate row %q", r)
		}
		seen[r] = true
		labels = append(labels, r)
	}
	for _, g := range guards {
		for _, p := range []int{g.Inner[0], g.Inner[1], g.Outer[0], g.Outer[1]} {
			if p < 1 || p > rowLength {
				return Layout{}, fmt.Errorf("layout: guard seat %d outside 1..%d", p, rowLength)
			}
		}
	}
	rule := GroupRule(AllowAll)
	if len(guards) > 0 {
		rule = GuardRule(guards...)
	}
	return Layout{Rows: labels, RowLength: rowLength, Rule: rule}, nil
}

func (l Layout) rule() GroupRule {
	if l.Rule == nil {
		return AllowAll
	}
	return l.Rule
}
