package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatRef identifies a seat by row label and 1-based seat number. Its text
// form is the label immediately followed by the number, e.g. "A3" or "AA12".
type SeatRef struct {
	Row    string
	Number int
}

// String returns the seat identifier ("A3").
func (s SeatRef) String() string {
	return s.Row + strconv.Itoa(s.Number)
}

// MarshalText encodes the seat as its identifier so that JSON renders seat
// groups as plain string arrays.
func (s SeatRef) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a seat identifier.
func (s *SeatRef) UnmarshalText(b []byte) error {
	ref, err := ParseSeatRef(string(b))
	if err != nil {
		return err
	}
	*s = ref
	return nil
}

// ParseSeatRef splits an identifier like "B7" into its row label and seat
// number. The label is a leading run of ASCII letters and the remainder must
// be a plain decimal number without sign or leading zeros. Range checks
// against a layout are left to the caller.
func ParseSeatRef(s string) (SeatRef, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	digits := s[i:]
	if i == 0 || !isNumber(digits) {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrMalformedSeat, s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrMalformedSeat, s)
	}
	return SeatRef{Row: strings.ToUpper(s[:i]), Number: n}, nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNumber(d string) bool {
	if d == "" || (len(d) > 1 && d[0] == '0') {
		return false
	}
	for i := 0; i < len(d); i++ {
		if d[i] < '0' || d[i] > '9' {
			return false
		}
	}
	return true
}
