package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatRef(t *testing.T) {
	tests := []struct {
		in      string
		want    SeatRef
		wantErr bool
	}{
		{in: "A3", want: SeatRef{Row: "A", Number: 3}},
		{in: "AA12", want: SeatRef{Row: "AA", Number: 12}},
		{in: "a3", want: SeatRef{Row: "A", Number: 3}},
		{in: " c8 ", want: SeatRef{Row: "C", Number: 8}},
		{in: "A0", want: SeatRef{Row: "A", Number: 0}},
		{in: "3A", wantErr: true},
		{in: "A", wantErr: true},
		{in: "A+3", wantErr: true},
		{in: "A-3", wantErr: true},
		{in: "a03", wantErr: true},
		{in: "A3x", wantErr: true},
		{in: "Ä3", wantErr: true},
		{in: "A99999999999999999999", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeatRef(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedSeat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeatRef_TextRoundTrip(t *testing.T) {
	for _, s := range []SeatRef{{Row: "A", Number: 1}, {Row: "E", Number: 8}, {Row: "AB", Number: 120}} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, s.String(), string(b))

		var back SeatRef
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}

	var group []SeatRef
	require.NoError(t, json.Unmarshal([]byte(`["B2","B3"]`), &group))
	assert.Equal(t, []SeatRef{{Row: "B", Number: 2}, {Row: "B", Number: 3}}, group)
	out, err := json.Marshal(group)
	require.NoError(t, err)
	assert.JSONEq(t, `["B2","B3"]`, string(out))

	var bad SeatRef
	assert.ErrorIs(t, bad.UnmarshalText([]byte("+1")), ErrMalformedSeat)
}
