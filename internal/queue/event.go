// Package queue defines audit events exchanged over the message broker and
// the publisher and consumer that carry them.
package queue

// Event kinds.
const (
	KindUserRegistered = "user.registered"
	KindSeatsSuggested = "seats.suggested"
)

// AuditEvent is published after a registration or a seat suggestion. Only
// the fields relevant to Kind are set.
type AuditEvent struct {
	Kind       string `json:"kind"`
	UserID     string `json:"user_id"`
	SeatCount  int    `json:"seat_count,omitempty"`
	Groups     int    `json:"groups,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
