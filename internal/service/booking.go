package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/queue"
	"github.com/iliyamo/seat-suggest/internal/seating"
)

// Booking answers seat suggestions from a fresh grid per call.
type Booking struct {
	source ReservationSource
	layout seating.Layout
	events queue.Publisher
	logger *zap.Logger
}

func NewBooking(source ReservationSource, layout seating.Layout, events queue.Publisher, logger *zap.Logger) *Booking {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &Booking{source: source, layout: layout, events: events, logger: logger}
}

// Suggest returns every acceptable group of size adjacent free seats.
// size <= 0 returns seating.ErrInvalidSize without reading reservations;
// bad reservation data returns an error matching model.ErrMalformedSeat.
func (b *Booking) Suggest(ctx context.Context, userID string, size int) ([]seating.SeatGroup, error) {
	if size <= 0 {
		return nil, seating.ErrInvalidSize
	}
	occupied, err := b.source.Occupied(ctx)
	if err != nil {
		b.logger.Error("booking: load reservations failed", zap.Error(err))
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	grid, err := seating.BuildMap(b.layout, occupied)
	if err != nil {
		b.logger.Error("booking: build seat map failed", zap.Error(err))
		return nil, err
	}
	groups, err := seating.FindGroups(grid, size)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("booking: suggested seats",
		zap.String("user_id", userID), zap.Int("seat_count", size), zap.Int("groups", len(groups)))
	if err := b.events.Publish(ctx, queue.AuditEvent{
		Kind:      queue.KindSeatsSuggested,
		UserID:    userID,
		SeatCount: size,
		Groups:    len(groups),
	}); err != nil {
		b.logger.Warn("booking: publish audit event failed", zap.Error(err))
	}
	return groups, nil
}
