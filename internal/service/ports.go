package service

import (
	"context"
	"time"

	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/utils"
)

// UserStore is the credential store. Create must be atomic per id: of two
// concurrent calls with the same id at most one succeeds and the other
// returns model.ErrDuplicateIdentity.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// PasswordHasher is a one-way password hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenService signs and verifies session tokens.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (utils.AccessToken, error)
	Parse(raw string) (string, error)
}

// ReservationSource lists seats that are already booked.
type ReservationSource interface {
	Occupied(ctx context.Context) ([]model.SeatRef, error)
}
