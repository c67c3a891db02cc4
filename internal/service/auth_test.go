package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/queue"
	"github.com/iliyamo/seat-suggest/internal/utils"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newAuth(t *testing.T) (*Auth, *memUsers, *recordingPublisher, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	users := newMemUsers()
	pub := &recordingPublisher{}
	a := NewAuth(users, utils.NewHasher(bcrypt.MinCost), utils.NewTokens("secret", utils.WithClock(c.Now)), pub, zap.NewNop(), 30*time.Minute)
	return a, users, pub, c
}

func TestAuth_RegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	a, users, pub, _ := newAuth(t)

	p, err := a.Register(ctx, " ann@example.com ", model.Profile{FirstName: "Ann", LastName: "Lee", Birth: "1990-01-01"}, "pw")
	require.NoError(t, err)
	assert.Equal(t, model.Profile{ID: "ann@example.com", FirstName: "Ann", LastName: "Lee", Birth: "1990-01-01"}, p)

	stored := users.users["ann@example.com"]
	assert.NotEqual(t, "pw", stored.PasswordHash)
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.KindUserRegistered, pub.events[0].Kind)
	assert.Equal(t, "ann@example.com", pub.events[0].UserID)

	u, err := a.Authenticate(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.ID)

	_, err = a.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, model.ErrAuthFailure)
	_, err = a.Authenticate(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestAuth_RegisterDuplicateKeepsFirst(t *testing.T) {
	ctx := context.Background()
	a, users, pub, _ := newAuth(t)

	_, err := a.Register(ctx, "ann@example.com", model.Profile{FirstName: "Ann"}, "pw")
	require.NoError(t, err)
	first := users.users["ann@example.com"]

	_, err = a.Register(ctx, "ann@example.com", model.Profile{FirstName: "Impostor"}, "other")
	assert.ErrorIs(t, err, model.ErrDuplicateIdentity)
	assert.Equal(t, first, users.users["ann@example.com"])
	assert.Len(t, pub.events, 1)

	_, err = a.Authenticate(ctx, "ann@example.com", "other")
	assert.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestAuth_RegisterConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	a, _, _, _ := newAuth(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		dups int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Register(ctx, "race@x", model.Profile{}, "pw")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if errors.Is(err, model.ErrDuplicateIdentity) {
				dups++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, dups)
}

func TestAuth_RegisterValidation(t *testing.T) {
	a, _, _, _ := newAuth(t)
	_, err := a.Register(context.Background(), "  ", model.Profile{}, "pw")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = a.Register(context.Background(), "a@x", model.Profile{}, "")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_RegisterStoreFailure(t *testing.T) {
	a, users, _, _ := newAuth(t)
	users.err = errStoreDown

	_, err := a.Register(context.Background(), "a@x", model.Profile{}, "pw")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, model.ErrDuplicateIdentity)
}

func TestAuth_PublishFailureDoesNotFailRegister(t *testing.T) {
	a, _, pub, _ := newAuth(t)
	pub.err = errors.New("broker down")

	_, err := a.Register(context.Background(), "a@x", model.Profile{}, "pw")
	assert.NoError(t, err)
}

func TestAuth_TokenLifecycle(t *testing.T) {
	ctx := context.Background()
	a, _, _, c := newAuth(t)
	_, err := a.Register(ctx, "ann@example.com", model.Profile{FirstName: "Ann"}, "pw")
	require.NoError(t, err)

	u, tok, err := a.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.ID)
	assert.Equal(t, c.t.Add(30*time.Minute), tok.Exp)

	got, err := a.ResolveToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.ID)

	c.t = c.t.Add(31 * time.Minute)
	_, err = a.ResolveToken(ctx, tok.Token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestAuth_ResolveTokenErrors(t *testing.T) {
	ctx := context.Background()
	a, users, _, _ := newAuth(t)

	ghost, err := a.IssueToken("ghost@example.com", time.Minute)
	require.NoError(t, err)
	_, err = a.ResolveToken(ctx, ghost.Token)
	assert.ErrorIs(t, err, model.ErrSubjectMissing)

	_, err = a.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, model.ErrTokenMalformed)

	foreign, err := utils.NewTokens("other").Issue("ghost@example.com", time.Minute)
	require.NoError(t, err)
	_, err = a.ResolveToken(ctx, foreign.Token)
	assert.ErrorIs(t, err, model.ErrTokenSignature)

	users.err = errStoreDown
	_, err = a.ResolveToken(ctx, ghost.Token)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, model.ErrSubjectMissing)
}

func TestAuth_LoginFailure(t *testing.T) {
	a, _, _, _ := newAuth(t)
	_, _, err := a.Login(context.Background(), "nobody@x", "pw")
	assert.ErrorIs(t, err, model.ErrAuthFailure)
	_, _, err = a.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestAuth_Profiles(t *testing.T) {
	ctx := context.Background()
	a, _, _, _ := newAuth(t)
	_, err := a.Register(ctx, "b@x", model.Profile{FirstName: "B"}, "pw")
	require.NoError(t, err)
	_, err = a.Register(ctx, "a@x", model.Profile{FirstName: "A"}, "pw")
	require.NoError(t, err)

	profiles, err := a.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Profile{{ID: "a@x", FirstName: "A"}, {ID: "b@x", FirstName: "B"}}, profiles)
}
