package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/queue"
	"github.com/iliyamo/seat-suggest/internal/utils"
)

// Auth registers users, checks passwords and mints and resolves session
// tokens.
type Auth struct {
	users     UserStore
	hasher    PasswordHasher
	tokens    TokenService
	events    queue.Publisher
	logger    *zap.Logger
	accessTTL time.Duration
}

func NewAuth(users UserStore, hasher PasswordHasher, tokens TokenService, events queue.Publisher, logger *zap.Logger, accessTTL time.Duration) *Auth {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &Auth{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		events:    events,
		logger:    logger,
		accessTTL: accessTTL,
	}
}

// Register stores a new user and returns its profile. The id in profile is
// ignored in favour of id.
func (a *Auth) Register(ctx context.Context, id string, profile model.Profile, password string) (model.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return model.Profile{}, model.ErrInvalidCredentials
	}

	digest, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("auth: hash password failed", zap.String("user_id", id), zap.Error(err))
		return model.Profile{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:           id,
		FirstName:    strings.TrimSpace(profile.FirstName),
		LastName:     strings.TrimSpace(profile.LastName),
		Birth:        strings.TrimSpace(profile.Birth),
		PasswordHash: digest,
	}
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrDuplicateIdentity) {
			a.logger.Info("auth: user already exists", zap.String("user_id", id))
			return model.Profile{}, err
		}
		a.logger.Error("auth: create user failed", zap.String("user_id", id), zap.Error(err))
		return model.Profile{}, fmt.Errorf("create user: %w", err)
	}

	a.logger.Info("auth: user registered", zap.String("user_id", id))
	a.publish(ctx, queue.AuditEvent{Kind: queue.KindUserRegistered, UserID: id})
	return u.Profile(), nil
}

// Authenticate returns the user when id and password match. Unknown ids and
// wrong passwords both yield model.ErrAuthFailure.
func (a *Auth) Authenticate(ctx context.Context, id, password string) (model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return model.User{}, model.ErrAuthFailure
	}
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Debug("auth: login for unknown id", zap.String("user_id", id))
			return model.User{}, model.ErrAuthFailure
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	if !a.hasher.Verify(password, u.PasswordHash) {
		a.logger.Debug("auth: password mismatch", zap.String("user_id", id))
		return model.User{}, model.ErrAuthFailure
	}
	return u, nil
}

// IssueToken mints a token for userID valid for ttl.
func (a *Auth) IssueToken(userID string, ttl time.Duration) (utils.AccessToken, error) {
	return a.tokens.Issue(userID, ttl)
}

// Login authenticates and issues a token with the configured TTL.
func (a *Auth) Login(ctx context.Context, id, password string) (model.User, utils.AccessToken, error) {
	u, err := a.Authenticate(ctx, id, password)
	if err != nil {
		return model.User{}, utils.AccessToken{}, err
	}
	tok, err := a.IssueToken(u.ID, a.accessTTL)
	if err != nil {
		a.logger.Error("auth: issue token failed", zap.String("user_id", u.ID), zap.Error(err))
		return model.User{}, utils.AccessToken{}, err
	}
	return u, tok, nil
}

// ResolveToken verifies raw and loads its subject. A subject that no longer
// exists yields model.ErrSubjectMissing.
func (a *Auth) ResolveToken(ctx context.Context, raw string) (model.User, error) {
	sub, err := a.tokens.Parse(raw)
	if err != nil {
		return model.User{}, err
	}
	u, err := a.users.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrSubjectMissing, sub)
		}
		return model.User{}, fmt.Errorf("load token subject: %w", err)
	}
	return u, nil
}

// Profiles lists every stored user without password digests.
func (a *Auth) Profiles(ctx context.Context) ([]model.Profile, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]model.Profile, len(users))
	for i, u := range users {
		out[i] = u.Profile()
	}
	return out, nil
}

func (a *Auth) publish(ctx context.Context, ev queue.AuditEvent) {
	if err := a.events.Publish(ctx, ev); err != nil {
		a.logger.Warn("auth: publish audit event failed", zap.String("kind", ev.Kind), zap.Error(err))
	}
}
