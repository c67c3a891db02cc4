package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/seat-suggest/internal/model"
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are sent by clients in the
// Authorization header when calling protected endpoints.
type AccessToken struct {
	Token    string    // the serialized JWT string
	IssuedAt time.Time // the UTC issuance time
	Exp      time.Time // the UTC expiration time
}

// Tokens issues and verifies HS256 session tokens.  The secret and the
// clock are fixed at construction; there is no package-level state.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customises a Tokens value.
type TokenOption func(*Tokens)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) { t.now = now }
}

// NewTokens builds a token service signing with secret.
func NewTokens(secret string, opts ...TokenOption) *Tokens {
	t := &Tokens{secret: []byte(secret), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Issue builds and signs a JWT whose subject is the user id and whose
// expiry is now + ttl.  The token carries the standard sub, iat and exp
// claims only.
func (t *Tokens) Issue(subject string, ttl time.Duration) (AccessToken, error) {
	if subject == "" {
		return AccessToken{}, errors.New("issue token: empty subject")
	}
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return AccessToken{Token: signed, IssuedAt: now, Exp: exp}, nil
}

// Parse verifies signature and expiry and returns the subject.  Failures
// map onto model.ErrTokenExpired, model.ErrTokenSignature and
// model.ErrTokenMalformed.
func (t *Tokens) Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.ErrTokenMalformed
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC so "none" or RSA tokens never validate.
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "", fmt.Errorf("%w: %v", model.ErrTokenSignature, err)
	default:
		return "", fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
	if !tok.Valid {
		return "", model.ErrTokenMalformed
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", model.ErrTokenMalformed)
	}
	return claims.Subject, nil
}
