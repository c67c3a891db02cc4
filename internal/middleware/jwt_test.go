package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/model"
)

type fakeResolver map[string]error

func (f fakeResolver) ResolveToken(_ context.Context, raw string) (model.User, error) {
	if err, ok := f[raw]; ok {
		return model.User{}, err
	}
	return model.User{ID: "ann@example.com", FirstName: "Ann", PasswordHash: "digest"}, nil
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, CurrentUserID(c)) })
	require.NoError(t, h(c))
	return rec, c
}

func TestBearerAuth_Valid(t *testing.T) {
	rec, c := serve(t, BearerAuth(fakeResolver{}, zap.NewNop()), "Bearer good")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", rec.Body.String())
	assert.Equal(t, model.Profile{ID: "ann@example.com", FirstName: "Ann"}, c.Get(CtxUser))
}

func TestBearerAuth_Rejected(t *testing.T) {
	resolver := fakeResolver{
		"expired": fmt.Errorf("%w: x", model.ErrTokenExpired),
		"forged":  model.ErrTokenSignature,
		"junk":    model.ErrTokenMalformed,
		"ghost":   fmt.Errorf("%w: ghost", model.ErrSubjectMissing),
	}
	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "Bearer expired", "bearer forged", "Bearer junk", "Bearer ghost"} {
		t.Run(header, func(t *testing.T) {
			rec, _ := serve(t, BearerAuth(resolver, zap.NewNop()), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, rec.Body.String())
		})
	}
}

func TestBearerAuth_StoreFailure(t *testing.T) {
	rec, _ := serve(t, BearerAuth(fakeResolver{"x": errors.New("db down")}, zap.NewNop()), "Bearer x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBearerToken(t *testing.T) {
	raw, ok := bearerToken("  Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", raw)

	_, ok = bearerToken("Token abc")
	assert.False(t, ok)
}
