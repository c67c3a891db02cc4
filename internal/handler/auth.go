package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/middleware"
	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth   *service.Auth
	Logger *zap.Logger
}

func NewAuthHandler(a *service.Auth, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: a, Logger: logger}
}

// ----- DTOs -----

// Fields may arrive in the query string, a form body or a JSON body.
// firstname, lastname and email are accepted as older spellings.
type registerReq struct {
	FirstName    string `query:"first_name" form:"first_name" json:"first_name"`
	FirstNameOld string `query:"firstname" form:"firstname" json:"firstname"`
	LastName     string `query:"last_name" form:"last_name" json:"last_name"`
	LastNameOld  string `query:"lastname" form:"lastname" json:"lastname"`
	Birth        string `query:"birth" form:"birth" json:"birth"`
	ID           string `query:"id" form:"id" json:"id"`
	Email        string `query:"email" form:"email" json:"email"`
	Password     string `query:"password" form:"password" json:"password"`
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// loginReq accepts the OAuth2 password form (username/password) as well as
// id/password.
type loginReq struct {
	ID       string `form:"id" json:"id"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type registerResp struct {
	Detail string        `json:"detail"`
	User   model.Profile `json:"user"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Timestamp   time.Time `json:"timestamp"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func bindAll(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return err
	}
	return c.Bind(dst)
}

// Register: create user and return its profile.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAll(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	id := strings.TrimSpace(firstSet(req.ID, req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile := model.Profile{
		FirstName: firstSet(req.FirstName, req.FirstNameOld),
		LastName:  firstSet(req.LastName, req.LastNameOld),
		Birth:     req.Birth,
	}
	p, err := h.Auth.Register(ctx, id, profile, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, registerResp{Detail: "Register Success", User: p})
	case errors.Is(err, model.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "id/password required"})
	case errors.Is(err, model.ErrDuplicateIdentity):
		return c.JSON(http.StatusNotAcceptable, echo.Map{"detail": "Cannot use this email"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create user failed"})
	}
}

// Login: verify credentials and return a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = req.Username
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, tok, err := h.Auth.Login(ctx, id, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrAuthFailure) {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Incorrect email or password"})
		}
		h.Logger.Error("login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "login failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		Timestamp:   tok.IssuedAt,
		ExpiresAt:   tok.Exp,
	})
}

// Database lists every registered profile keyed by id. Digests are never
// included.
func (h *AuthHandler) Database(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profiles, err := h.Auth.Profiles(ctx)
	if err != nil {
		h.Logger.Error("list users failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	out := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p
	}
	return c.JSON(http.StatusOK, out)
}

// Me: profile of the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, c.Get(middleware.CtxUser))
}
