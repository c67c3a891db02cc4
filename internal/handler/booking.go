package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/middleware"
	"github.com/iliyamo/seat-suggest/internal/model"
	"github.com/iliyamo/seat-suggest/internal/seating"
	"github.com/iliyamo/seat-suggest/internal/service"
)

// BookingHandler serves seat suggestions.
type BookingHandler struct {
	Booking *service.Booking
	Logger  *zap.Logger
}

func NewBookingHandler(b *service.Booking, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Booking: b, Logger: logger}
}

// SuggestBooking: GET /suggest-booking?seat=N.  seat_count is accepted as
// an alias.  Non-positive counts and empty results are normal 200 answers.
func (h *BookingHandler) SuggestBooking(c echo.Context) error {
	raw := c.QueryParam("seat")
	if raw == "" {
		raw = c.QueryParam("seat_count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"details": "invalid input"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Booking.Suggest(ctx, middleware.CurrentUserID(c), n)
	switch {
	case errors.Is(err, seating.ErrInvalidSize):
		return c.JSON(http.StatusOK, echo.Map{"details": "invalid input"})
	case errors.Is(err, model.ErrMalformedSeat):
		return c.JSON(http.StatusInternalServerError, echo.Map{"details": "reservation data is corrupt"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"details": "seat lookup failed"})
	case len(groups) == 0:
		return c.JSON(http.StatusOK, echo.Map{"details": "Unavailable seat right now"})
	}
	return c.JSON(http.StatusOK, echo.Map{"all_possible_seat": groups})
}
