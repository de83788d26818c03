package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/model"
)

// BookingLifecycle is the surface of the lifecycle engine that
// handlers invoke.  It is an interface so handler tests can drive
// the endpoints with a fake engine.
type BookingLifecycle interface {
	Create(ctx context.Context, roomID, seekerID uint64) (model.BookingRequest, bool, error)
	Accept(ctx context.Context, requestID, ownerID uint64) error
	Reject(ctx context.Context, requestID, ownerID uint64) error
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
