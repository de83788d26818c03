package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// OwnerBookingHandler lets owners review and decide booking requests.
// The accept/reject decisions go through the lifecycle engine so the
// exclusivity transition and its notification fan-out stay atomic;
// the list view is a read-only projection.
type OwnerBookingHandler struct {
	Lifecycle   BookingLifecycle
	BookingRepo *repository.BookingRepo
}

// NewOwnerBookingHandler constructs a new OwnerBookingHandler.
func NewOwnerBookingHandler(lc BookingLifecycle, bookingRepo *repository.BookingRepo) *OwnerBookingHandler {
	if lc == nil || bookingRepo == nil {
		panic("nil dependency passed to NewOwnerBookingHandler")
	}
	return &OwnerBookingHandler{Lifecycle: lc, BookingRepo: bookingRepo}
}

// ListRequests handles GET /v1/booking-requests.  It returns every
// request addressed to the owner joined with room and seeker display
// info; deleted rooms or users show up as placeholders, never as an
// error.
func (h *OwnerBookingHandler) ListRequests(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AcceptRequest handles POST /v1/booking-requests/:id/accept.  A
// request that already left PENDING (owner double-click, second tab)
// returns 200 as a no-op; the engine guarantees no duplicate writes
// or notifications in that case.
func (h *OwnerBookingHandler) AcceptRequest(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	if err := h.Lifecycle.Accept(c.Request().Context(), requestID, ownerID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room no longer available"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to accept request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "accepted"})
}

// RejectRequest handles POST /v1/booking-requests/:id/reject.
// Re-invocation on an already rejected request is a no-op.
func (h *OwnerBookingHandler) RejectRequest(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	if err := h.Lifecycle.Reject(c.Request().Context(), requestID, ownerID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reject request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "rejected"})
}
