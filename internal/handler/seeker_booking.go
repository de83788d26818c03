package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/lifecycle"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// SeekerBookingHandler lets seekers send booking requests and follow
// their status.
type SeekerBookingHandler struct {
	Lifecycle   BookingLifecycle
	BookingRepo *repository.BookingRepo
}

// NewSeekerBookingHandler constructs a new SeekerBookingHandler.
func NewSeekerBookingHandler(lc BookingLifecycle, bookingRepo *repository.BookingRepo) *SeekerBookingHandler {
	if lc == nil || bookingRepo == nil {
		panic("nil dependency passed to NewSeekerBookingHandler")
	}
	return &SeekerBookingHandler{Lifecycle: lc, BookingRepo: bookingRepo}
}

// CreateRequest handles POST /v1/rooms/:id/request.  Creation is
// idempotent: re-clicking while a request is still pending returns
// the existing request with a 200 instead of inserting a duplicate.
func (h *SeekerBookingHandler) CreateRequest(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	req, created, err := h.Lifecycle.Create(c.Request().Context(), roomID, seekerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room no longer available"})
		}
		if errors.Is(err, lifecycle.ErrRoomBooked) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "this room was just booked by someone else"})
		}
		if errors.Is(err, lifecycle.ErrOwnRoom) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you cannot request your own room"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking request"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"id":     req.ID,
		"status": req.Status,
	})
}

// ListMyRequests handles GET /v1/my-requests: the seeker's requests
// joined with room display info, newest first.
func (h *SeekerBookingHandler) ListMyRequests(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListBySeeker(c.Request().Context(), seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
