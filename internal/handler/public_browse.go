package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// PublicHandler exposes the unauthenticated room catalog.  These
// endpoints are read-only and sit behind the response cache and rate
// limit middleware.
type PublicHandler struct {
	RoomRepo *repository.RoomRepo
}

// NewPublicHandler constructs a new PublicHandler.
func NewPublicHandler(roomRepo *repository.RoomRepo) *PublicHandler {
	if roomRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{RoomRepo: roomRepo}
}

// ListRooms handles GET /v1/rooms.  Query parameters:
//   location  – case-insensitive substring match
//   availability – "now" or "later" (relative to available_from)
//   sort      – "low" or "high" by rent; default newest first
// Booked rooms never appear.
func (h *PublicHandler) ListRooms(c echo.Context) error {
	f := repository.BrowseFilter{
		Location:     c.QueryParam("location"),
		Availability: c.QueryParam("availability"),
		PriceSort:    c.QueryParam("sort"),
	}
	rooms, err := h.RoomRepo.ListAvailable(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roomViews(rooms)})
}

// GetRoom handles GET /v1/rooms/:id.  Unlike the list, a booked room
// is still visible here so a seeker following a stale link sees the
// "already booked" state instead of a 404.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.RoomRepo.GetByID(c.Request().Context(), roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRoomView(room)})
}
