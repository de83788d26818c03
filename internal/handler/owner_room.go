package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// OwnerRoomHandler exposes room listing management for owners.  All
// methods assume JWT authentication and the OWNER role have been
// verified by middleware.
type OwnerRoomHandler struct {
	RoomRepo *repository.RoomRepo
}

// NewOwnerRoomHandler constructs a new OwnerRoomHandler.
func NewOwnerRoomHandler(roomRepo *repository.RoomRepo) *OwnerRoomHandler {
	if roomRepo == nil {
		panic("nil repository passed to NewOwnerRoomHandler")
	}
	return &OwnerRoomHandler{RoomRepo: roomRepo}
}

type roomReq struct {
	Title         string `json:"title"`
	Location      string `json:"location"`
	RentCents     uint64 `json:"rent_cents"`
	Image         string `json:"image"`
	AvailableFrom string `json:"available_from"` // RFC3339 date, optional
}

func (r *roomReq) validate() (availableFrom *time.Time, msg string) {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Title == "" {
		return nil, "title is required"
	}
	if r.Location == "" {
		return nil, "location is required"
	}
	if r.RentCents == 0 {
		return nil, "rent_cents must be positive"
	}
	if s := strings.TrimSpace(r.AvailableFrom); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, s); err != nil {
				return nil, "available_from must be a date (YYYY-MM-DD)"
			}
		}
		u := t.UTC()
		availableFrom = &u
	}
	return availableFrom, ""
}

// CreateRoom handles POST /v1/rooms.  New listings start AVAILABLE.
func (h *OwnerRoomHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	availableFrom, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	room := model.Room{
		OwnerID:       ownerID,
		Title:         req.Title,
		Location:      req.Location,
		RentCents:     req.RentCents,
		Image:         strings.TrimSpace(req.Image),
		AvailableFrom: availableFrom,
	}
	ctx := c.Request().Context()
	if err := h.RoomRepo.Create(ctx, &room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     room.ID,
		"status": room.Status,
	})
}

// ListMyRooms handles GET /v1/my-rooms.
func (h *OwnerRoomHandler) ListMyRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rooms, err := h.RoomRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roomViews(rooms)})
}

// UpdateRoom handles PUT /v1/rooms/:id.  Only display fields change;
// status is owned by the booking lifecycle.
func (h *OwnerRoomHandler) UpdateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	availableFrom, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	err = h.RoomRepo.Update(ctx, roomID, ownerID, req.Title, req.Location, req.RentCents, strings.TrimSpace(req.Image), availableFrom)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room"})
	}
	return c.NoContent(http.StatusNoContent)
}

// roomView is the JSON shape for room listings.
type roomView struct {
	ID            uint64 `json:"id"`
	OwnerID       uint64 `json:"owner_id"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	RentCents     uint64 `json:"rent_cents"`
	Image         string `json:"image,omitempty"`
	Status        string `json:"status"`
	AvailableFrom string `json:"available_from,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func roomViews(rooms []model.Room) []roomView {
	out := make([]roomView, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomView(rm))
	}
	return out
}

func toRoomView(rm model.Room) roomView {
	v := roomView{
		ID:        rm.ID,
		OwnerID:   rm.OwnerID,
		Title:     rm.Title,
		Location:  rm.Location,
		RentCents: rm.RentCents,
		Image:     rm.Image,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rm.AvailableFrom != nil {
		v.AvailableFrom = rm.AvailableFrom.UTC().Format("2006-01-02")
	}
	return v
}
