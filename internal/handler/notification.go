package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/model"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
)

// NotificationHandler serves the per-user notification log and the
// unread badge counter.  It only ever reads the log or flips read
// flags; the lifecycle engine is the sole writer.
type NotificationHandler struct {
	NotifRepo *repository.NotificationRepo
}

// NewNotificationHandler constructs a new NotificationHandler.
func NewNotificationHandler(notifRepo *repository.NotificationRepo) *NotificationHandler {
	if notifRepo == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{NotifRepo: notifRepo}
}

type notificationView struct {
	ID         uint64 `json:"id"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"created_at"`
}

func toNotificationView(n model.Notification) notificationView {
	return notificationView{
		ID:         n.ID,
		Message:    n.Message,
		RedirectTo: n.RedirectTo,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /v1/notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.NotifRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	views := make([]notificationView, 0, len(items))
	for _, n := range items {
		views = append(views, toNotificationView(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// UnreadCount handles GET /v1/notifications/unread-count for the
// badge counter.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.NotifRepo.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count notifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// MarkRead handles PATCH /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.NotifRepo.MarkRead(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.NotifRepo.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
