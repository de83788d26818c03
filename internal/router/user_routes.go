package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/middleware"
)

// RegisterUser registers endpoints shared by both roles: the
// notification log with its unread badge, and the per-room chat that
// an accepted booking unlocks.
func RegisterUser(e *echo.Echo, notifs *handler.NotificationHandler, messages *handler.MessageHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "SEEKER"),
	)
	g.GET("/notifications", notifs.List)
	g.GET("/notifications/unread-count", notifs.UnreadCount)
	g.PATCH("/notifications/:id/read", notifs.MarkRead)
	g.POST("/notifications/read-all", notifs.MarkAllRead)

	g.POST("/rooms/:id/messages", messages.Send)
	g.GET("/rooms/:id/messages", messages.List)
	g.GET("/inbox", messages.Inbox)
}
