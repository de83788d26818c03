package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/middleware"
)

// RegisterOwner registers owner-scoped endpoints under /v1.  All
// routes require a valid JWT and the OWNER role.  Owners manage
// their room listings and decide the booking requests addressed to
// them.
func RegisterOwner(e *echo.Echo, rooms *handler.OwnerRoomHandler, bookings *handler.OwnerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.POST("/rooms", rooms.CreateRoom)
	g.PUT("/rooms/:id", rooms.UpdateRoom)
	g.GET("/my-rooms", rooms.ListMyRooms)

	// Request management: the accept transition is where exclusivity
	// and notification fan-out happen, inside one transaction.
	g.GET("/booking-requests", bookings.ListRequests)
	g.POST("/booking-requests/:id/accept", bookings.AcceptRequest)
	g.POST("/booking-requests/:id/reject", bookings.RejectRequest)
}
