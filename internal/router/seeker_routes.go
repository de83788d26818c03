package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/middleware"
)

// RegisterSeeker registers seeker-scoped endpoints under /v1.  All
// routes require a valid JWT and the SEEKER role.  Seekers send
// booking requests and follow their status.
func RegisterSeeker(e *echo.Echo, bookings *handler.SeekerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SEEKER"),
	)
	g.POST("/rooms/:id/request", bookings.CreateRequest)
	g.GET("/my-requests", bookings.ListMyRequests)
}
