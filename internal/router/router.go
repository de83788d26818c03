package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges the refresh token for a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating variant: issues a new access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body (single
	// session) or a bearer token (all sessions); it therefore lives
	// outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "SEEKER"))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)

	// Alias kept for clients calling the top-level logout path.
	e.POST("/v1/logout", a.Logout)
}
