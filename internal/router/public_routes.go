package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/staysafe/room-rental-marketplace/internal/config"
	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/middleware"
)

// RegisterPublic registers the unauthenticated room catalog.  These
// routes carry the Redis-backed response cache and rate limiter so
// guests browsing listings do not hammer the database; both degrade
// to pass-through when no Redis client is available.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	g := e.Group(
		"/v1",
		middleware.NewTokenBucket(rateCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	// Browse available rooms with location / availability / price filters.
	g.GET("/rooms", p.ListRooms)
	// Room detail stays visible after booking so stale links resolve.
	g.GET("/rooms/:id", p.GetRoom)
}
