package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/staysafe/room-rental-marketplace/internal/config"
	"github.com/staysafe/room-rental-marketplace/internal/database"
	"github.com/staysafe/room-rental-marketplace/internal/handler"
	"github.com/staysafe/room-rental-marketplace/internal/lifecycle"
	"github.com/staysafe/room-rental-marketplace/internal/queue"
	"github.com/staysafe/room-rental-marketplace/internal/repository"
	"github.com/staysafe/room-rental-marketplace/internal/router"
	queue_publisher "github.com/staysafe/room-rental-marketplace/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: a nil client disables response caching and
	// rate limiting without affecting correctness.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	engine := lifecycle.NewEngine(db, roomRepo, bookingRepo, notifRepo,
		queue_publisher.PublishNotificationCreated)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(roomRepo)
	ownerRooms := handler.NewOwnerRoomHandler(roomRepo)
	ownerBookings := handler.NewOwnerBookingHandler(engine, bookingRepo)
	seekerBookings := handler.NewSeekerBookingHandler(engine, bookingRepo)
	notifHandler := handler.NewNotificationHandler(notifRepo)
	messageHandler := handler.NewMessageHandler(messageRepo, bookingRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, rdb)
	router.RegisterOwner(e, ownerRooms, ownerBookings, cfg.JWTSecret)
	router.RegisterSeeker(e, seekerBookings, cfg.JWTSecret)
	router.RegisterUser(e, notifHandler, messageHandler, cfg.JWTSecret)

	// Mirror committed notifications to the push channel in the
	// background; the consumer reconnects on broker failure.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
