package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/config"
	"github.com/stayware/ticketdesk/internal/database"
	"github.com/stayware/ticketdesk/internal/handler"
	"github.com/stayware/ticketdesk/internal/middleware"
	"github.com/stayware/ticketdesk/internal/queue"
	"github.com/stayware/ticketdesk/internal/repository"
	"github.com/stayware/ticketdesk/internal/router"
)

func main() {
	// Best-effort .env load for local development; real deployments set
	// the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Missing signing secrets abort startup here, never mid-request.
	issuer, err := auth.NewIssuer(
		cfg.SessionJWTSecret,
		cfg.AccessJWTSecret,
		time.Duration(cfg.SessionTTLMin)*time.Minute,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
	)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	users := repository.NewUserStore(db)
	broker := auth.NewExchangeCodeBroker(issuer, users)
	svc := auth.NewService(issuer, users, broker, cfg.BcryptCost, !cfg.IsProd())
	resolver := auth.NewSessionResolver(issuer, cfg.SessionCookieName)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	authGuard := middleware.Authenticated(resolver, users)

	// Background audit consumer; reconnects on its own.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, svc), limiter, authGuard)
	router.RegisterAPI(e, users,
		handler.NewTicketHandler(repository.NewTicketRepo(db)),
		handler.NewHotelHandler(repository.NewHotelRepo(db)),
		handler.NewCommentHandler(repository.NewCommentRepo(db)),
		handler.NewRoleHandler(users),
		authGuard, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
