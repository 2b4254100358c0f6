package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/hireflow/recruitment-api/internal/config"
	"github.com/hireflow/recruitment-api/internal/database"
	"github.com/hireflow/recruitment-api/internal/handler"
	"github.com/hireflow/recruitment-api/internal/middleware"
	"github.com/hireflow/recruitment-api/internal/queue"
	"github.com/hireflow/recruitment-api/internal/repository"
	"github.com/hireflow/recruitment-api/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: caching and rate limiting degrade to no-ops when
	// the client is nil.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	cycles := repository.NewCycleRepo(db)
	forms := repository.NewFormRepo(db)
	applications := repository.NewApplicationRepo(db)
	reviews := repository.NewReviewRepo(db)
	interviews := repository.NewInterviewRepo(db)
	slots := repository.NewAvailabilityRepo(db)
	campaigns := repository.NewCampaignRepo(db)
	audits := repository.NewAuditRepo(db)

	authH := handler.NewAuthHandler(cfg, users, sessions)
	cycleH := handler.NewCycleHandler(cycles, audits)
	formH := handler.NewFormHandler(forms, audits)
	appH := handler.NewApplicationHandler(applications, audits)
	reviewH := handler.NewReviewHandler(reviews, audits)
	interviewH := handler.NewInterviewHandler(interviews, audits)
	availH := handler.NewAvailabilityHandler(slots, audits)
	campaignH := handler.NewCampaignHandler(campaigns, applications, audits)
	userH := handler.NewUserHandler(cfg, users, audits)
	auditH := handler.NewAuditHandler(audits)

	e := echo.New()
	e.HideBanner = true

	// Global rate limiting; fails open when Redis is down.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, formH, appH, cacheMW)
	router.RegisterResources(e, router.ResourceHandlers{
		Cycles:       cycleH,
		Forms:        formH,
		Applications: appH,
		Reviews:      reviewH,
		Interviews:   interviewH,
		Availability: availH,
		Campaigns:    campaignH,
		Users:        userH,
		Audits:       auditH,
	}, cfg.JWTSecret)

	// The consumer mirrors campaign.sent events into logs/email.log and
	// reconnects on its own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartCampaignConsumer(); err != nil {
			log.Printf("campaign consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
