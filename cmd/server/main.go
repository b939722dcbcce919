package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/cache"
	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/config"
	"rspo-readiness/internal/repository"
	"rspo-readiness/internal/service"
	"rspo-readiness/internal/transport/rest"
	"rspo-readiness/internal/transport/rest/middleware"
	"rspo-readiness/internal/transport/ws"
)

// @title RSPO Readiness API
// @version 1.0
// @description Self-assessment of smallholder readiness for RSPO certification
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("started")
	ctx := context.Background()
	cfg := config.Load()

	// Question catalog
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	log.Printf("Catalog v%d loaded: %d questions", cat.Version(), cat.Size())

	// Durable store
	store, err := repository.Open(ctx, repository.StoreConfig{
		Driver:      cfg.StoreDriver,
		MongoURI:    cfg.MongoURI,
		MongoDB:     cfg.MongoDB,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer store.Close(context.Background())
	log.Printf("Store driver: %s", cfg.StoreDriver)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize caches
	progressCache := cache.NewProgressCache(rdb, cfg.ProgressTTL)
	limiter := cache.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("Failed to parse TRUSTED_PROXIES:", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL)
	assessmentSvc := service.NewAssessmentService(cat, progressCache, store.Results,
		assessment.Policy{EligibilityThreshold: cfg.EligibilityThreshold})

	// Inject broadcaster (wsHub implements service.Broadcaster)
	assessmentSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		Catalog:           cat,
		RateLimiter:       limiter,
		TrustedProxies:    proxies,
		CORSOrigins:       cfg.CORSOrigins,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/me")
		log.Println("  POST /v1/assessment/start")
		log.Println("  GET  /v1/assessment")
		log.Println("  GET  /v1/assessment/stages/{stage}")
		log.Println("  PUT  /v1/assessment/stages/{stage}/answers[/{questionId}]")
		log.Println("  POST /v1/assessment/stages/{stage}/complete")
		log.Println("  POST /v1/assessment/stages/{stage}/save")
		log.Println("  GET  /v1/assessment/result")
		log.Println("  POST /v1/assessment/reset")
		log.Println("  GET  /v1/assessment/history")
		log.Println("  GET  /v1/catalog/stages/{stage}")
		log.Println("  GET  /v1/catalog/tiers")
		log.Println("  WS   /v1/ws")
		log.Println("  GET  /swagger/doc.json")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
