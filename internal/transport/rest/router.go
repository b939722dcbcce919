package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "rspo-readiness/docs"
	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/service"
	"rspo-readiness/internal/transport/rest/handler"
	"rspo-readiness/internal/transport/rest/middleware"
	"rspo-readiness/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	Catalog           *catalog.Catalog
	RateLimiter       middleware.Limiter // nil disables rate limiting
	TrustedProxies    middleware.TrustedProxies
	CORSOrigins       []string
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	catalogHandler := handler.NewCatalogHandler(c.Catalog)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS first so preflights skip everything else
	r.Use(middleware.CORS(c.CORSOrigins))
	r.Use(middleware.Logging)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	if c.RateLimiter != nil {
		v1.Use(middleware.RateLimit(c.RateLimiter, c.TrustedProxies))
	}

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/catalog/stages/{stage}", catalogHandler.Stage).Methods("GET", "OPTIONS")
	v1.HandleFunc("/catalog/tiers", catalogHandler.Tiers).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws", wsHandler.UserWS).Methods("GET")

	// User routes (require user auth)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/me", authHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessment", assessmentHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessment/start", assessmentHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessment/result", assessmentHandler.Result).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessment/reset", assessmentHandler.Reset).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessment/history", assessmentHandler.History).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessment/stages/{stage}", assessmentHandler.Stage).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessment/stages/{stage}/answers", assessmentHandler.SetAnswers).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/assessment/stages/{stage}/answers/{questionId}", assessmentHandler.Answer).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/assessment/stages/{stage}/complete", assessmentHandler.Complete).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessment/stages/{stage}/save", assessmentHandler.Save).Methods("POST", "OPTIONS")

	return r
}
