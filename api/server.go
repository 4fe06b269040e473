package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OldStager01/sepsis-watcher/api/handlers"
	"github.com/OldStager01/sepsis-watcher/api/middleware"
	"github.com/OldStager01/sepsis-watcher/api/websocket"
	"github.com/OldStager01/sepsis-watcher/internal/auth"
	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/metrics"
	"github.com/OldStager01/sepsis-watcher/internal/watcher"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/database"
	"github.com/OldStager01/sepsis-watcher/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	db          *database.DB
	authService *auth.Service
	watcher     *watcher.Watcher
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
}

// Repositories bundles the query repositories the API serves from.
type Repositories struct {
	Vitals      *queries.VitalsRepository
	Assessments *queries.AssessmentRepository
	Predictions *queries.PredictionRepository
	Alerts      *queries.AlertRepository
	Users       *queries.UserRepository
}

func NewServer(cfg *config.Config, db *database.DB, repos Repositories, w *watcher.Watcher, bus *events.EventBus) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	authService := auth.NewService(cfg.API.JWTSecret, cfg.API.JWTDuration)
	wsHub := websocket.NewHub(&cfg.WebSocket)

	s := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		authService: authService,
		watcher:     w,
		wsHub:       wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes(repos)

	go wsHub.Run()

	// Forward pipeline events to WebSocket clients
	if bus != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, bus.SubscribeAll())
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.corsConfig()))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestSizeLimit(1 << 20))

	if s.config.API.RateLimit > 0 {
		s.router.Use(middleware.RateLimit(s.config.API.RateLimit, time.Minute))
	}
}

func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	apiCORS := s.config.API.CORS

	if len(apiCORS.AllowedOrigins) > 0 {
		cfg.AllowOrigins = apiCORS.AllowedOrigins
	}
	if len(apiCORS.AllowedMethods) > 0 {
		cfg.AllowMethods = apiCORS.AllowedMethods
	}
	if len(apiCORS.AllowedHeaders) > 0 {
		cfg.AllowHeaders = apiCORS.AllowedHeaders
	}
	cfg.AllowCredentials = apiCORS.AllowCredentials

	return cfg
}

func (s *Server) setupRoutes(repos Repositories) {
	healthHandler := handlers.NewHealthHandler(s.db, s.watcher)
	authHandler := handlers.NewAuthHandler(repos.Users, s.authService)
	vitalsHandler := handlers.NewVitalsHandler(repos.Vitals, repos.Assessments, repos.Predictions, &s.config.API)
	assessmentsHandler := handlers.NewAssessmentsHandler(repos.Assessments, repos.Alerts, &s.config.API)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	// Auth routes
	s.router.POST("/auth/login", middleware.AuthRateLimiter(), authHandler.Login)

	// WebSocket route
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	// Prometheus exposition
	s.router.GET("/metrics", gin.WrapH(metrics.Get().Handler()))

	// Protected routes
	protected := s.router.Group("/")
	protected.Use(middleware.JWTAuth(s.authService))
	{
		// Vitals
		protected.POST("/vitals", vitalsHandler.Ingest)
		protected.GET("/vitals/recent", vitalsHandler.GetRecent)
		protected.GET("/vitals/:id", vitalsHandler.GetByID)
		protected.GET("/vitals/:id/assessment", vitalsHandler.GetAssessment)
		protected.GET("/vitals/:id/forecast", vitalsHandler.GetForecast)

		// Assessments and alerts
		protected.GET("/assessments/recent", assessmentsHandler.GetRecent)
		protected.GET("/assessments/stats", assessmentsHandler.GetStats)
		protected.GET("/alerts/recent", assessmentsHandler.GetRecentAlerts)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	idleTimeout := s.config.API.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
