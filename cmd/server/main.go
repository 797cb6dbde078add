package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vegaprotocol/research-bot/internal/auth"
	"github.com/vegaprotocol/research-bot/internal/config"
	"github.com/vegaprotocol/research-bot/internal/datanode"
	"github.com/vegaprotocol/research-bot/internal/handlers"
	"github.com/vegaprotocol/research-bot/internal/report"
	"github.com/vegaprotocol/research-bot/internal/wallet"
	"github.com/vegaprotocol/research-bot/pkg/logger"
	"github.com/vegaprotocol/research-bot/pkg/metrics"
	"github.com/vegaprotocol/research-bot/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server represents the main application server
type Server struct {
	httpServer    *http.Server
	config        *config.Config
	dataClient    *datanode.Client
	reportService *report.Service
	tokens        *auth.TokenSet
	collector     *metrics.Collector
	rateLimiter   *ratelimiter.RateLimiter
	router        *handlers.Router
	stopCh        chan struct{}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := &logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		OutputPaths: cfg.Logging.OutputPaths,
	}
	if err := logger.Initialize(loggerConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.GetLogger()

	log.Info("Starting research-bot report server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Strings("rest_endpoints", cfg.Bots.Network.RestEndpoints),
		zap.Int("scenarios", len(cfg.Bots.Scenarios)),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	if err := server.Start(); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.GetLogger()

	log.Debug("Initializing server components")

	endpoints, err := datanode.NewEndpoints(cfg.Bots.Network.RestEndpoints)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint configuration: %w", err)
	}

	dataClient, err := datanode.NewClient(endpoints)
	if err != nil {
		return nil, fmt.Errorf("failed to create data-node client: %w", err)
	}

	tokens := auth.NewTokenSet(cfg.Bots.AuthTokens)
	log.Debug("Loaded privileged tokens", zap.Int("count", tokens.Size()))

	walletStore := wallet.NewFileStore(cfg.Bots.Wallet.StateFile)
	collector := metrics.NewCollector()

	reportService := report.NewService(
		dataClient,
		walletStore,
		cfg.Bots.Scenarios,
		cfg.Cache.TTL,
		collector,
	)

	tradersHandler := handlers.NewTradersHandler(reportService, tokens)
	healthHandler := handlers.NewHealthHandler(dataClient, cfg.Bots.Network.MaxLagBlocks)

	return &Server{
		config:        cfg,
		dataClient:    dataClient,
		reportService: reportService,
		tokens:        tokens,
		collector:     collector,
		rateLimiter:   ratelimiter.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.WindowSize),
		router:        handlers.NewRouter(tradersHandler, healthHandler),
		stopCh:        make(chan struct{}),
	}, nil
}

// Start starts the HTTP server with graceful shutdown handling
func (s *Server) Start() error {
	log := logger.GetLogger()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(logger.RecoveryMiddleware())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(metrics.Middleware(s.collector))
	engine.Use(s.rateLimiter.Middleware())

	s.router.SetupHealthRoutes(engine)
	s.router.SetupRoutes(engine)
	engine.GET("/metrics", s.metricsHandler)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:           engine,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.cleanupLoop()

	go func() {
		log.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	return s.waitForShutdown()
}

// cleanupLoop periodically expires stale rate-limit windows.
func (s *Server) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.rateLimiter.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// metricsHandler exposes the in-process counters.
func (s *Server) metricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "research-bot",
		"performance": s.collector.Stats(),
	})
}

// waitForShutdown blocks until a termination signal and then drains the
// HTTP server.
func (s *Server) waitForShutdown() error {
	log := logger.GetLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutting down server", zap.String("signal", sig.String()))
	close(s.stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return logger.GetLogger().Sync()
}
