package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reviewintel/internal/config"
	"reviewintel/internal/handler"
	"reviewintel/internal/repository"
	"reviewintel/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func main() {
	// Print version info
	log.Printf("Review Intelligence Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize services
	pipeline := service.NewPipeline(cfg.Analysis.HalfLifeDays, logger)
	riskPipeline := service.NewRiskPipeline(logger)
	intelService := service.NewIntelligenceService(repo, pipeline, riskPipeline, cfg.Analysis.PersistOutput, logger)

	log.Println("✅ Services initialized")
	log.Printf("   - Temporal half-life: %d days", cfg.Analysis.HalfLifeDays)
	log.Printf("   - Persist analysis output: %v", cfg.Analysis.PersistOutput)

	// Initialize handlers
	reviewHandler := handler.NewReviewHandler(intelService, cfg.Analysis.MaxBatchSize)
	listingHandler := handler.NewListingHandler(intelService, cfg.Analysis.DefaultLimit, cfg.Analysis.MaxLimit)
	assessHandler := handler.NewAssessHandler(intelService, cfg.Analysis.MaxBatchSize)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "review-intelligence",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Review ingestion
		apiV1.POST("/reviews", reviewHandler.Ingest)

		// Listing analysis endpoints
		apiV1.GET("/listings", listingHandler.List)
		apiV1.GET("/listings/:id/intelligence", listingHandler.Intelligence)
		apiV1.GET("/listings/:id/assessment", listingHandler.Assessment)
		apiV1.GET("/listings/:id/assessments", listingHandler.History)
		apiV1.PUT("/listings/:id/rating", listingHandler.SetRating)

		// One-shot assessment (nothing persisted)
		apiV1.POST("/assess", assessHandler.Assess)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
