package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/artifacts"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/auth"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/config"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/flashcard"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/flowchart"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generator"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/input"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/metrics"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/storage/pg"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/summary"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/tracking"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"google.golang.org/api/option"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	log.Info("setting gin mode", slog.String("mode", cfg.GinMode))
	gin.SetMode(cfg.GinMode)

	// Firestore holds the quota records and saved artifacts.
	fsClient, err := newFirestoreClient(context.Background(), cfg)
	if err != nil {
		fatal(log, "failed to initialize Firestore client", err)
	}
	defer fsClient.Close()

	tokenValidator, err := newTokenValidator(cfg, log)
	if err != nil {
		fatal(log, "failed to initialize token validator", err)
	}

	firebaseAuth, err := auth.NewFirebaseAuthMiddleware(tokenValidator)
	if err != nil {
		fatal(log, "failed to initialize auth middleware", err)
	}

	// The Postgres audit log is optional; without it generation events
	// are only visible in the logs.
	var trackingService *tracking.Service
	if cfg.DatabaseURL != "" {
		db, err := pg.InitDatabase(cfg.DatabaseURL)
		if err != nil {
			fatal(log, "failed to initialize database", err)
		}
		defer db.Close()

		trackingService = tracking.NewService(db, log,
			cfg.TrackingWorkerPoolSize,
			cfg.TrackingBufferSize,
			time.Duration(cfg.TrackingTimeoutSeconds)*time.Second)
	} else {
		log.Warn("DATABASE_URL is empty, generation audit log disabled")
	}

	inputStorage, err := input.NewStorage(log, cfg.InputSessionDir)
	if err != nil {
		fatal(log, "failed to initialize input session storage", err)
	}

	gen := cfg.GenerationConfig
	inputStore := input.NewStore(inputStorage, gen.DefaultLanguage, log)
	quotaService := quota.NewService(quota.NewFirestoreStore(fsClient), gen.DailyLimit, gen.QuizSubmissionLimit, log)
	gate := generation.NewGate(quotaService, gen.MinInputChars)
	artifactStore := artifacts.NewFirestoreStore(fsClient)
	backend := generator.NewClient(cfg.GeneratorBaseURL, time.Duration(cfg.GeneratorTimeoutSeconds)*time.Second, log)

	flashcardService := flashcard.NewService(gate, backend, artifactStore, inputStore, trackingService, gen.FlashcardSampleFallback, log)
	flowchartService := flowchart.NewService(gate, backend, artifactStore, inputStore, trackingService, log)
	summaryService := summary.NewService(gate, backend, artifactStore, inputStore, trackingService, log)

	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(requestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api/v1")
	api.Use(firebaseAuth.RequireAuth())
	{
		quota.NewHandler(quotaService, log).RegisterRoutes(api)
		input.NewHandler(inputStore, log).RegisterRoutes(api)
		flashcard.NewHandler(flashcardService, log).RegisterRoutes(api)
		flowchart.NewHandler(flowchartService, log).RegisterRoutes(api)
		summary.NewHandler(summaryService, log).RegisterRoutes(api)
	}

	// Daily janitor for stale input session files.
	janitor := cron.New()
	_, err = janitor.AddFunc(cfg.JanitorSchedule, func() {
		cutoff := time.Now().AddDate(0, 0, -cfg.InputSessionMaxAgeDays)
		removed, err := inputStorage.PruneOlderThan(cutoff)
		if err != nil {
			log.Error("input session sweep failed", slog.String("error", err.Error()))
			return
		}
		log.Info("input session sweep complete", slog.Int("removed", removed))
	})
	if err != nil {
		fatal(log, "invalid janitor schedule", err)
	}
	janitor.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "failed to start server", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	janitor.Stop()
	trackingService.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fatal(log, "server forced to shutdown", err)
	}

	log.Info("server exited")
}

func fatal(log *logger.Logger, msg string, err error) {
	log.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}

func newFirestoreClient(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("firebase project ID is required")
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, err
	}

	return app.Firestore(ctx)
}

func newTokenValidator(cfg *config.Config, log *logger.Logger) (auth.TokenValidator, error) {
	switch cfg.ValidatorType {
	case "firebase":
		if cfg.FirebaseProjectID == "" {
			return nil, errors.New("firebase project ID is required")
		}

		log.Info("creating Firebase token validator", slog.String("project_id", cfg.FirebaseProjectID))
		return auth.NewFirebaseTokenValidator(context.Background(), cfg.FirebaseCredJSON)

	case "jwk":
		log.Info("creating JWKS token validator", slog.String("jwks_url", cfg.JWTJWKSURL))
		return auth.NewTokenValidator(cfg.JWTJWKSURL)

	default:
		return nil, errors.New("validator type must be either 'firebase' or 'jwk'")
	}
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowed := range origins {
			if allowed == "*" || allowed == origin {
				c.Header("Access-Control-Allow-Origin", allowed)
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
