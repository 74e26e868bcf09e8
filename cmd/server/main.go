package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/docs"
	"github.com/arent-kient/api-key-dashboard/internal/config"
	"github.com/arent-kient/api-key-dashboard/internal/database"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/router"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/services/events"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
	"github.com/arent-kient/api-key-dashboard/internal/utils"
)

const (
	heartbeatInterval = 30 * time.Second
	sweepInterval     = 10 * time.Minute
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	configureLogging(cfg)

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	docs.SwaggerInfo.BasePath = cfg.BasePath

	if utils.InitSentry(cfg.SentryDSN, cfg.Environment) {
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Key events go to local SSE clients and, when configured, to RabbitMQ
	hub := events.NewHub()
	publishers := events.Multi{hub}
	if cfg.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.KeyEventsExchange)
		if err != nil {
			logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
		} else {
			defer rabbit.Close()
			publishers = append(publishers, rabbit)
			relay := func(event models.KeyEvent) { hub.Publish(ctx, event) }
			if err := rabbit.Subscribe(ctx, relay); err != nil {
				logrus.Warnf("Failed to start key event consumer: %v", err)
			}
			logrus.Info("RabbitMQ key events enabled")
		}
	}

	apiKeyService := api_key.NewService(db, publishers)
	registry := keymanager.NewRegistry(apiKeyService, cfg.ManagerCacheSize, cfg.ManagerIdleTTL)

	prefs, closePrefs := openPreferences(ctx, cfg)
	defer closePrefs()

	var provider auth.Provider
	if cfg.GoogleConfigured() {
		provider = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL+"/api/auth/callback/google")
	} else {
		logrus.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, sign-in is disabled")
	}
	authService, err := auth.NewAuthService(db, provider, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logrus.Fatalf("Failed to initialize auth service: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r, err := router.SetupRouter(router.Services{
		Config:      cfg,
		APIKeys:     apiKeyService,
		Auth:        authService,
		Registry:    registry,
		Preferences: prefs,
		Hub:         hub,
	})
	if err != nil {
		logrus.Fatalf("Failed to set up router: %v", err)
	}

	go runHeartbeat(ctx, hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		logrus.Infof("Dashboard: %s/dashboards", cfg.BaseURL)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

// openPreferences uses Redis when REDIS_URL is set and falls back to memory
func openPreferences(ctx context.Context, cfg *config.Config) (preferences.Store, func()) {
	if cfg.RedisURL != "" {
		store, err := preferences.NewRedisStore(ctx, cfg.RedisURL)
		if err == nil {
			logrus.Info("Preferences stored in Redis")
			return store, func() { store.Close() }
		}
		logrus.Warnf("Failed to connect to Redis, keeping preferences in memory: %v", err)
	}

	store := preferences.NewMemoryStore()
	janitor := preferences.NewJanitor(store, sweepInterval)
	janitor.Start()
	return store, janitor.Stop
}

func runHeartbeat(ctx context.Context, hub *events.Hub) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hub.SendHeartbeat()
		}
	}
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
