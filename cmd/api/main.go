package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"io.winapps.dailyscore/internal/config"
	"io.winapps.dailyscore/internal/db"
	firebaseutil "io.winapps.dailyscore/internal/firebase"
	"io.winapps.dailyscore/internal/handlers"
	"io.winapps.dailyscore/internal/journal"
	"io.winapps.dailyscore/internal/middleware"
	"io.winapps.dailyscore/internal/notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatalw("failed to initialize store", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	session, err := journal.Open(ctx, store, journal.Options{
		Key:      cfg.JournalKey,
		Window:   cfg.JournalWindow,
		Location: cfg.Location,
		Logger:   logger,
	})
	cancel()
	if err != nil {
		logger.Fatalw("failed to load journal", "key", cfg.JournalKey, "error", err)
	}

	reminder, err := newReminder(cfg, session, logger)
	if err != nil {
		logger.Fatalw("failed to set up daily reminder", "error", err)
	}
	reminder.Start()
	defer reminder.Stop()

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.RequestLoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	journalHandler := handlers.NewJournalHandler(session, logger)

	v1 := router.Group("/api/v1")
	journalHandler.RegisterRoutes(v1.Group("/journal"))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infow("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "journal_key", cfg.JournalKey)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// openStore connects the configured key-value backend
func openStore(cfg *config.Config) (journal.Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := db.InitPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPostgresStore(pool), pool.Close, nil
	case "memory":
		return db.NewMemoryStore(), func() {}, nil
	default:
		client, err := db.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRedisStore(client), func() { client.Close() }, nil
	}
}

// newReminder schedules the daily reminder; push delivery is enabled only
// when Firebase is configured
func newReminder(cfg *config.Config, session *journal.Session, logger *zap.SugaredLogger) (*notifications.Reminder, error) {
	var sender notifications.Sender
	if cfg.FirebaseEnabled() && cfg.ReminderDeviceToken != "" {
		ctx := context.Background()
		app, err := firebaseutil.InitFirebase(ctx, cfg.FirebaseServiceAccountPath, cfg.FirebaseProjectID)
		if err != nil {
			return nil, err
		}
		client, err := firebaseutil.GetMessagingClient(ctx, app)
		if err != nil {
			return nil, err
		}
		sender = notifications.NewFCMSender(client)
	}

	reminder := notifications.NewReminder(session, sender, cfg.ReminderDeviceToken, cfg.Location, logger)
	if err := reminder.Schedule(cfg.ReminderCron); err != nil {
		return nil, err
	}
	return reminder, nil
}
