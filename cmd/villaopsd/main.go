package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"villa-ops-backend/config"
	"villa-ops-backend/internal/api"
	"villa-ops-backend/internal/assignment"
	"villa-ops-backend/internal/db"
	"villa-ops-backend/internal/notification"
	"villa-ops-backend/internal/progress"
	"villa-ops-backend/internal/risk"
	"villa-ops-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "villa-ops ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized")

	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pushTimeout := time.Duration(cfg.Push.TimeoutSeconds) * time.Second
	var wpSender notification.WebPushSender
	var wpOptions *webpush.Options
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		wpSender = &notification.LibWebPushSender{}
		wpOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured; web push channel disabled")
	}

	var fcm notification.TokenSender
	if cfg.Push.FCMServerKey != "" {
		fcm = notification.NewFCMClient(cfg.Push.FCMURL, cfg.Push.FCMServerKey, pushTimeout)
	} else {
		logger.Println("FCM server key not configured; FCM channel disabled")
	}

	dispatcher := notification.NewDispatcher(
		appStore,
		notification.NewExpoClient(cfg.Push.ExpoURL, pushTimeout),
		fcm,
		wpSender,
		wpOptions,
		pushTimeout,
	)

	alertPool := notification.NewAlertPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, dispatcher)
	alertPool.Start(ctx)

	scorer := risk.NewScorer(cfg.Risk.PeakStartHour, cfg.Risk.PeakEndHour)
	tracker := progress.NewTracker(appStore, scorer, alertPool, cfg.Risk.AlertThreshold)
	assignments := assignment.NewService(appStore)

	handler := api.NewHandler(tracker, assignments, appStore)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
