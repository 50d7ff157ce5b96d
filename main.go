// File: edunest/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edunest/backend"
	"edunest/config"
	"edunest/handlers"
	"edunest/middleware"
	"edunest/models"
	"edunest/routes"
	"edunest/services/notification"
	"edunest/services/push"
	"edunest/services/session"
	"edunest/store"
	"edunest/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Durable client state. On web builds there is no durable backend
	// and state lives for the session only.
	var state store.KV
	if config.AppConfig.Platform == "web" {
		state = store.NewMemoryKV()
	} else {
		utils.InitStateStore()
		state = store.NewRedisKV(utils.GetStateClient())
	}

	api := backend.NewClient(config.AppConfig.APIBaseURL, state)

	// Notification store hydrates before anything can deliver into it.
	notifStore := notification.NewDefaultNotificationStore(state)
	notifStore.Hydrate(context.Background())

	// Push plumbing: the simulated platform plugin stands in for the
	// native push service; ingress endpoints drive it.
	plugin := push.NewSimulatorPlugin(config.AppConfig.Platform, true)
	bridge := push.NewBridge(plugin, state, api, push.LogNotifier{}, config.AppConfig.AppVersion)

	sessionManager := session.NewDefaultSessionManager(state, api, bridge)

	// Bridge callbacks are owned here, by the shell.
	bridge.SetNotificationCallback(func(n models.Notification) {
		notifStore.Add(context.Background(), n)
	})
	bridge.SetNavigationCallback(func(path string) {
		logger.Info("navigating from notification tap", zap.String("path", path))
	})
	bridge.SetClearCallback(func() {
		notifStore.ClearAll(context.Background())
	})

	// Startup validation runs exactly once, before the shell serves.
	validator := session.NewValidator(state, api, sessionManager)
	validator.Run(context.Background())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handler := handlers.New(sessionManager, notifStore, bridge, plugin, api, state)
	routes.RegisterRoutes(router, handler, sessionManager)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting shell on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("shell server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
	sessionManager.WaitForSideEffects()
}
