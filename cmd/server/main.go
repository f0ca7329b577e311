package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"formlens/internal/app"
	"formlens/internal/config"
	"formlens/internal/logging"
	"formlens/internal/transport/rest"
	"formlens/internal/transport/ws"
)

func main() {
	bootLog, _ := zap.NewDevelopment()

	configDir := os.Getenv("FORMLENS_CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	cfg, err := config.Load(configDir, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	ctx := context.Background()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)

	a, err := app.New(ctx, cfg, log, wsHub)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	router := rest.NewRouter(&rest.Container{
		Server:          cfg.Server,
		AuthService:     a.AuthService,
		FormService:     a.FormService,
		AnalysisService: a.AnalysisService,
		WSHub:           wsHub,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.Bool("similarity", a.Embeddings.Ready()),
			zap.Bool("ai", cfg.AI.IsEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	log.Info("Server exited")
}
