package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"literature/internal/config"
	"literature/internal/handlers"
	"literature/internal/logger"
	"literature/internal/registry"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	if err := logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	reg := registry.New(cfg.Server.RoomCodeLength, cfg.Server.PublicRoomsPerType, zlog)
	h := handlers.New(reg, cfg, zlog)
	r := handlers.SetupRouter(h, cfg, nil)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout, // 0 keeps WebSocket connections open
	}

	go func() {
		zlog.Info("starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
}
