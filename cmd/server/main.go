package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cisnr-assistant/internal/adapter/chat_http"
	"cisnr-assistant/internal/di"
	"cisnr-assistant/internal/infra/config"
	"cisnr-assistant/internal/infra/logger"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.NewWithOTel(cfg.OTelLogs)
	slog.SetDefault(log)

	// 3. Wire the answer pipeline. Initialization failure is not
	// fatal to the process: the server starts in degraded mode and
	// rejects chat requests until restarted with valid configuration.
	components, err := di.NewApplicationComponents(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize answer pipeline, serving degraded", "error", err)
	} else {
		defer components.Close()
	}

	deps := chat_http.Dependencies{
		GoogleAPI: cfg.GoogleAPIKey != "",
		Pinecone:  cfg.PineconeAPIKey != "",
	}
	var handler *chat_http.Handler
	if components != nil {
		handler = chat_http.NewHandler(components.AnswerUsecase, deps, log)
	} else {
		handler = chat_http.NewHandler(nil, deps, log)
	}

	// 4. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 5. Register Handlers
	handler.Register(e)

	// 6. Liveness
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// 7. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
