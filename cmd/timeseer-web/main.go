// Command timeseer-web serves the forecasting dashboard and REST API
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"timeseer/internal/app"
	"timeseer/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		infrastructure.GetLogger().Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		stop()
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
