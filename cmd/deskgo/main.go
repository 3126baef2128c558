package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	_ "github.com/kirinyoku/deskgo/docs"
	"github.com/kirinyoku/deskgo/internal/app"
	"github.com/kirinyoku/deskgo/internal/config"
)

// @title DeskGo API
// @version 1.0
// @description Desk booking backend-for-frontend: floor plans, the editing canvas and seat booking.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey SessionID
// @in header
// @name X-Session-ID
func main() {
	flags := pflag.NewFlagSet("deskgo", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.New(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
