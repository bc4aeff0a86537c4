package main

import (
	"log/slog"
	"os"
	"time"

	"blogspace/internal/auth"
	"blogspace/internal/config"
	"blogspace/internal/core"
	"blogspace/internal/database"
	"blogspace/internal/utils/databaseutils"
	"github.com/golang-cz/devslog"
	_ "github.com/lib/pq"
)

type application struct {
	config  config.Config
	core    datastore
	auth    *auth.Auth
	session databaseutils.Session
	logger  *slog.Logger
}

func main() {
	logger := configLogger()
	logger.Info("Starting application...")

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Database connection established successfully")

	sqlTemplate := databaseutils.NewSQLTemplate(db, 3*time.Second)

	app := application{
		config:  cfg,
		core:    core.NewCore(db, logger, sqlTemplate),
		auth:    auth.New(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.IsProduction()),
		session: databaseutils.NewSession(db),
		logger:  logger,
	}

	if err := app.serve(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger() *slog.Logger {
	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
