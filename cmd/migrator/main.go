package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/lmittmann/tint"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
)

var down = flag.Bool("down", false, "roll back every migration")

func newLogger() *slog.Logger {
	if config.Development() {
		return slog.New(tint.NewHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func run(logger *slog.Logger) int {
	url, err := config.DbURL()
	if err != nil {
		logger.Error("no database configured", slog.Any("error", err))
		return 1
	}

	if *down {
		migrator, err := database.NewMigrator(url, database.Migrations)
		if err != nil {
			logger.Error("failed to create migrator", slog.Any("error", err))
			return 1
		}
		defer migrator.Close()
		if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("failed to roll back", slog.Any("error", err))
			return 1
		}
		logger.Info("rolled back all migrations")
		return 0
	}

	migrator, err := database.Migrate(url, database.Migrations)
	if err != nil {
		logger.Error("failed to migrate", slog.Any("error", err))
		return 1
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		return 1
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return 0
}

func main() {
	flag.Parse()
	os.Exit(run(newLogger()))
}
