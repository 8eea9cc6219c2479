package config

import (
	"os"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const DefaultStorePath = "minesweeper.db"

// StorePath is the SQLite file that holds saved games.
func StorePath() string {
	path, ok := os.LookupEnv("STORE_PATH")
	if !ok || path == "" {
		return DefaultStorePath
	}
	return path
}

// LogFile is the path of the rotating engine log, empty when disabled.
func LogFile() string {
	return os.Getenv("LOG_FILE")
}

func FirstClick() (mines.SafetyPolicy, error) {
	return mines.ParseSafetyPolicy(os.Getenv("FIRST_CLICK"))
}
