package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestDevelopment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	assert.True(t, Development())
	t.Setenv("DEVELOPMENT", "0")
	assert.False(t, Development())
}

func TestStorePath(t *testing.T) {
	t.Setenv("STORE_PATH", "")
	assert.Equal(t, DefaultStorePath, StorePath())
	t.Setenv("STORE_PATH", "/tmp/games.db")
	assert.Equal(t, "/tmp/games.db", StorePath())
}

func TestFirstClick(t *testing.T) {
	t.Setenv("FIRST_CLICK", "cell")
	p, err := FirstClick()
	require.NoError(t, err)
	assert.Equal(t, mines.SafeCell, p)

	t.Setenv("FIRST_CLICK", "")
	p, err = FirstClick()
	require.NoError(t, err)
	assert.Equal(t, mines.SafeNeighborhood, p)

	t.Setenv("FIRST_CLICK", "edge")
	_, err = FirstClick()
	assert.Error(t, err)
}

func TestDbURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgresql://u:p@localhost:5432/mines")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@localhost:5432/mines", url)
}

func TestDatabaseURL(t *testing.T) {
	c := Database{
		Username: "mines",
		Password: "p@ss word",
		Host:     "db",
		Port:     5432,
		DBName:   "minesweeper",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"postgresql://mines:p%40ss+word@db:5432/minesweeper?sslmode=disable",
		c.URL(),
	)
}
