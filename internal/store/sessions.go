package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const sessionsTable = "game_sessions"

// Sessions keeps game snapshots keyed by session id.
type Sessions struct {
	store *Store
}

func NewSessions(ctx context.Context, db *sql.DB) (*Sessions, error) {
	s, err := New(ctx, db, sessionsTable)
	if err != nil {
		return nil, err
	}
	return &Sessions{store: s}, nil
}

func (s *Sessions) Save(ctx context.Context, snap mines.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("%w: empty id", mines.ErrInvalidSnapshot)
	}
	return s.store.Set(ctx, snap.ID, snap)
}

func (s *Sessions) Load(ctx context.Context, id string) (*mines.Snapshot, error) {
	var snap mines.Snapshot
	if err := s.store.Get(ctx, id, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Sessions) List(ctx context.Context) ([]string, error) {
	return s.store.GetAllKeys(ctx)
}

func (s *Sessions) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
