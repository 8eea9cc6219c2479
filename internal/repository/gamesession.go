package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type GameSession struct {
	GameSessionId string             `db:"game_session_id"`
	Difficulty    string             `db:"difficulty"`
	Width         int                `db:"width"`
	Height        int                `db:"height"`
	MineCount     int                `db:"mine_count"`
	State         string             `db:"state"`
	MovesCount    int                `db:"moves_count"`
	FlagsUsed     int                `db:"flags_used"`
	StartedAt     pgtype.Timestamptz `db:"started_at"`
	EndedAt       pgtype.Timestamptz `db:"ended_at"`
	PlaytimeMs    int64              `db:"playtime_ms"`
	Snapshot      []byte             `db:"snapshot"`
	CreatedAt     pgtype.Timestamptz `db:"created_at"`
	UpdatedAt     pgtype.Timestamptz `db:"updated_at"`
}

// Decode returns the stored snapshot.
func (g GameSession) Decode() (*mines.Snapshot, error) {
	return mines.DecodeSnapshot(g.Snapshot)
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// playtime is the unpaused time of a finished game.
func playtime(snap mines.Snapshot) time.Duration {
	if snap.StartedAt.IsZero() || snap.EndedAt.IsZero() {
		return 0
	}
	return snap.EndedAt.Sub(snap.StartedAt) - snap.PausedFor
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return errors.Join(ErrSessionExists, err)
	}
	return err
}

func (q Queries) CreateGameSession(
	ctx context.Context, snap mines.Snapshot,
) (*GameSession, error) {
	state, err := snap.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"game_session_id": snap.ID,
		"difficulty":      string(snap.Difficulty.Name),
		"width":           snap.Difficulty.Width,
		"height":          snap.Difficulty.Height,
		"mine_count":      snap.Difficulty.MineCount,
		"state":           snap.State.String(),
		"moves_count":     snap.MovesCount,
		"flags_used":      snap.FlagsUsed,
		"started_at":      timestamptz(snap.StartedAt),
		"ended_at":        timestamptz(snap.EndedAt),
		"playtime_ms":     playtime(snap).Milliseconds(),
		"snapshot":        state,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			game_session_id, difficulty, width, height, mine_count, state,
			moves_count, flags_used, started_at, ended_at, playtime_ms, snapshot
		)
		VALUES (
			@game_session_id, @difficulty, @width, @height, @mine_count, @state,
			@moves_count, @flags_used, @started_at, @ended_at, @playtime_ms, @snapshot
		)
		RETURNING *;`,
		args,
	)
	session, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
	return session, mapError(err)
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId string) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, mapError(err)
}

type UpdateGameSessionParams struct {
	State      *string
	MovesCount *int
	FlagsUsed  *int
	StartedAt  *time.Time
	EndedAt    *time.Time
	PlaytimeMs *int64
	Snapshot   *[]byte
}

// UpdateParams builds the params that bring a row in line with snap.
func UpdateParams(snap mines.Snapshot) (UpdateGameSessionParams, error) {
	state, err := snap.Bytes()
	if err != nil {
		return UpdateGameSessionParams{}, err
	}
	params := UpdateGameSessionParams{
		State:      ptr(snap.State.String()),
		MovesCount: &snap.MovesCount,
		FlagsUsed:  &snap.FlagsUsed,
		PlaytimeMs: ptr(playtime(snap).Milliseconds()),
		Snapshot:   &state,
	}
	if !snap.StartedAt.IsZero() {
		params.StartedAt = &snap.StartedAt
	}
	if !snap.EndedAt.IsZero() {
		params.EndedAt = &snap.EndedAt
	}
	return params, nil
}

func ptr[T any](v T) *T {
	return &v
}

// SetClause always touches updated_at so an empty update is still valid.
func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := []string{"updated_at = now()"}
	args := make(map[string]any)

	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.MovesCount != nil {
		parts = append(parts, "moves_count = @moves_count")
		args["moves_count"] = *p.MovesCount
	}
	if p.FlagsUsed != nil {
		parts = append(parts, "flags_used = @flags_used")
		args["flags_used"] = *p.FlagsUsed
	}
	if p.StartedAt != nil {
		parts = append(parts, "started_at = @started_at")
		args["started_at"] = *p.StartedAt
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.PlaytimeMs != nil {
		parts = append(parts, "playtime_ms = @playtime_ms")
		args["playtime_ms"] = *p.PlaytimeMs
	}
	if p.Snapshot != nil {
		parts = append(parts, "snapshot = @snapshot")
		args["snapshot"] = *p.Snapshot
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId string, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, mapError(err)
}

func (q Queries) DeleteGameSession(ctx context.Context, gameSessionId string) error {
	_, err := q.db.Exec(
		ctx, "DELETE FROM game_session WHERE game_session_id = $1", gameSessionId,
	)
	return err
}

func (q Queries) ListGameSessions(ctx context.Context) ([]string, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT game_session_id FROM game_session ORDER BY game_session_id",
	)
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Save inserts the snapshot or overwrites the stored one.
func (q Queries) Save(ctx context.Context, snap mines.Snapshot) error {
	_, err := q.CreateGameSession(ctx, snap)
	if !errors.Is(err, ErrSessionExists) {
		return err
	}
	params, err := UpdateParams(snap)
	if err != nil {
		return err
	}
	_, err = q.UpdateGameSession(ctx, snap.ID, params)
	return err
}

func (q Queries) Load(ctx context.Context, gameSessionId string) (*mines.Snapshot, error) {
	session, err := q.FetchGameSession(ctx, gameSessionId)
	if err != nil {
		return nil, err
	}
	return session.Decode()
}
