// custom query
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Highscore struct {
	GameSessionId string `json:"game_session_id" db:"game_session_id"`
	Difficulty    string `json:"difficulty" db:"difficulty"`
	Width         int    `json:"width" db:"width"`
	Height        int    `json:"height" db:"height"`
	MineCount     int    `json:"mine_count" db:"mine_count"`
	MovesCount    int    `json:"moves_count" db:"moves_count"`
	PlaytimeMs    int64  `json:"playtime_ms" db:"playtime_ms"`
}

type HighscoreFilter struct {
	Difficulty *mines.Difficulty
	Limit      int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Difficulty != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.Difficulty.Width
		args["height"] = f.Difficulty.Height
		args["mineCount"] = f.Difficulty.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists won games, fastest first.
func (q Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		difficulty,
		width,
		height,
		mine_count,
		moves_count,
		playtime_ms
	FROM game_session
	WHERE
		state = 'won'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms, moves_count"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
