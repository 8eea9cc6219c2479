package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

type sessionStore interface {
	Save(ctx context.Context, snap mines.Snapshot) error
	Load(ctx context.Context, id string) (*mines.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// Only the Postgres store keeps highscores.
type highscoreStore interface {
	GetHighscores(ctx context.Context, filter repository.HighscoreFilter) ([]repository.Highscore, error)
}

const highscoreLimit = 10

type game struct {
	session *mines.Session
	store   sessionStore
	opts    []mines.SessionOption
	out     io.Writer
	logger  *slog.Logger
	color   bool
}

func newGame(
	d mines.Difficulty, store sessionStore, out io.Writer, logger *slog.Logger,
	opts ...mines.SessionOption,
) (*game, error) {
	session, err := mines.NewSession(d, opts...)
	if err != nil {
		return nil, err
	}
	return &game{
		session: session,
		store:   store,
		opts:    opts,
		out:     out,
		logger:  logger,
	}, nil
}

type newGameDTO struct {
	Difficulty string `schema:"difficulty"`
	Width      int    `schema:"width"`
	Height     int    `schema:"height"`
	MineCount  int    `schema:"mines"`
	Seed       string `schema:"seed"`
}

func parseNewGameDTO(src map[string][]string) (newGameDTO, error) {
	var dto newGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto newGameDTO) empty() bool {
	return dto == newGameDTO{}
}

// resolve picks the difficulty described by dto. A seed wins over
// everything else. Any board size overrides the named level; a missing
// mine count is suggested from the size.
func (dto newGameDTO) resolve(current mines.Difficulty) (mines.Difficulty, error) {
	if dto.Seed != "" {
		return mines.ParseSeed(dto.Seed)
	}
	base := current
	if dto.Difficulty != "" {
		d, err := mines.DifficultyByName(dto.Difficulty)
		if err != nil {
			return mines.Difficulty{}, err
		}
		base = d
	}
	if dto.Width == 0 && dto.Height == 0 && dto.MineCount == 0 {
		return base, nil
	}

	width, height := base.Width, base.Height
	if dto.Width != 0 {
		width = dto.Width
	}
	if dto.Height != 0 {
		height = dto.Height
	}
	mineCount := dto.MineCount
	if mineCount == 0 {
		mineCount = mines.SuggestMineCount(width, height)
	}
	return mines.NewDifficulty(width, height, mineCount)
}

func (g *game) print() {
	fmt.Fprintln(g.out, renderSession(g.session, g.color))
}

func (g *game) report(outcome mines.Outcome) {
	switch outcome {
	case mines.Won:
		fmt.Fprintln(g.out, renderBanner("You win!", true, g.color))
	case mines.Lost:
		fmt.Fprintln(g.out, renderBanner("Game over.", false, g.color))
	}
	if outcome != mines.Continue {
		g.logger.Info("game finished",
			slog.String("session", g.session.ID()),
			slog.String("outcome", outcome.String()),
			slog.Int("moves", g.session.MovesCount()),
			slog.Duration("elapsed", g.session.Elapsed()),
		)
	}
}

func (g *game) save(ctx context.Context) error {
	if g.store == nil {
		return errNoStore
	}
	if err := g.store.Save(ctx, g.session.Snapshot()); err != nil {
		return fmt.Errorf("save %s: %w", g.session.ID(), err)
	}
	fmt.Fprintf(g.out, "saved %s\n", g.session.ID())
	return nil
}

func (g *game) load(ctx context.Context, id string) error {
	if g.store == nil {
		return errNoStore
	}
	snap, err := g.store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	session, err := mines.RestoreSession(*snap, g.opts...)
	if err != nil {
		return err
	}
	g.session = session
	return nil
}

func (g *game) list(ctx context.Context) error {
	if g.store == nil {
		return errNoStore
	}
	ids, err := g.store.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(g.out, id)
	}
	return nil
}

func (g *game) remove(ctx context.Context, id string) error {
	if g.store == nil {
		return errNoStore
	}
	if err := g.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	fmt.Fprintf(g.out, "removed %s\n", id)
	return nil
}

func (g *game) stats() {
	fmt.Fprintln(g.out, renderStatistics(g.session.Statistics(), g.session.Difficulty().Seed()))
}

// highscores lists the fastest won games. With no options it shows every
// difficulty; otherwise options select a board the way "n" does.
func (g *game) highscores(ctx context.Context, dto newGameDTO) error {
	hs, ok := g.store.(highscoreStore)
	if !ok {
		return errNoHighscores
	}
	filter := repository.HighscoreFilter{Limit: highscoreLimit}
	if !dto.empty() {
		d, err := dto.resolve(g.session.Difficulty())
		if err != nil {
			return err
		}
		filter.Difficulty = &d
	}
	scores, err := hs.GetHighscores(ctx, filter)
	if err != nil {
		return fmt.Errorf("highscores: %w", err)
	}
	fmt.Fprintln(g.out, renderHighscores(scores))
	return nil
}
