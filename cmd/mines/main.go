package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

var (
	difficultyName string
	width          int
	height         int
	mineCount      int
	firstClick     string
	seed           uint64
	storePath      string
	usePostgres    bool
	noColor        bool
)

func init() {
	flag.StringVar(&difficultyName, "difficulty", string(mines.Beginner), "difficulty level: beginner, intermediate or advanced")
	flag.IntVar(&width, "width", 0, "custom board width")
	flag.IntVar(&height, "height", 0, "custom board height")
	flag.IntVar(&mineCount, "mines", 0, "custom mine count (suggested from the size when omitted)")
	flag.StringVar(&firstClick, "first-click", "", "first click policy: neighborhood or cell (default from FIRST_CLICK)")
	flag.Uint64Var(&seed, "seed", 0, "mine placement seed, random when 0")
	flag.StringVar(&storePath, "store", "", "SQLite file for saved games (default from STORE_PATH)")
	flag.BoolVar(&usePostgres, "postgres", false, "save games to Postgres (DATABASE_URL or POSTGRES_*)")
	flag.BoolVar(&noColor, "no-color", false, "disable coloured output")
}

func newLogger() *slog.Logger {
	if config.Development() {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// setupEngineLog keeps engine logs off the terminal unless developing, and
// mirrors them to LOG_FILE when set.
func setupEngineLog() error {
	if config.Development() {
		mines.Log.SetLevel(logrus.DebugLevel)
		mines.Log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		mines.Log.SetOutput(io.Discard)
	}

	path := config.LogFile()
	if path == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      logrus.DebugLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	mines.Log.SetLevel(logrus.DebugLevel)
	mines.Log.AddHook(hook)
	return nil
}

func sessionOptions() ([]mines.SessionOption, error) {
	policy, err := config.FirstClick()
	if firstClick != "" {
		policy, err = mines.ParseSafetyPolicy(firstClick)
	}
	if err != nil {
		return nil, err
	}
	opts := []mines.SessionOption{mines.WithFirstClick(policy)}
	if seed != 0 {
		opts = append(opts, mines.WithSessionRand(mines.NewSeededRand(seed)))
	}
	return opts, nil
}

type postgresStore struct {
	*repository.Queries
}

func (s postgresStore) List(ctx context.Context) ([]string, error) {
	return s.ListGameSessions(ctx)
}

func (s postgresStore) Delete(ctx context.Context, id string) error {
	return s.DeleteGameSession(ctx, id)
}

func openStore(ctx context.Context, logger *slog.Logger) (sessionStore, func(), error) {
	if usePostgres {
		pool, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, nil, err
		}
		if version, dirty, err := migrator.Version(); err == nil {
			logger.Debug("database ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		}
		closeStore := func() {
			pool.Close()
			migrator.Close()
		}
		return postgresStore{repository.New(pool)}, closeStore, nil
	}

	path := storePath
	if path == "" {
		path = config.StorePath()
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := store.NewSessions(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if count, err := sessions.Count(ctx); err == nil {
		logger.Debug("store ready", slog.String("path", path), slog.Int("saved", count))
	}
	return sessions, func() { db.Close() }, nil
}

// readLines feeds stdin into a channel. It is not part of the errgroup
// since a blocked read cannot be interrupted.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func play(ctx context.Context, g *game, lines <-chan string) error {
	g.print()
	for {
		fmt.Fprint(g.out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := executeLine(ctx, g, line); err != nil {
				return err
			}
		}
	}
}

// run plays one game and returns the process exit code. Deferred cleanup
// runs before main exits.
func run() int {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	logger := newLogger()
	if err := setupEngineLog(); err != nil {
		logger.Error("failed to set up engine log", slog.Any("error", err))
		return 1
	}

	d, err := newGameDTO{
		Difficulty: difficultyName,
		Width:      width,
		Height:     height,
		MineCount:  mineCount,
	}.resolve(mines.BeginnerDifficulty)
	if err != nil {
		logger.Error("invalid difficulty", slog.Any("error", err))
		return 2
	}

	opts, err := sessionOptions()
	if err != nil {
		logger.Error("invalid options", slog.Any("error", err))
		return 2
	}

	sessions, closeStore, err := openStore(mainCtx, logger)
	if err != nil {
		logger.Warn("saving disabled", slog.Any("error", err))
	} else {
		defer closeStore()
	}

	g, err := newGame(d, sessions, os.Stdout, logger, opts...)
	if err != nil {
		logger.Error("failed to start game", slog.Any("error", err))
		return 1
	}
	g.color = !noColor && isatty.IsTerminal(os.Stdout.Fd())

	lines := readLines(os.Stdin)

	eg, egCtx := errgroup.WithContext(mainCtx)
	eg.Go(func() error {
		return play(egCtx, g, lines)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Debug("shutting down")
		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		logger.Error("exit", slog.Any("error", err))
		return 1
	}
	return 0
}

func main() {
	flag.Parse()
	os.Exit(run())
}
