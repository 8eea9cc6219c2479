package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	errQuit    = errors.New("quit")
	errNoStore      = errors.New("no session store configured")
	errNoHighscores = errors.New("highscores need the Postgres store")
)

const variadic = -1

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g":  0,
	"o":  2,
	"f":  2,
	"c":  2,
	"p":  0,
	"u":  0,
	"r":  0,
	"n":  variadic,
	"s":  0,
	"l":  1,
	"ls": 0,
	"rm": 1,
	"st": 0,
	"hs": variadic,
	"h":  0,
	"q":  0,
}

const help = `commands (separate several with ';'):
  o ROW COL   reveal a cell
  f ROW COL   toggle a flag
  c ROW COL   reveal around a satisfied number
  g           print the board
  p / u       pause / resume
  r           restart with the same difficulty
  n [difficulty=NAME] [width=W] [height=H] [mines=M] [seed=W:H:M]
              start a new game
  s           save the game
  l ID        load a saved game
  ls          list saved games
  rm ID       delete a saved game
  st          show game statistics
  hs [OPTIONS]
              list the fastest won games, filtered like n
  q           quit`

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

// parseOptions turns "k=v" words into schema input.
func parseOptions(words []string) (map[string][]string, error) {
	src := make(map[string][]string, len(words))
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q is not key=value", w)
		}
		src[key] = append(src[key], value)
	}
	return src, nil
}

func parseNewGameArgs(words []string) (newGameDTO, error) {
	src, err := parseOptions(words)
	if err != nil {
		return newGameDTO{}, err
	}
	return parseNewGameDTO(src)
}

type move func(row, col int) (mines.Outcome, error)

func (g *game) move(args []string, m move) error {
	row, col, err := parseRowCol(args)
	if err != nil {
		return err
	}
	outcome, err := m(row, col)
	if err != nil {
		return err
	}
	g.report(outcome)
	return nil
}

// executeCommand runs one command. It returns errQuit when the player
// wants to leave; any other error is reported and play goes on.
func executeCommand(ctx context.Context, g *game, c string) (printBoard bool, err error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return false, nil
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return false, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != variadic && nargs != len(parts)-1 {
		return false, fmt.Errorf("%s takes %d arguments, got %d", parts[0], nargs, len(parts)-1)
	}
	switch parts[0] {
	case "g":
		return true, nil
	case "o":
		return true, g.move(parts[1:], g.session.Reveal)
	case "f":
		return true, g.move(parts[1:], g.session.ToggleFlag)
	case "c":
		return true, g.move(parts[1:], g.session.ChordReveal)
	case "p":
		return false, g.session.Pause()
	case "u":
		return true, g.session.Resume()
	case "r":
		return true, g.session.Reset()
	case "n":
		dto, err := parseNewGameArgs(parts[1:])
		if err != nil {
			return false, err
		}
		d, err := dto.resolve(g.session.Difficulty())
		if err != nil {
			return false, err
		}
		return true, g.session.Reset(d)
	case "s":
		return false, g.save(ctx)
	case "l":
		return true, g.load(ctx, parts[1])
	case "ls":
		return false, g.list(ctx)
	case "rm":
		return false, g.remove(ctx, parts[1])
	case "st":
		g.stats()
		return false, nil
	case "hs":
		dto, err := parseNewGameArgs(parts[1:])
		if err != nil {
			return false, err
		}
		return false, g.highscores(ctx, dto)
	case "h":
		fmt.Fprintln(g.out, help)
		return false, nil
	case "q":
		return false, errQuit
	}
	return false, errors.New("invalid command")
}

// executeLine runs every ';'-separated command on the line and prints the
// board once at the end if any command changed it.
func executeLine(ctx context.Context, g *game, line string) error {
	printBoard := false
	for _, c := range byPiece(strings.TrimSpace(line), ";") {
		show, err := executeCommand(ctx, g, c)
		if errors.Is(err, errQuit) {
			return err
		}
		if err != nil {
			fmt.Fprintf(g.out, "error: %s\n", err)
			g.logger.Debug("command failed", "command", c, "error", err)
			continue
		}
		printBoard = printBoard || show
	}
	if printBoard {
		g.print()
	}
	return nil
}
