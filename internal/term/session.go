package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
)

// Action is what a typed command asks for.
type Action int

const (
	ActCell Action = iota
	ActNew
	ActReset
	ActShow
	ActQuit
)

// Command is one parsed input line.
type Command struct {
	Action Action
	Cell   int
}

var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand accepts a cell number 0-8, "n"/"new", "r"/"reset",
// "s"/"show" (or an empty line) and "q"/"quit".
func ParseCommand(line string) (Command, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "", "s", "show":
		return Command{Action: ActShow}, nil
	case "n", "new":
		return Command{Action: ActNew}, nil
	case "r", "reset":
		return Command{Action: ActReset}, nil
	case "q", "quit", "exit":
		return Command{Action: ActQuit}, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 || n > 8 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return Command{Action: ActCell, Cell: n}, nil
}

// Run plays one session on svc, reading commands from in until quit, EOF or
// ctx is cancelled.
func Run(ctx context.Context, svc *app.Service, in io.Reader, r *Renderer) error {
	snap, err := svc.CreateSession()
	if err != nil {
		return err
	}
	if err := r.Render(*snap); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cmd, err := ParseCommand(sc.Text())
		if err != nil {
			if _, werr := fmt.Fprintln(r.out, err); werr != nil {
				return werr
			}
			continue
		}
		switch cmd.Action {
		case ActQuit:
			return nil
		case ActCell:
			snap, err = svc.Activate(snap.ID, cmd.Cell)
		case ActNew:
			snap, err = svc.NewMatch(snap.ID)
		case ActReset:
			snap, err = svc.ResetAll(snap.ID)
		case ActShow:
			latest, ok := svc.Get(snap.ID)
			if !ok {
				return app.ErrNotFound
			}
			snap = latest
		}
		if err != nil {
			return err
		}
		if err := r.Render(*snap); err != nil {
			return err
		}
	}
	return sc.Err()
}
