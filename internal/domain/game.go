package domain

import "slices"

// Cell represents a board cell state. X and O are the two marks.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalText renders marks as "X", "O" and empty cells as "".
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Phase is the stage of a match.
type Phase uint8

const (
	Placement Phase = iota
	Movement
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Placement:
		return "placement"
	case Movement:
		return "movement"
	default:
		return "game_over"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Outcome is the terminal result of a match, Pending until one is reached.
type Outcome uint8

const (
	Pending Outcome = iota
	XWins
	OWins
	Draw
)

// Winner returns the winning mark, or Empty for Pending and Draw.
func (o Outcome) Winner() Cell {
	switch o {
	case XWins:
		return X
	case OWins:
		return O
	default:
		return Empty
	}
}

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return "pending"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func winFor(c Cell) Outcome {
	if c == X {
		return XWins
	}
	return OWins
}

const (
	// PiecesPerPlayer is how many marks each side places before movement starts.
	PiecesPerPlayer = 3
	// MatchSeconds is the countdown length; the match is drawn when it runs out.
	MatchSeconds = 180
	// NoSelection marks the absence of a selected cell.
	NoSelection = -1
)

// Game holds the full state of one match. It is a plain comparable value:
// copying it snapshots the match.
type Game struct {
	Board     Board
	Turn      Cell
	Phase     Phase
	Placed    Counts
	Selected  int
	Outcome   Outcome
	Started   bool
	Remaining int
}

// New returns a fresh match with X to move.
func New() Game {
	return Game{Turn: X, Selected: NoSelection, Remaining: MatchSeconds}
}

// Over reports whether the match has reached a terminal outcome.
func (g *Game) Over() bool { return g.Outcome != Pending }

// Activate applies a click on cell idx for the player to move and reports
// whether the state changed. Illegal input leaves the game untouched.
// A win is recorded on t, which may be nil.
func (g *Game) Activate(idx int, t *Tally) bool {
	if g.Over() || idx < 0 || idx >= len(g.Board) {
		return false
	}
	var changed bool
	switch g.Phase {
	case Placement:
		changed = g.place(idx, t)
	case Movement:
		changed = g.move(idx, t)
	}
	if changed {
		g.Started = true
	}
	return changed
}

func (g *Game) place(idx int, t *Tally) bool {
	if g.Board[idx] != Empty {
		return false
	}
	g.Board[idx] = g.Turn
	g.Placed.inc(g.Turn)

	if g.settle(t) {
		return true
	}
	if g.Placed.X == PiecesPerPlayer && g.Placed.O == PiecesPerPlayer {
		g.Phase = Movement
	}
	g.Turn = g.Turn.Opponent()
	return true
}

func (g *Game) move(idx int, t *Tally) bool {
	target := g.Board[idx]
	if g.Selected == NoSelection {
		if target != g.Turn {
			return false
		}
		g.Selected = idx
		return true
	}

	switch {
	case idx == g.Selected:
		g.Selected = NoSelection
		return true
	case target == g.Turn:
		g.Selected = idx
		return true
	case target != Empty:
		return false
	}
	if !slices.Contains(ValidDestinations(g.Board, g.Selected), idx) {
		return false
	}

	g.Board[g.Selected] = Empty
	g.Board[idx] = g.Turn
	g.Selected = NoSelection

	if g.settle(t) {
		return true
	}
	g.Turn = g.Turn.Opponent()
	return true
}

// settle ends the match if the board holds a completed line.
func (g *Game) settle(t *Tally) bool {
	w := Winner(g.Board)
	if w == Empty {
		return false
	}
	g.Outcome = winFor(w)
	g.Phase = GameOver
	t.RecordWin(w)
	return true
}

// Tick advances the match clock by one second. It is a no-op before the
// first move and after the outcome is set. Reaching zero draws the match.
func (g *Game) Tick() bool {
	if !g.Started || g.Over() {
		return false
	}
	g.Remaining--
	if g.Remaining <= 0 {
		g.Remaining = 0
		g.Outcome = Draw
		g.Phase = GameOver
	}
	return true
}

// Destinations lists the cells the selected piece may move to.
func (g *Game) Destinations() []int {
	if g.Phase != Movement || g.Selected == NoSelection {
		return nil
	}
	return ValidDestinations(g.Board, g.Selected)
}
