package domain

import (
	"testing"
)

// helper to apply a sequence of cell activations that must all be accepted
func playMoves(t *testing.T, g *Game, tally *Tally, moves []int) {
	t.Helper()
	for i, m := range moves {
		if !g.Activate(m, tally) {
			t.Fatalf("activation %d (cell %d) rejected; board=%v", i, m, g.Board)
		}
	}
}

// X {0,5,7}, O {1,3,8}: no line for either side, X to move afterwards.
var toMovement = []int{0, 1, 5, 3, 7, 8}

func TestNewGameInitialState(t *testing.T) {
	g := New()
	if g.Turn != X {
		t.Fatalf("expected initial turn X, got %v", g.Turn)
	}
	if g.Phase != Placement {
		t.Fatalf("expected placement phase, got %v", g.Phase)
	}
	if g.Over() || g.Outcome != Pending {
		t.Fatalf("expected game not over")
	}
	if g.Selected != NoSelection {
		t.Fatalf("expected no selection, got %d", g.Selected)
	}
	if g.Started {
		t.Fatalf("expected match not started")
	}
	if g.Remaining != MatchSeconds {
		t.Fatalf("expected %d seconds, got %d", MatchSeconds, g.Remaining)
	}
	for i, c := range g.Board {
		if c != Empty {
			t.Fatalf("expected empty board, cell %d = %v", i, c)
		}
	}
}

func TestActivateOutOfBoundsIsNoop(t *testing.T) {
	g := New()
	for _, idx := range []int{-1, 9, 42} {
		before := g
		if g.Activate(idx, nil) {
			t.Fatalf("expected out of bounds cell %d to be rejected", idx)
		}
		if g != before {
			t.Fatalf("state changed on cell %d", idx)
		}
	}
}

func TestPlaceOnOccupiedIsNoop(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, []int{4})
	before := g
	if g.Activate(4, nil) {
		t.Fatalf("expected occupied cell to be rejected")
	}
	if g != before {
		t.Fatalf("expected board, counts and turn unchanged; before=%+v after=%+v", before, g)
	}
}

func TestTurnFlipsAfterPlacement(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, []int{4})
	if !g.Started {
		t.Fatalf("expected first placement to start the match")
	}
	if g.Turn != O {
		t.Fatalf("expected turn to flip to O, got %v", g.Turn)
	}
	if g.Placed != (Counts{X: 1}) {
		t.Fatalf("expected X to have one piece placed, got %+v", g.Placed)
	}
}

func TestMovementStartsAfterSixPlacements(t *testing.T) {
	g := New()
	for i, m := range toMovement {
		if g.Phase != Placement {
			t.Fatalf("phase switched early before activation %d", i)
		}
		playMoves(t, &g, nil, []int{m})
		if g.Placed.X > PiecesPerPlayer || g.Placed.O > PiecesPerPlayer {
			t.Fatalf("placed counts exceeded limit: %+v", g.Placed)
		}
	}
	if g.Phase != Movement {
		t.Fatalf("expected movement phase, got %v", g.Phase)
	}
	if g.Placed != (Counts{X: 3, O: 3}) {
		t.Fatalf("expected 3/3 pieces, got %+v", g.Placed)
	}
	if g.Turn != X {
		t.Fatalf("expected X to open movement, got %v", g.Turn)
	}
	// Further clicks on empty cells never add pieces.
	if g.Activate(2, nil) {
		t.Fatalf("expected empty cell click without selection to be ignored")
	}
}

func TestWinConditionsForX(t *testing.T) {
	for _, line := range lines {
		g := New()
		var tally Tally
		seq := make([]int, 0, 5)
		fillers := fillersFor(line)
		// X, O, X, O, X on the line
		seq = append(seq, line[0], fillers[0], line[1], fillers[1], line[2])
		playMoves(t, &g, &tally, seq)
		if g.Outcome != XWins || g.Phase != GameOver {
			t.Fatalf("expected X to win on line %v; outcome=%v phase=%v", line, g.Outcome, g.Phase)
		}
		if g.Turn != X {
			t.Fatalf("winning placement must not pass the turn, got %v", g.Turn)
		}
		if tally.Wins() != (Counts{X: 1}) {
			t.Fatalf("expected one X win tallied, got %+v", tally.Wins())
		}
	}
}

func TestWinConditionsForO(t *testing.T) {
	for _, line := range lines {
		g := New()
		var tally Tally
		f := fillersFor(line)
		// X must not complete a line with its three fillers.
		var xs Board
		xs[f[0]], xs[f[1]], xs[f[2]] = X, X, X
		if Winner(xs) == X {
			f[2], f[3] = f[3], f[2]
		}
		seq := []int{f[0], line[0], f[1], line[1], f[2], line[2]}
		playMoves(t, &g, &tally, seq)
		if g.Outcome != OWins {
			t.Fatalf("expected O to win on line %v; outcome=%v board=%v", line, g.Outcome, g.Board)
		}
		if g.Phase != GameOver {
			t.Fatalf("winning sixth placement must not open movement, got %v", g.Phase)
		}
		if tally.Wins() != (Counts{O: 1}) {
			t.Fatalf("expected one O win tallied, got %+v", tally.Wins())
		}
	}
}

// fillersFor returns the cells off the given line, in ascending order.
func fillersFor(line [3]int) []int {
	var out []int
	for i := 0; i < 9; i++ {
		if i != line[0] && i != line[1] && i != line[2] {
			out = append(out, i)
		}
	}
	return out
}

func TestGameOverBlocksFurtherActivations(t *testing.T) {
	g := New()
	var tally Tally
	// X wins quickly on top row
	playMoves(t, &g, &tally, []int{0, 3, 1, 4, 2})
	if g.Outcome != XWins {
		t.Fatalf("expected X win before extra activations")
	}
	before := g
	for i := 0; i < 9; i++ {
		if g.Activate(i, &tally) {
			t.Fatalf("expected activation of %d to be ignored after game over", i)
		}
	}
	if g != before {
		t.Fatalf("game changed after outcome: before=%+v after=%+v", before, g)
	}
	if tally.Wins().X != 1 {
		t.Fatalf("expected tally untouched, got %+v", tally.Wins())
	}
}

func TestSelectDeselectAndReselect(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, toMovement)

	// Opponent piece and empty cell cannot be selected.
	for _, idx := range []int{1, 2} {
		if g.Activate(idx, nil) {
			t.Fatalf("expected cell %d not selectable for X", idx)
		}
	}
	playMoves(t, &g, nil, []int{0})
	if g.Selected != 0 {
		t.Fatalf("expected cell 0 selected, got %d", g.Selected)
	}
	playMoves(t, &g, nil, []int{5})
	if g.Selected != 5 {
		t.Fatalf("expected reselect to 5, got %d", g.Selected)
	}
	playMoves(t, &g, nil, []int{5})
	if g.Selected != NoSelection {
		t.Fatalf("expected deselect, got %d", g.Selected)
	}
	if g.Turn != X {
		t.Fatalf("selection changes must not pass the turn")
	}
}

func TestMoveToCenterFromCorner(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, toMovement)
	playMoves(t, &g, nil, []int{0, 4})
	if g.Board[0] != Empty || g.Board[4] != X {
		t.Fatalf("expected piece moved 0->4, board=%v", g.Board)
	}
	if g.Selected != NoSelection || g.Turn != O {
		t.Fatalf("expected selection cleared and turn passed; sel=%d turn=%v", g.Selected, g.Turn)
	}
	if g.Placed != (Counts{X: 3, O: 3}) {
		t.Fatalf("movement must not change placed counts, got %+v", g.Placed)
	}
}

func TestIllegalMovementTargetsAreNoops(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, toMovement)
	playMoves(t, &g, nil, []int{7})

	before := g
	// 2 is empty but not reachable from 7; 8 belongs to O.
	for _, idx := range []int{2, 8} {
		if g.Activate(idx, nil) {
			t.Fatalf("expected move 7->%d to be rejected", idx)
		}
	}
	if g != before {
		t.Fatalf("rejected moves changed state")
	}
	if g.Selected != 7 {
		t.Fatalf("expected selection kept, got %d", g.Selected)
	}
}

func TestWinningMoveInMovementPhase(t *testing.T) {
	g := New()
	g.Board = Board{X, X, Empty, O, Empty, X, O, Empty, O}
	g.Phase = Movement
	g.Placed = Counts{X: 3, O: 3}
	g.Started = true
	var tally Tally
	tally.RecordWin(O)

	playMoves(t, &g, &tally, []int{5, 2})
	if g.Outcome != XWins || g.Phase != GameOver {
		t.Fatalf("expected X to win by moving 5->2; outcome=%v", g.Outcome)
	}
	if g.Turn != X {
		t.Fatalf("winning move must not pass the turn")
	}
	if tally.Wins() != (Counts{X: 1, O: 1}) {
		t.Fatalf("expected X win added to tally, got %+v", tally.Wins())
	}
}

func TestDestinationsFollowSelection(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, toMovement)
	if d := g.Destinations(); d != nil {
		t.Fatalf("expected no destinations without selection, got %v", d)
	}
	playMoves(t, &g, nil, []int{5})
	want := []int{2, 4}
	got := g.Destinations()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTickIsInertBeforeStart(t *testing.T) {
	g := New()
	if g.Tick() {
		t.Fatalf("expected tick before first move to be ignored")
	}
	if g.Remaining != MatchSeconds {
		t.Fatalf("expected clock untouched, got %d", g.Remaining)
	}
}

func TestClockExpiryDraws(t *testing.T) {
	g := New()
	var tally Tally
	playMoves(t, &g, &tally, []int{0})
	for i := 0; i < MatchSeconds-1; i++ {
		if !g.Tick() {
			t.Fatalf("tick %d rejected", i)
		}
		if g.Over() {
			t.Fatalf("match ended early at tick %d", i)
		}
	}
	if !g.Tick() {
		t.Fatalf("final tick rejected")
	}
	if g.Outcome != Draw || g.Phase != GameOver || g.Remaining != 0 {
		t.Fatalf("expected draw at zero; outcome=%v phase=%v remaining=%d", g.Outcome, g.Phase, g.Remaining)
	}
	if g.Tick() {
		t.Fatalf("clock must be frozen after the outcome")
	}
	if tally.Wins() != (Counts{}) {
		t.Fatalf("draw must not touch the tally, got %+v", tally.Wins())
	}
}

func TestTickFrozenAfterWin(t *testing.T) {
	g := New()
	playMoves(t, &g, nil, []int{0, 3, 1, 4, 2})
	remaining := g.Remaining
	if g.Tick() || g.Remaining != remaining {
		t.Fatalf("expected clock frozen after win")
	}
}
