// Package term is a hot-seat terminal front end: it reads commands from a
// reader and draws the board with termenv styling.
package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
	"github.com/jaminalder/moving-tic-tac-toe/internal/domain"
	"github.com/jaminalder/moving-tic-tac-toe/internal/view"
)

// Renderer draws session snapshots.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer writes to w. Pass termenv.WithProfile(termenv.Ascii) for plain text.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Render draws status, clock, board and score.
func (r *Renderer) Render(s app.Snapshot) error {
	g := s.Game
	dest := g.Destinations()

	var b strings.Builder
	fmt.Fprintf(&b, "%s    Time: %s\n", r.out.String(view.Status(g)).Bold(), view.Clock(g.Remaining))
	fmt.Fprintf(&b, "%s\n\n", view.Pieces(g))
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = r.cell(g, i, dest)
		}
		b.WriteString(strings.Join(cells, "|") + "\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}
	fmt.Fprintf(&b, "\nX has won %d times | O has won %d times\n", s.Score.X, s.Score.O)

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) cell(g domain.Game, i int, dest []int) string {
	text := " " + strconv.Itoa(i) + " "
	style := r.out.String().Faint()
	switch g.Board[i] {
	case domain.X:
		text, style = " X ", r.out.String().Foreground(r.out.Color("1")).Bold()
	case domain.O:
		text, style = " O ", r.out.String().Foreground(r.out.Color("4")).Bold()
	}
	switch {
	case g.Selected == i:
		text = "[" + strings.TrimSpace(text) + "]"
		style = style.Reverse()
	case contains(dest, i):
		text = "(" + strings.TrimSpace(text) + ")"
		style = style.Underline()
	}
	return style.Styled(text)
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
