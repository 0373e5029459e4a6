// Package view holds the text shown to players, shared by the web and
// terminal front ends.
package view

import (
	"fmt"

	"github.com/jaminalder/moving-tic-tac-toe/internal/domain"
)

// Clock renders seconds as m:ss.
func Clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Status is the one-line match summary.
func Status(g domain.Game) string {
	switch g.Outcome {
	case domain.Draw:
		return "Game Draw!"
	case domain.XWins, domain.OWins:
		return "Winner: " + g.Outcome.Winner().String()
	}
	phase := "Placement"
	if g.Phase == domain.Movement {
		phase = "Movement"
	}
	return fmt.Sprintf("Current Player: %s | Phase: %s", g.Turn, phase)
}

// Pieces reports how many marks each side has placed.
func Pieces(g domain.Game) string {
	return fmt.Sprintf("Player X: %d/%d pieces | Player O: %d/%d pieces",
		g.Placed.X, domain.PiecesPerPlayer, g.Placed.O, domain.PiecesPerPlayer)
}
