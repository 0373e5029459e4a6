package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/jaminalder/moving-tic-tac-toe/internal/app"
	"github.com/jaminalder/moving-tic-tac-toe/internal/domain"
	"github.com/jaminalder/moving-tic-tac-toe/internal/view"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Moving Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Moving Tic-Tac-Toe</h1><form action="/session" method="post"><button>New session</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Moving Tic-Tac-Toe</h1>
<div hx-ext="sse" hx-sse="connect:/session/{{.ID}}/events">
  <div id="board-slot" hx-sse="swap:board">{{template "board" .}}</div>
</div>` + rulesTemplate))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <div class="game-info">
    <div class="status">{{.Status}}</div>
    <div class="timer">Time: {{.Clock}}</div>
    <div class="pieces-info">{{.Pieces}}</div>
  </div>
  <div class="board">
    {{range .Cells}}
    <button class="{{.Class}}" hx-post="/session/{{$.ID}}/cell/{{.Index}}" hx-target="#board" hx-swap="outerHTML">{{.Symbol}}</button>
    {{end}}
  </div>
  <div id="control-box">
    <div class="win-counter">
      <p>X has won {{.Score.X}} times</p>
      <p>O has won {{.Score.O}} times</p>
    </div>
    <div class="game-controls">
      <button hx-post="/session/{{.ID}}/new" hx-target="#board" hx-swap="outerHTML">New Game</button>
      <button hx-post="/session/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML">Reset Game and Counts</button>
    </div>
  </div>
</div>
`

const rulesTemplate = `
<div class="rules">
  <h3>Rules:</h3>
  <ul>
    <li>Each player places 3 pieces alternately</li>
    <li>Then move pieces orthogonally to adjacent squares</li>
    <li>Can move to center from any position if unoccupied</li>
    <li>From center, can move to any unoccupied position</li>
    <li>First to get 3 in a row wins</li>
    <li>Game draws after 3 minutes</li>
  </ul>
</div>`

type cellView struct {
	Index  int
	Symbol string
	Class  string
}

// boardView is everything the board fragment shows for one snapshot.
type boardView struct {
	ID     string
	Status string
	Clock  string
	Pieces string
	Score  domain.Counts
	Cells  [9]cellView
}

func newBoardView(s app.Snapshot) boardView {
	g := s.Game
	v := boardView{
		ID:     s.ID,
		Status: view.Status(g),
		Clock:  view.Clock(g.Remaining),
		Pieces: view.Pieces(g),
		Score:  s.Score,
	}
	dest := g.Destinations()
	for i, c := range g.Board {
		v.Cells[i] = cellView{Index: i, Symbol: c.String(), Class: cellClass(g, i, dest)}
	}
	return v
}

func cellClass(g domain.Game, i int, dest []int) string {
	classes := []string{"square"}
	switch g.Board[i] {
	case domain.X:
		classes = append(classes, "player-x")
	case domain.O:
		classes = append(classes, "player-o")
	}
	if g.Selected == i {
		classes = append(classes, "selected")
	}
	for _, d := range dest {
		if d == i {
			classes = append(classes, "valid-move")
			break
		}
	}
	return strings.Join(classes, " ")
}
