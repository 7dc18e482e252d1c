package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/quad-tic-tac-toe/internal/app"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string {
            switch c { case domain.X: return "X"; case domain.O: return "O"; default: return "" }
        },
        "eq":   func(a, b any) bool { return a == b },
        "add":  func(a, b int) int { return a + b },
        "mul":  func(a, b int) int { return a * b },
        "side": func() int { return domain.Side },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe 4x4</h1>
<form action="/game" method="post">
  <select name="opponent">
    <option value="human">Human</option>
    <option value="random">Random computer</option>
    <option value="optimal">Optimal computer</option>
  </select>
  <button>Create</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.Game.ID}}/events">
  <div id="board-stream" hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
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
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{if .Status}}
  <div class="status">{{.Status}}</div>
  {{end}}
  {{$id := .ID}}{{$board := .Game.Board}}
  {{/* 4x4 grid */}}
  {{range $r := iter side}}
  <div class="row">
    {{range $c := iter side}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit">{{cellSymbol ($board.At (add (mul $r side) $c))}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
</div>
`

// boardData is what the board fragment renders.
type boardData struct {
    ID     string
    Game   struct{ Board *domain.Board }
    Status string
    Error  string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
    d := boardData{ID: gs.ID, Status: statusText(gs), Error: errMsg}
    b := gs.Game.Board
    d.Game.Board = &b
    return d
}

func statusText(gs app.GameState) string {
    switch {
    case gs.Game.Over && gs.Game.Winner != domain.Empty:
        return gs.Game.Winner.String() + " wins!"
    case gs.Game.Over:
        return "It's a tie"
    default:
        return gs.Game.Turn.String() + " to move"
    }
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
