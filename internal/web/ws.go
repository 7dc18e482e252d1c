package web

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"

    "github.com/jaminalder/quad-tic-tac-toe/internal/app"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

type boardPayload struct {
    ID     string   `json:"id"`
    Cells  []string `json:"cells"`
    Turn   string   `json:"turn"`
    Winner string   `json:"winner,omitempty"`
    Over   bool     `json:"over"`
    Moves  int      `json:"moves"`
    Status string   `json:"status"`
}

func newBoardPayload(gs app.GameState) boardPayload {
    cells := gs.Game.Board.Cells()
    p := boardPayload{
        ID:     gs.ID,
        Cells:  make([]string, domain.Size),
        Turn:   gs.Game.Turn.String(),
        Over:   gs.Game.Over,
        Moves:  gs.Game.Moves,
        Status: statusText(gs),
    }
    for i, c := range cells {
        if c != domain.Empty {
            p.Cells[i] = c.String()
        }
    }
    if gs.Game.Over && gs.Game.Winner != domain.Empty {
        p.Winner = gs.Game.Winner.String()
    }
    return p
}

func boardMessage(gs app.GameState) []byte {
    payload, _ := json.Marshal(newBoardPayload(gs))
    msg, _ := json.Marshal(wsMessage{Type: "board", Payload: payload})
    return msg
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the board as JSON: one message on connect, then one per update.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.WithError(err).Debug("websocket upgrade")
        return
    }
    defer conn.Close()

    ctx := r.Context()
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    // reader: only needed to notice the client going away
    closed := make(chan struct{})
    go func() {
        defer close(closed)
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    if err := conn.WriteMessage(websocket.TextMessage, boardMessage(*gs)); err != nil {
        return
    }
    h.writeWithHeartbeat(conn, id, updates, closed)
}

func (h *handlers) writeWithHeartbeat(conn *websocket.Conn, id string, updates <-chan []byte, closed <-chan struct{}) {
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    lastWrite := time.Now()
    ping, _ := json.Marshal(wsMessage{Type: "ping"})

    for {
        select {
        case <-closed:
            return
        case _, ok := <-updates:
            if !ok {
                return
            }
            gs, found := h.svc.Get(id)
            if !found {
                return
            }
            if err := conn.WriteMessage(websocket.TextMessage, boardMessage(*gs)); err != nil {
                return
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < h.heartbeat {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
                return
            }
            lastWrite = time.Now()
        }
    }
}
