package web

import (
    "bytes"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/sirupsen/logrus"

    "github.com/jaminalder/quad-tic-tac-toe/internal/app"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the request and handler logger.
func WithLogger(l logrus.FieldLogger) Option {
    return func(h *handlers) { h.log = l }
}

// WithHeartbeat sets the keep-alive interval of SSE and WebSocket streams.
func WithHeartbeat(d time.Duration) Option {
    return func(h *handlers) {
        if d > 0 {
            h.heartbeat = d
        }
    }
}

// NewServer wires routes and returns an http.Handler. It installs the board fragment as the
// service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), log: logrus.StandardLogger(), heartbeat: 15 * time.Second}
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte {
        // SSE data lines cannot carry raw newlines
        return bytes.ReplaceAll(h.renderBoard(gs, ""), []byte("\n"), []byte(" "))
    })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(h.log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Get("/healthz", h.health)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.WithFields(logrus.Fields{
                "method":     r.Method,
                "path":       r.URL.Path,
                "status":     ww.Status(),
                "bytes":      ww.BytesWritten(),
                "elapsed":    time.Since(start),
                "request_id": middleware.GetReqID(r.Context()),
            }).Debug("request")
        })
    }
}
