// Command server serves 4x4 tic-tac-toe over HTTP.
package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/jaminalder/quad-tic-tac-toe/internal/app"
    "github.com/jaminalder/quad-tic-tac-toe/internal/config"
    "github.com/jaminalder/quad-tic-tac-toe/internal/web"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        logrus.WithError(err).Fatal("load config")
    }
    log := cfg.NewLogger(os.Stderr)

    opts := []app.Option{app.WithLogger(log)}
    if cfg.Seed != 0 {
        opts = append(opts, app.WithSeed(cfg.Seed))
    }
    svc := app.NewService(opts...)
    server := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, web.WithLogger(log), web.WithHeartbeat(cfg.Heartbeat)),
        ReadHeaderTimeout: 5 * time.Second,
    }

    serverErrCh := make(chan error, 1)
    go func() {
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            serverErrCh <- err
        }
        close(serverErrCh)
    }()

    sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stopSignals()

    log.WithField("addr", cfg.Addr).Info("listening")
    var runErr error
    select {
    case <-sigCtx.Done():
        log.Info("shutdown signal received")
    case err, ok := <-serverErrCh:
        if ok {
            runErr = err
        }
    }

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.WithError(err).Warn("graceful shutdown failed")
        _ = server.Close()
    }
    if runErr != nil {
        log.WithError(runErr).Fatal("server error")
    }
}
