// Command tictactoe plays 4x4 tic-tac-toe in the terminal.
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "math/rand/v2"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/jaminalder/quad-tic-tac-toe/internal/agent"
    "github.com/jaminalder/quad-tic-tac-toe/internal/app"
    "github.com/jaminalder/quad-tic-tac-toe/internal/config"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
    "github.com/jaminalder/quad-tic-tac-toe/internal/textui"
)

func main() {
    if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
        fmt.Fprintln(os.Stderr, "tictactoe:", err)
        os.Exit(1)
    }
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
    cfg, err := config.Load()
    if err != nil {
        return err
    }

    fs := flag.NewFlagSet("tictactoe", flag.ContinueOnError)
    fs.SetOutput(stderr)
    xKind := fs.String("x", "optimal", "agent playing X: optimal, random or human")
    oKind := fs.String("o", "human", "agent playing O: optimal, random or human")
    seed := fs.Uint64("seed", cfg.Seed, "random seed (0 picks one from the clock)")
    quiet := fs.Bool("quiet", false, "print only the result")
    logLevel := fs.String("log-level", cfg.LogLevel, "log level")
    if err := fs.Parse(args); err != nil {
        return err
    }

    cfg.LogLevel = *logLevel
    if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
        return err
    }
    log := cfg.NewLogger(stderr)

    s := *seed
    if s == 0 {
        s = uint64(time.Now().UnixNano())
    }
    rng := rand.New(rand.NewPCG(s, s>>1|1))
    log.WithField("seed", s).Debug("random source ready")

    src := textui.NewLineSource(stdin, stdout)
    x, err := newAgent(*xKind, domain.X, rng, src, log)
    if err != nil {
        return err
    }
    o, err := newAgent(*oKind, domain.O, rng, src, log)
    if err != nil {
        return err
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    b := domain.NewBoard()
    var observers []app.MoveObserver
    if !*quiet {
        fmt.Fprint(stdout, textui.RenderNumbers())
        observers = append(observers, func(mark domain.Cell, cell int, b *domain.Board) {
            fmt.Fprintf(stdout, "%s makes a move to square %d\n", mark, cell)
            fmt.Fprint(stdout, textui.Render(b))
            fmt.Fprintln(stdout)
        })
    }
    out, err := app.RunGame(ctx, &b, x, o, observers...)
    if err != nil {
        if errors.Is(err, io.EOF) {
            return errors.New("input closed before the game ended")
        }
        return err
    }

    switch out.State {
    case app.Won:
        fmt.Fprintf(stdout, "%s wins!\n", out.Winner)
    default:
        fmt.Fprintln(stdout, "It's a tie")
    }
    log.WithFields(logrus.Fields{"result": out.State.String(), "moves": out.Moves}).Debug("game over")
    return nil
}

func newAgent(name string, mark domain.Cell, rng *rand.Rand, src agent.MoveSource, log logrus.FieldLogger) (agent.Agent, error) {
    kind, err := agent.ParseKind(name)
    if err != nil {
        return nil, err
    }
    switch kind {
    case agent.KindHuman:
        return agent.NewHuman(mark, src), nil
    case agent.KindRandom:
        return agent.NewRandom(mark, rng), nil
    default:
        return agent.NewOptimal(mark, rng, log.WithField("agent", "optimal")), nil
    }
}
