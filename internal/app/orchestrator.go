package app

import (
    "context"
    "errors"
    "fmt"

    "github.com/jaminalder/quad-tic-tac-toe/internal/agent"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// State is the lifecycle of a played-out game.
type State uint8

const (
    InProgress State = iota
    Won
    Tied
)

func (s State) String() string {
    switch s {
    case Won:
        return "won"
    case Tied:
        return "tied"
    default:
        return "in progress"
    }
}

// Outcome reports how RunGame ended.
type Outcome struct {
    State  State
    Winner domain.Cell
    Moves  int
}

// MoveObserver is told about every move RunGame applies.
type MoveObserver func(mark domain.Cell, cell int, b *domain.Board)

var ErrMarkMismatch = errors.New("agent plays the wrong mark")

// RunGame alternates x and o on b until someone wins or the board fills. A move the board
// refuses is asked for again from the same agent without passing the turn.
func RunGame(ctx context.Context, b *domain.Board, x, o agent.Agent, observers ...MoveObserver) (Outcome, error) {
    if x.Mark() != domain.X || o.Mark() != domain.O {
        return Outcome{}, ErrMarkMismatch
    }
    out := Outcome{State: InProgress}
    mark := b.NextMark()
    for {
        if w, ok := b.LastWinner(); ok {
            out.State, out.Winner = Won, w
            return out, nil
        }
        if b.IsFull() {
            out.State = Tied
            return out, nil
        }
        if err := ctx.Err(); err != nil {
            return out, err
        }

        active := x
        if mark == domain.O {
            active = o
        }
        cell, err := active.Decide(ctx, b)
        if err != nil {
            return out, fmt.Errorf("%s to move: %w", mark, err)
        }
        if !b.ApplyMove(cell, mark) {
            continue
        }
        out.Moves++
        for _, obs := range observers {
            obs(mark, cell, b)
        }
        mark = domain.Opponent(mark)
    }
}
