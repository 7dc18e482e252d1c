// Package agent holds the move-choosing players: optimal search, uniform random, and a
// human whose moves arrive from an outside source.
package agent

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// Agent picks a move for its mark on the given board.
type Agent interface {
    Mark() domain.Cell
    Decide(ctx context.Context, b *domain.Board) (int, error)
}

// Kind names an agent variant.
type Kind string

const (
    KindHuman   Kind = "human"
    KindRandom  Kind = "random"
    KindOptimal Kind = "optimal"
)

var (
    ErrUnknownKind  = errors.New("unknown agent kind")
    ErrNoLegalMoves = errors.New("no legal moves")
    ErrDecided      = errors.New("game already decided")
)

// ParseKind accepts the agent names used on the command line and in forms.
func ParseKind(s string) (Kind, error) {
    switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
    case KindHuman, KindRandom, KindOptimal:
        return k, nil
    case "smart", "ai", "minimax":
        return KindOptimal, nil
    }
    return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
