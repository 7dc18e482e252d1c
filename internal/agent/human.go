package agent

import (
    "context"
    "errors"
    "fmt"
    "slices"

    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// ErrInvalidInput marks a source error the human can recover from by trying again.
var ErrInvalidInput = errors.New("invalid input")

// ErrIllegalCell is reported to a Rejecter when the chosen cell is not playable.
var ErrIllegalCell = errors.New("cell is not a legal move")

// MoveSource supplies the moves a human types, clicks or sends.
type MoveSource interface {
    NextMove(ctx context.Context, mark domain.Cell) (int, error)
}

// Rejecter is implemented by sources that want to hear why a move was refused.
type Rejecter interface {
    Reject(mark domain.Cell, err error)
}

// MoveSourceFunc adapts a function to MoveSource.
type MoveSourceFunc func(ctx context.Context, mark domain.Cell) (int, error)

func (f MoveSourceFunc) NextMove(ctx context.Context, mark domain.Cell) (int, error) {
    return f(ctx, mark)
}

// Human relays moves from a MoveSource, asking again until one is legal.
type Human struct {
    mark domain.Cell
    src  MoveSource
}

func NewHuman(mark domain.Cell, src MoveSource) *Human {
    return &Human{mark: mark, src: src}
}

func (h *Human) Mark() domain.Cell { return h.mark }

func (h *Human) Decide(ctx context.Context, b *domain.Board) (int, error) {
    legal := b.LegalMoves()
    if len(legal) == 0 {
        return 0, ErrNoLegalMoves
    }
    for {
        cell, err := h.src.NextMove(ctx, h.mark)
        switch {
        case errors.Is(err, ErrInvalidInput):
            h.reject(err)
            continue
        case err != nil:
            return 0, fmt.Errorf("read move for %s: %w", h.mark, err)
        }
        if !slices.Contains(legal, cell) {
            h.reject(fmt.Errorf("%w: %d", ErrIllegalCell, cell))
            continue
        }
        return cell, nil
    }
}

func (h *Human) reject(err error) {
    if r, ok := h.src.(Rejecter); ok {
        r.Reject(h.mark, err)
    }
}
