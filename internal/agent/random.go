package agent

import (
    "context"
    "math/rand/v2"

    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// Random plays a uniformly chosen legal move.
type Random struct {
    mark domain.Cell
    rng  *rand.Rand
}

func NewRandom(mark domain.Cell, rng *rand.Rand) *Random {
    return &Random{mark: mark, rng: rng}
}

func (r *Random) Mark() domain.Cell { return r.mark }

func (r *Random) Decide(ctx context.Context, b *domain.Board) (int, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    return pick(r.rng, b.LegalMoves())
}

func pick(rng *rand.Rand, moves []int) (int, error) {
    if len(moves) == 0 {
        return 0, ErrNoLegalMoves
    }
    return moves[rng.IntN(len(moves))], nil
}
