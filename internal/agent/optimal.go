package agent

import (
    "context"
    "math/rand/v2"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
    "github.com/jaminalder/quad-tic-tac-toe/internal/search"
)

// Optimal plays the move found by a full alpha-beta search. On an empty board every opening
// is equivalent, so it picks one at random instead of searching.
type Optimal struct {
    mark domain.Cell
    rng  *rand.Rand
    log  logrus.FieldLogger
}

func NewOptimal(mark domain.Cell, rng *rand.Rand, log logrus.FieldLogger) *Optimal {
    if log == nil {
        log = logrus.StandardLogger()
    }
    return &Optimal{mark: mark, rng: rng, log: log}
}

func (o *Optimal) Mark() domain.Cell { return o.mark }

// Decide searches on b directly and stops early once ctx is done. b is back in its original
// state when Decide returns.
func (o *Optimal) Decide(ctx context.Context, b *domain.Board) (int, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    if _, won := b.LastWinner(); won {
        return 0, ErrDecided
    }
    moves := b.LegalMoves()
    if len(moves) == domain.Size {
        return pick(o.rng, moves)
    }
    if len(moves) == 0 {
        return 0, ErrNoLegalMoves
    }

    start := time.Now()
    var s search.Searcher
    r, err := s.AlphaBetaContext(ctx, b, o.mark, o.mark, search.NegInf, search.PosInf)
    if err != nil {
        o.log.WithError(err).WithField("nodes", s.Nodes).Debug("search abandoned")
        return 0, err
    }
    o.log.WithFields(logrus.Fields{
        "mark":    o.mark.String(),
        "cell":    r.Position,
        "score":   r.Score,
        "nodes":   s.Nodes,
        "elapsed": time.Since(start),
    }).Debug("search finished")
    if r.Position == search.NoPosition {
        return 0, ErrDecided
    }
    return r.Position, nil
}
