// Package search finds optimal moves with minimax and alpha-beta pruning.
//
// Scores are from the maximizer's point of view. A decided game scores the number of empty
// cells left when it ended, positive for a maximizer win and negative for a loss, so among
// equal outcomes faster wins and slower losses rank higher. A tie scores zero.
package search

import (
    "context"
    "fmt"
    "math"

    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// NoPosition marks a result produced at a terminal node.
const NoPosition = -1

// Window bounds used at the root.
const (
    NegInf = math.MinInt
    PosInf = math.MaxInt
)

// Result pairs a chosen cell with its score.
type Result struct {
    Position int
    Score    int
}

// checkEvery is the number of nodes visited between context checks.
const checkEvery = 1 << 12

// Searcher runs searches over a shared board and counts the nodes it visits.
type Searcher struct {
    Nodes int

    ctx context.Context
    err error
}

// Best runs a full-window alpha-beta search for player.
func Best(b *domain.Board, maximizer, player domain.Cell) Result {
    var s Searcher
    return s.AlphaBeta(b, maximizer, player, NegInf, PosInf)
}

// AlphaBetaContext is AlphaBeta that gives up once ctx is done. The board is restored either
// way; the result is only meaningful when the error is nil.
func (s *Searcher) AlphaBetaContext(ctx context.Context, b *domain.Board, maximizer, player domain.Cell, alpha, beta int) (Result, error) {
    s.ctx, s.err = ctx, nil
    defer func() { s.ctx = nil }()
    r := s.AlphaBeta(b, maximizer, player, alpha, beta)
    return r, s.err
}

// AlphaBeta explores every continuation from b with player to move. The board is mutated
// during the search and restored before returning.
func (s *Searcher) AlphaBeta(b *domain.Board, maximizer, player domain.Cell, alpha, beta int) Result {
    s.Nodes++
    if s.stopped() {
        return Result{Position: NoPosition}
    }
    if r, ok := terminal(b, maximizer, player); ok {
        return r
    }
    moves := b.LegalMoves()
    if len(moves) == 0 {
        panic(fmt.Sprintf("search: no legal moves on a board that is neither won nor full: %v", b.Cells()))
    }

    opp := domain.Opponent(player)
    maximizing := player == maximizer
    var best Result
    for i, cell := range moves {
        r := s.try(b, cell, player, func() Result {
            return s.AlphaBeta(b, maximizer, opp, alpha, beta)
        })
        if s.err != nil {
            break
        }
        r.Position = cell
        if maximizing {
            if i == 0 || r.Score > best.Score {
                best = r
            }
            alpha = max(alpha, best.Score)
        } else {
            if i == 0 || r.Score < best.Score {
                best = r
            }
            beta = min(beta, best.Score)
        }
        if beta <= alpha {
            break
        }
    }
    return best
}

// Minimax is the unpruned traversal. It visits the whole tree and exists to check AlphaBeta.
func (s *Searcher) Minimax(b *domain.Board, maximizer, player domain.Cell) Result {
    s.Nodes++
    if r, ok := terminal(b, maximizer, player); ok {
        return r
    }
    moves := b.LegalMoves()
    if len(moves) == 0 {
        panic(fmt.Sprintf("search: no legal moves on a board that is neither won nor full: %v", b.Cells()))
    }

    opp := domain.Opponent(player)
    var best Result
    for i, cell := range moves {
        r := s.try(b, cell, player, func() Result {
            return s.Minimax(b, maximizer, opp)
        })
        r.Position = cell
        better := r.Score > best.Score
        if player != maximizer {
            better = r.Score < best.Score
        }
        if i == 0 || better {
            best = r
        }
    }
    return best
}

// try plays cell for player, evaluates the child and takes the move back on every exit path.
func (s *Searcher) try(b *domain.Board, cell int, player domain.Cell, child func() Result) Result {
    if !b.ApplyMove(cell, player) {
        panic(fmt.Sprintf("search: generated illegal move %d", cell))
    }
    defer b.UndoMove(cell)
    return child()
}

func (s *Searcher) stopped() bool {
    if s.err != nil {
        return true
    }
    if s.ctx == nil || (s.Nodes-1)%checkEvery != 0 {
        return false
    }
    s.err = s.ctx.Err()
    return s.err != nil
}

func terminal(b *domain.Board, maximizer, player domain.Cell) (Result, bool) {
    if w, ok := b.LastWinner(); ok && w == domain.Opponent(player) {
        score := b.EmptyCount()
        if w != maximizer {
            score = -score
        }
        return Result{Position: NoPosition, Score: score}, true
    }
    if b.IsFull() {
        return Result{Position: NoPosition, Score: 0}, true
    }
    return Result{}, false
}
