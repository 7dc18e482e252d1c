package domain

import "errors"

// Game holds the authoritative state of a match played move by move.
type Game struct {
    Board  Board
    Turn   Cell
    Winner Cell
    Over   bool
    Moves  int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Board: NewBoard(), Turn: X}
}

// Index converts row r, column c (0..3) to a cell index.
func Index(r, c int) (int, error) {
    if r < 0 || r >= Side || c < 0 || c >= Side {
        return 0, ErrOutOfBounds
    }
    return r*Side + c, nil
}

// PlayAt plays the current turn at row r, column c.
func (g *Game) PlayAt(r, c int) error {
    if g.Over {
        return ErrGameOver
    }
    idx, err := Index(r, c)
    if err != nil {
        return err
    }
    return g.Play(idx)
}

// Play attempts to play the current turn on cell.
func (g *Game) Play(cell int) error {
    if g.Over {
        return ErrGameOver
    }
    if cell < 0 || cell >= Size {
        return ErrOutOfBounds
    }
    if !g.Board.ApplyMove(cell, g.Turn) {
        return ErrOccupied
    }
    g.Moves++

    if w, ok := g.Board.LastWinner(); ok {
        g.Winner = w
        g.Over = true
        return nil
    }
    if g.Board.IsFull() {
        g.Winner = Empty
        g.Over = true
        return nil
    }
    g.Turn = Opponent(g.Turn)
    return nil
}
