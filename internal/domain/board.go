package domain

import "fmt"

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Side is the board width; Size the number of cells.
const (
    Side = 4
    Size = Side * Side
)

var (
    diagDown = [Side]int{0, 5, 10, 15}
    diagUp   = [Side]int{3, 6, 9, 12}
)

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return " "
    }
}

// Opponent returns the other mark; Empty maps to Empty.
func Opponent(c Cell) Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Board is a fixed 4x4 board stored row-major, plus the winner recorded by the last move.
// It is a plain value: copying a Board gives an independent board.
type Board struct {
    cells      [Size]Cell
    lastWinner Cell
}

// NewBoard returns an empty board.
func NewBoard() Board {
    return Board{}
}

// BoardOf builds a board from explicit cell contents. No winner is recorded.
func BoardOf(cells [Size]Cell) Board {
    return Board{cells: cells}
}

// ApplyMove places mark on cell. It reports false, leaving the board untouched, when the
// cell is out of range or occupied.
func (b *Board) ApplyMove(cell int, mark Cell) bool {
    if cell < 0 || cell >= Size || b.cells[cell] != Empty {
        return false
    }
    if mark != X && mark != O {
        return false
    }
    b.cells[cell] = mark
    if b.Winner(cell, mark) {
        b.lastWinner = mark
    }
    return true
}

// UndoMove clears cell and forgets the recorded winner. Only valid to reverse a prior ApplyMove.
func (b *Board) UndoMove(cell int) {
    if cell < 0 || cell >= Size {
        panic(fmt.Sprintf("domain: undo of out-of-range cell %d", cell))
    }
    b.cells[cell] = Empty
    b.lastWinner = Empty
}

// Winner reports whether mark, just placed at cell, completes the row or column through cell.
// The two long diagonals are only examined when cell is even, so a diagonal completed on an
// odd cell goes undetected.
func (b *Board) Winner(cell int, mark Cell) bool {
    row := cell / Side
    if b.lineFull(mark, row*Side, 1) {
        return true
    }
    col := cell % Side
    if b.lineFull(mark, col, Side) {
        return true
    }
    if cell%2 == 0 {
        if b.allOf(mark, diagDown) || b.allOf(mark, diagUp) {
            return true
        }
    }
    return false
}

func (b *Board) lineFull(mark Cell, start, step int) bool {
    for i := 0; i < Side; i++ {
        if b.cells[start+i*step] != mark {
            return false
        }
    }
    return true
}

func (b *Board) allOf(mark Cell, idx [Side]int) bool {
    for _, i := range idx {
        if b.cells[i] != mark {
            return false
        }
    }
    return true
}

// LastWinner returns the mark that completed a line with the most recent move, if any.
func (b *Board) LastWinner() (Cell, bool) {
    return b.lastWinner, b.lastWinner != Empty
}

// At returns the content of cell.
func (b *Board) At(cell int) Cell { return b.cells[cell] }

// Cells returns a copy of the grid.
func (b *Board) Cells() [Size]Cell { return b.cells }

func (b *Board) EmptyCount() int {
    n := 0
    for _, c := range b.cells {
        if c == Empty {
            n++
        }
    }
    return n
}

func (b *Board) OccupiedCount() int { return Size - b.EmptyCount() }

func (b *Board) IsFull() bool { return b.EmptyCount() == 0 }

// LegalMoves lists the empty cells in ascending order.
func (b *Board) LegalMoves() []int {
    out := make([]int, 0, Size)
    for i, c := range b.cells {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// NextMark is the side to move assuming X started: X when both have placed equally many marks.
func (b *Board) NextMark() Cell {
    var xs, os int
    for _, c := range b.cells {
        switch c {
        case X:
            xs++
        case O:
            os++
        }
    }
    if xs > os {
        return O
    }
    return X
}
