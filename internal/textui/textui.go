// Package textui draws boards as text and reads human moves from a line-oriented stream.
package textui

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/jaminalder/quad-tic-tac-toe/internal/agent"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// Render draws the board one row per line, e.g. "| X | O |   |   |".
func Render(b *domain.Board) string {
    cells := b.Cells()
    var sb strings.Builder
    for r := 0; r < domain.Side; r++ {
        row := make([]string, domain.Side)
        for c := range row {
            row[c] = cells[r*domain.Side+c].String()
        }
        sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
    }
    return sb.String()
}

// RenderNumbers draws the cell numbering used for input.
func RenderNumbers() string {
    var sb strings.Builder
    for r := 0; r < domain.Side; r++ {
        row := make([]string, domain.Side)
        for c := range row {
            row[c] = strconv.Itoa(r*domain.Side + c)
        }
        sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
    }
    return sb.String()
}

// LineSource prompts on out and reads one cell number per line from in.
type LineSource struct {
    in  *bufio.Reader
    out io.Writer
}

func NewLineSource(in io.Reader, out io.Writer) *LineSource {
    return &LineSource{in: bufio.NewReader(in), out: out}
}

// NextMove blocks on the reader; ctx is only checked before prompting.
func (s *LineSource) NextMove(ctx context.Context, mark domain.Cell) (int, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    fmt.Fprintf(s.out, "%s's turn. Input move (0-%d): ", mark, domain.Size-1)
    line, err := s.in.ReadString('\n')
    if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
        return 0, err
    }
    v, convErr := strconv.Atoi(strings.TrimSpace(line))
    if convErr != nil {
        return 0, fmt.Errorf("%w: %q", agent.ErrInvalidInput, strings.TrimSpace(line))
    }
    return v, nil
}

func (s *LineSource) Reject(mark domain.Cell, err error) {
    fmt.Fprintln(s.out, "Invalid square. Try again.")
}
