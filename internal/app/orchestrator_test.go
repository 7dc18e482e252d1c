package app

import (
    "context"
    "math/rand/v2"
    "testing"

    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jaminalder/quad-tic-tac-toe/internal/agent"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
    "github.com/jaminalder/quad-tic-tac-toe/internal/search"
)

// scriptedAgent plays a fixed list of cells and counts how often it was asked.
type scriptedAgent struct {
    mark  domain.Cell
    cells []int
    calls int
}

func (s *scriptedAgent) Mark() domain.Cell { return s.mark }

func (s *scriptedAgent) Decide(ctx context.Context, b *domain.Board) (int, error) {
    c := s.cells[s.calls]
    s.calls++
    return c, nil
}

func quietLogger() *logrus.Logger {
    l := logrus.New()
    l.SetLevel(logrus.WarnLevel)
    return l
}

func TestRunGameRowWin(t *testing.T) {
    b := domain.NewBoard()
    x := &scriptedAgent{mark: domain.X, cells: []int{0, 1, 2, 3}}
    o := &scriptedAgent{mark: domain.O, cells: []int{4, 5, 6}}
    out, err := RunGame(context.Background(), &b, x, o)
    require.NoError(t, err)
    assert.Equal(t, Won, out.State)
    assert.Equal(t, domain.X, out.Winner)
    assert.Equal(t, 7, out.Moves)
}

func TestRunGameRetriesIllegalMoveWithoutSwitchingTurn(t *testing.T) {
    b := domain.NewBoard()
    // O tries X's cell and an off-board cell before playing 4.
    x := &scriptedAgent{mark: domain.X, cells: []int{0, 1, 2, 3}}
    o := &scriptedAgent{mark: domain.O, cells: []int{0, 99, 4, 5, 6}}
    var seen []int
    out, err := RunGame(context.Background(), &b, x, o, func(mark domain.Cell, cell int, _ *domain.Board) {
        seen = append(seen, cell)
    })
    require.NoError(t, err)
    assert.Equal(t, Won, out.State)
    assert.Equal(t, domain.X, out.Winner)
    assert.Equal(t, 5, o.calls)
    assert.Equal(t, []int{0, 4, 1, 5, 2, 6, 3}, seen)
}

func TestRunGameFullBoardIsTie(t *testing.T) {
    // X X O O / O O X X / X X O O / O O X X
    var cells [domain.Size]domain.Cell
    for _, i := range []int{0, 1, 6, 7, 8, 9, 14, 15} {
        cells[i] = domain.X
    }
    for _, i := range []int{2, 3, 4, 5, 10, 11, 12, 13} {
        cells[i] = domain.O
    }
    b := domain.BoardOf(cells)
    x := &scriptedAgent{mark: domain.X}
    o := &scriptedAgent{mark: domain.O}
    out, err := RunGame(context.Background(), &b, x, o)
    require.NoError(t, err)
    assert.Equal(t, Tied, out.State)
    assert.Equal(t, domain.Empty, out.Winner)
    assert.Zero(t, x.calls+o.calls)
}

func TestRunGameScriptedTie(t *testing.T) {
    b := domain.NewBoard()
    x := &scriptedAgent{mark: domain.X, cells: []int{0, 1, 6, 7, 8, 9, 14, 15}}
    o := &scriptedAgent{mark: domain.O, cells: []int{2, 3, 4, 5, 10, 11, 12, 13}}
    out, err := RunGame(context.Background(), &b, x, o)
    require.NoError(t, err)
    assert.Equal(t, Tied, out.State)
    assert.Equal(t, domain.Size, out.Moves)
}

func TestRunGameRejectsSwappedAgents(t *testing.T) {
    b := domain.NewBoard()
    rng := rand.New(rand.NewPCG(1, 1))
    _, err := RunGame(context.Background(), &b, agent.NewRandom(domain.O, rng), agent.NewRandom(domain.X, rng))
    assert.ErrorIs(t, err, ErrMarkMismatch)
}

func TestRunGameCancelled(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    b := domain.NewBoard()
    rng := rand.New(rand.NewPCG(1, 1))
    _, err := RunGame(ctx, &b, agent.NewRandom(domain.X, rng), agent.NewRandom(domain.O, rng))
    assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomGamesTerminate(t *testing.T) {
    rng := rand.New(rand.NewPCG(5, 8))
    for i := 0; i < 100; i++ {
        b := domain.NewBoard()
        out, err := RunGame(context.Background(), &b, agent.NewRandom(domain.X, rng), agent.NewRandom(domain.O, rng))
        require.NoError(t, err)
        require.NotEqual(t, InProgress, out.State)
        assert.Equal(t, out.Moves, b.OccupiedCount())
        if out.State == Tied {
            assert.True(t, b.IsFull())
        }
    }
}

func TestOptimalNeverLosesFromMidgame(t *testing.T) {
    rng := rand.New(rand.NewPCG(21, 34))
    log := quietLogger()
    for i := 0; i < 6; i++ {
        b := domain.NewBoard()
        // A few random plies, then the optimal O takes over against random X.
        for ply := 0; ply < 6; ply++ {
            moves := b.LegalMoves()
            b.ApplyMove(moves[rng.IntN(len(moves))], b.NextMark())
        }
        if _, won := b.LastWinner(); won {
            continue
        }
        start := b
        value := search.Best(&start, domain.O, domain.X).Score
        x := agent.NewRandom(domain.X, rng)
        o := agent.NewOptimal(domain.O, rng, log)
        out, err := RunGame(context.Background(), &b, x, o)
        require.NoError(t, err)
        if value >= 0 && out.State == Won {
            assert.Equal(t, domain.O, out.Winner, "optimal O lost a held position: %v", start.Cells())
        }
        if value > 0 {
            assert.Equal(t, Won, out.State)
            assert.Equal(t, domain.O, out.Winner)
        }
    }
}

func TestOptimalSelfPlayTies(t *testing.T) {
    if testing.Short() {
        t.Skip("full-board self play is slow")
    }
    rng := rand.New(rand.NewPCG(2, 3))
    log := quietLogger()
    b := domain.NewBoard()
    out, err := RunGame(context.Background(), &b, agent.NewOptimal(domain.X, rng, log), agent.NewOptimal(domain.O, rng, log))
    require.NoError(t, err)
    assert.Equal(t, Tied, out.State)
}
