package app

import (
    "context"
    "errors"
    "fmt"
    "math/rand/v2"
    "sync"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/jaminalder/quad-tic-tac-toe/internal/agent"
    "github.com/jaminalder/quad-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
    ErrOpponent    = errors.New("unsupported opponent")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID       string
    Game     domain.Game
    X        string
    O        string
    Opponent agent.Kind
    Created  time.Time
    Updated  time.Time

    bot agent.Agent
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*GameState
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    rng    *rand.Rand
    log    logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for game events.
func WithLogger(l logrus.FieldLogger) Option {
    return func(s *Service) { s.log = l }
}

// WithSeed makes computer opponents reproducible.
func WithSeed(seed uint64) Option {
    return func(s *Service) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service {
    return NewServiceWithRenderer(func(gs GameState) []byte { return nil }, opts...)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    s := &Service{
        games:  make(map[string]*GameState),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: renderer,
        log:    logrus.StandardLogger(),
    }
    for _, opt := range opts {
        opt(s)
    }
    if s.rng == nil {
        s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame registers a new game. With a random or optimal opponent the computer takes the
// X seat and plays its opening move before CreateGame returns.
func (s *Service) CreateGame(ctx context.Context, opponent agent.Kind) (*GameState, error) {
    if opponent == agent.KindHuman {
        opponent = ""
    }
    s.mu.Lock()
    id := newGameID()
    now := time.Now()
    gs := &GameState{ID: id, Game: domain.New(), Opponent: opponent, Created: now, Updated: now}
    switch opponent {
    case "":
    case agent.KindRandom, agent.KindOptimal:
        // each bot owns its generator; bots run outside the lock
        rng := rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
        log := s.log.WithField("game_id", id)
        if opponent == agent.KindRandom {
            gs.bot = agent.NewRandom(domain.X, rng)
        } else {
            gs.bot = agent.NewOptimal(domain.X, rng, log)
        }
        gs.X = newBotSeat()
    default:
        s.mu.Unlock()
        return nil, fmt.Errorf("%w: %q", ErrOpponent, opponent)
    }
    s.games[id] = gs
    cp := *gs
    s.mu.Unlock()

    s.log.WithFields(logrus.Fields{"game_id": id, "opponent": string(opponent)}).Info("game created")
    if gs.bot != nil {
        if st := s.botTurn(ctx, id); st != nil {
            cp = *st
        }
    }
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join assigns a seat to the player if available; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.X == "" || gs.X == playerID {
        gs.X = playerID
        side = domain.X
    } else if gs.O == "" || gs.O == playerID {
        gs.O = playerID
        side = domain.O
    }
    gs.Updated = time.Now()
    cp := *gs
    return side, &cp, nil
}

// Play validates seat and turn, applies a move at row r, column c, and broadcasts. When the
// computer is to move afterwards its reply is included in the returned state.
func (s *Service) Play(ctx context.Context, id, playerID string, r, c int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    // Validate player is seated
    var seat domain.Cell
    if gs.X == playerID {
        seat = domain.X
    } else if gs.O == playerID {
        seat = domain.O
    } else {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    // Validate turn
    if seat != gs.Game.Turn && !gs.Game.Over {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := gs.Game.PlayAt(r, c); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = time.Now()
    cp := *gs
    s.publishLocked(id, cp)
    s.mu.Unlock()

    s.log.WithFields(logrus.Fields{"game_id": id, "mark": seat.String(), "row": r, "col": c}).Debug("move played")
    if gs.bot != nil && !cp.Game.Over {
        if st := s.botTurn(ctx, id); st != nil {
            cp = *st
        }
    }
    return &cp, nil
}

// botTurn lets the computer move if it is its turn. The search runs on a copy of the board
// without holding the lock; the reply is dropped if the game moved on meanwhile. It ignores
// cancellation of ctx, since nothing would resume the computer's turn afterwards.
func (s *Service) botTurn(ctx context.Context, id string) *GameState {
    ctx = context.WithoutCancel(ctx)
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok || gs.bot == nil || gs.Game.Over || gs.Game.Turn != gs.bot.Mark() {
        s.mu.Unlock()
        return nil
    }
    bot := gs.bot
    board := gs.Game.Board
    moves := gs.Game.Moves
    s.mu.Unlock()

    log := s.log.WithFields(logrus.Fields{"game_id": id, "mark": bot.Mark().String()})
    start := time.Now()
    cell, err := bot.Decide(ctx, &board)
    if err != nil {
        log.WithError(err).Warn("computer move failed")
        return nil
    }

    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok = s.games[id]
    if !ok || gs.Game.Moves != moves {
        log.Warn("game changed during computer move")
        return nil
    }
    if err := gs.Game.Play(cell); err != nil {
        log.WithError(err).WithField("cell", cell).Error("computer chose an illegal move")
        return nil
    }
    gs.Updated = time.Now()
    cp := *gs
    s.publishLocked(id, cp)
    log.WithFields(logrus.Fields{"cell": cell, "elapsed": time.Since(start)}).Info("computer moved")
    return &cp
}

// publishLocked fans a rendered state out to subscribers; slow subscribers are dropped.
// Sends never block, so it is safe to call with s.mu held.
func (s *Service) publishLocked(id string, gs GameState) {
    set, ok := s.subs[id]
    if !ok || len(set) == 0 {
        return
    }
    payload := s.render(gs)
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            // drop slow subscriber
            sub.close()
            delete(set, sub)
        }
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
// For an unknown game the channel is already closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        ch := make(chan []byte)
        close(ch)
        return ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}
