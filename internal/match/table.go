// apps/go-server/internal/match/table.go
//
// A Table owns one game seat arrangement and the session currently played on it.
// Responsibilities:
//   - Deal new games from a tile source (and restart them in place).
//   - Serialize human actions and computer steps against the session.
//   - Run the computer's turn as a cancellable background task.
//   - Publish every state change (events + snapshot) to subscribers.
//
// Notes:
//   - Each deal bumps the table generation. A computer step captured under an
//     older generation is discarded instead of touching the new session.
//   - Before the first successful deal the table is in setup and every action
//     fails with ErrNoGame. A failed deal leaves the table as it was.

package match

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/broadcast"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/opponent"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/tiles"
)

var (
	// ErrNoGame is returned for actions on a table that has not dealt yet.
	ErrNoGame = errors.New("no game in progress")

	errStale = errors.New("stale opponent step")
)

// Options configure a deal.
type Options struct {
	Mode     game.Mode      `json:"mode"`
	Tier     game.Tier      `json:"aiDifficulty"`
	Category tiles.Category `json:"category"`
}

// Deps are the collaborators a table needs.
type Deps struct {
	Source    tiles.Source
	Publisher broadcast.Publisher
	Runner    opponent.Runner
	Logger    zerolog.Logger
	NewRand   func() game.Shuffler // nil uses a time-seeded source
}

// Result is what an action produced, plus the state after it.
type Result struct {
	Generation uint64        `json:"generation"`
	Events     []game.Event  `json:"events"`
	Snapshot   game.Snapshot `json:"snapshot"`
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Table is safe for concurrent use.
type Table struct {
	id   string
	deps Deps
	log  zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	opts    Options
	session *game.Session
	pending *task
}

// New returns a table in setup state.
func New(id string, deps Deps) *Table {
	return &Table{
		id:   id,
		deps: deps,
		log:  deps.Logger.With().Str("gameId", id).Logger(),
	}
}

// ID returns the table's identifier.
func (t *Table) ID() string { return t.id }

// Options returns the options of the last successful deal.
func (t *Table) Options() Options {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts
}

// NewGame fetches tiles and deals a fresh session, replacing any current one.
// A pending computer turn from the previous session is cancelled and its
// decision discarded.
func (t *Table) NewGame(ctx context.Context, opts Options) (Result, error) {
	if opts.Category == "" {
		opts.Category = tiles.Easy
	}
	if t.deps.Source == nil {
		return Result{}, fmt.Errorf("%w: no tile source configured", game.ErrGenerationFailure)
	}
	specs, err := t.deps.Source.Generate(ctx, opts.Category)
	if err != nil {
		if !errors.Is(err, game.ErrGenerationFailure) {
			err = fmt.Errorf("%w: %v", game.ErrGenerationFailure, err)
		}
		t.log.Warn().Err(err).Str("category", string(opts.Category)).Msg("tile generation failed")
		return Result{}, err
	}

	var rng game.Shuffler
	if t.deps.NewRand != nil {
		rng = t.deps.NewRand()
	}
	s, evs, err := game.Deal(specs, game.Config{Mode: opts.Mode, Tier: opts.Tier}, rng)
	if err != nil {
		t.log.Warn().Err(err).Int("tiles", len(specs)).Msg("deal failed")
		return Result{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.gen++
	t.session = s
	t.opts = Options{Mode: s.Mode(), Tier: s.Tier(), Category: opts.Category}

	t.log.Info().
		Uint64("generation", t.gen).
		Str("mode", string(s.Mode())).
		Str("tier", string(s.Tier())).
		Str("category", string(opts.Category)).
		Int("heap", len(s.Heap())).
		Msg("game dealt")

	res := t.commitLocked(evs)
	t.kickLocked()
	return res, nil
}

// Restart deals again with the last options.
func (t *Table) Restart(ctx context.Context) (Result, error) {
	return t.NewGame(ctx, t.Options())
}

// Snapshot returns the current state.
func (t *Table) Snapshot() (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return Result{}, ErrNoGame
	}
	return Result{Generation: t.gen, Snapshot: t.session.Snapshot()}, nil
}

// Select toggles p's pending tile.
func (t *Table) Select(p game.Player, tileID int) (Result, error) {
	return t.act(p, func(s *game.Session) ([]game.Event, error) { return s.Select(p, tileID) })
}

// Place attaches p's selected tile at the given end.
func (t *Table) Place(p game.Player, at game.End) (Result, error) {
	return t.act(p, func(s *game.Session) ([]game.Event, error) { return s.Place(p, at) })
}

// PlaceTile selects and places a tile in one call.
func (t *Table) PlaceTile(p game.Player, tileID int, at game.End) (Result, error) {
	return t.act(p, func(s *game.Session) ([]game.Event, error) { return s.PlaceTile(p, tileID, at) })
}

// Draw takes the front heap tile into p's hand.
func (t *Table) Draw(p game.Player) (Result, error) {
	return t.act(p, func(s *game.Session) ([]game.Event, error) { return s.Draw(p) })
}

// Pass ends p's turn without placing.
func (t *Table) Pass(p game.Player) (Result, error) {
	return t.act(p, func(s *game.Session) ([]game.Event, error) { return s.Pass(p) })
}

// WaitIdle blocks until no computer turn is pending or ctx ends.
func (t *Table) WaitIdle(ctx context.Context) error {
	t.mu.Lock()
	tk := t.pending
	t.mu.Unlock()
	if tk == nil {
		return nil
	}
	select {
	case <-tk.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close abandons any pending computer turn.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// act applies a human action. Non-fatal engine errors still publish their events.
func (t *Table) act(p game.Player, fn func(*game.Session) ([]game.Event, error)) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return Result{}, ErrNoGame
	}
	if !p.Valid() || t.session.IsComputer(p) {
		return Result{}, game.ErrNotYourTurn
	}
	evs, err := fn(t.session)
	res := t.commitLocked(evs)
	if err != nil {
		t.log.Debug().Err(err).Str("player", string(p)).Msg("action rejected")
		return res, err
	}
	t.kickLocked()
	return res, nil
}

// commitLocked publishes evs with a fresh snapshot.
func (t *Table) commitLocked(evs []game.Event) Result {
	res := Result{Generation: t.gen, Events: evs, Snapshot: t.session.Snapshot()}
	if len(evs) > 0 && t.deps.Publisher != nil {
		t.deps.Publisher.Publish(broadcast.Message{
			GameID:     t.id,
			Generation: res.Generation,
			Events:     res.Events,
			Snapshot:   res.Snapshot,
		})
	}
	return res
}

// kickLocked starts the computer's turn when it is due and not already running.
func (t *Table) kickLocked() {
	s := t.session
	if t.pending != nil || s.Phase() != game.PhasePlaying || !s.IsComputer(s.Current()) {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	tk := &task{cancel: cancel, done: make(chan struct{})}
	t.pending = tk
	gen := t.gen

	t.commitLocked([]game.Event{{Kind: game.EventOpponentThinking, Player: s.Current()}})

	go func() {
		defer close(tk.done)
		err := t.deps.Runner.Run(ctx, func() (bool, error) { return t.opponentStep(gen, tk) })
		t.mu.Lock()
		if t.pending == tk {
			t.pending = nil
		}
		t.mu.Unlock()
		cancel()
		switch {
		case err == nil, errors.Is(err, context.Canceled), errors.Is(err, errStale):
			t.log.Debug().Uint64("generation", gen).Err(err).Msg("opponent turn finished")
		default:
			t.log.Error().Err(err).Uint64("generation", gen).Msg("opponent turn failed")
		}
	}()
}

// opponentStep runs one computer decision if gen is still current. The step
// that ends the turn also releases tk, under the same lock that hands the turn
// back, so the next human action can start a fresh task.
func (t *Table) opponentStep(gen uint64, tk *task) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.session == nil {
		return true, errStale
	}
	evs, done, err := opponent.Step(t.session)
	if (done || err != nil) && tk != nil && t.pending == tk {
		tk.cancel()
		t.pending = nil
	}
	t.commitLocked(evs)
	return done, err
}

func (t *Table) stopLocked() {
	if t.pending != nil {
		t.pending.cancel()
		t.pending = nil
	}
}
