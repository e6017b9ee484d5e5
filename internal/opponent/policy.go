// apps/go-server/internal/opponent/policy.go
//
// Computer player for human-vs-computer games.
// Responsibilities:
//   - Find the first playable tile in hand order (start end checked before end).
//   - Decide one discrete step at a time: place, draw, or pass.
//   - Run those steps as a cancellable task with "thinking" delays between them.
//
// Notes:
//   - Matching goes through game.Chain.Fit, so the computer obeys the same
//     face-type rule as a human placement.
//   - The draw budget is the session's DrawCap for the computer seat (tier based).

package opponent

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// ErrNotComputerTurn is returned when a step is requested while a human is to move.
var ErrNotComputerTurn = errors.New("not the computer's turn")

// Move is a chosen placement.
type Move struct {
	TileID int      `json:"tileId"`
	End    game.End `json:"end"`
}

// FindMove scans hand in order and returns the first tile that fits either
// open end, preferring the start end for that tile.
func FindMove(hand game.Hand, chain game.Chain) (Move, bool) {
	for _, t := range hand {
		for _, at := range [...]game.End{game.EndStart, game.EndEnd} {
			if _, ok := chain.Fit(t, at); ok {
				return Move{TileID: t.ID, End: at}, true
			}
		}
	}
	return Move{}, false
}

// Step performs a single decision for the computer seat and reports whether
// its turn is over. A drawn tile leaves the turn open so the next step can
// rescan the grown hand.
func Step(s *game.Session) ([]game.Event, bool, error) {
	if s.Phase() == game.PhaseOver {
		return nil, true, game.ErrGameOver
	}
	p := s.Current()
	if !s.IsComputer(p) {
		return nil, true, ErrNotComputerTurn
	}

	if mv, ok := FindMove(s.Hand(p), s.Chain()); ok {
		evs, err := s.PlaceTile(p, mv.TileID, mv.End)
		if err != nil {
			return evs, true, err
		}
		head := game.Event{Kind: game.EventOpponentPlays, Player: p, Payload: game.TilePayload{TileID: mv.TileID, End: mv.End}}
		return append([]game.Event{head}, evs...), true, nil
	}

	if s.CanDraw(p) {
		evs, err := s.Draw(p)
		return evs, false, err
	}

	evs, err := s.Pass(p)
	if err != nil {
		return evs, true, err
	}
	head := game.Event{Kind: game.EventOpponentPasses, Player: p}
	return append([]game.Event{head}, evs...), true, nil
}

// PlayTurn runs steps until the computer's turn ends.
func PlayTurn(s *game.Session) ([]game.Event, error) {
	var all []game.Event
	for {
		evs, done, err := Step(s)
		all = append(all, evs...)
		if err != nil || done {
			return all, err
		}
	}
}

// ApplyFunc executes one step against the live session. Returning done ends the task.
type ApplyFunc func() (done bool, err error)

// Runner paces a computer turn: ThinkDelay before the first step, StepDelay
// between later ones.
type Runner struct {
	ThinkDelay time.Duration
	StepDelay  time.Duration
}

// Run calls apply until it reports done, an error, or ctx is cancelled.
func (r Runner) Run(ctx context.Context, apply ApplyFunc) error {
	delay := r.ThinkDelay
	for {
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		done, err := apply()
		if err != nil || done {
			return err
		}
		delay = r.StepDelay
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
