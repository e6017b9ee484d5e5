package opponent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// computerToMove returns a session where player1 has just played, leaving
// the chain open at problem 5 (start) and answer 6 (end).
func computerToMove(t *testing.T, tier game.Tier) *game.Session {
	t.Helper()
	s := game.NewSession(game.Config{Mode: game.ModePvC, Tier: tier},
		game.Chain{{ID: 0, Problem: "2 + 3", Solution: 5, DisplayAnswer: 8}},
		game.Hand{{ID: 1, Problem: "4 + 4", Solution: 8, DisplayAnswer: 6}, {ID: 2, Problem: "1 + 1", Solution: 2, DisplayAnswer: 3}},
		game.Hand{{ID: 10, Problem: "20 * 2", Solution: 40, DisplayAnswer: 41}},
		game.Heap{
			{ID: 20, Problem: "25 * 2", Solution: 50, DisplayAnswer: 51},
			{ID: 21, Problem: "30 * 2", Solution: 60, DisplayAnswer: 61},
			{ID: 22, Problem: "3 + 3", Solution: 6, DisplayAnswer: 70},
		},
	)
	_, err := s.PlaceTile(game.Player1, 1, game.EndEnd)
	require.NoError(t, err)
	require.Equal(t, game.Player2, s.Current())
	return s
}

func count(evs []game.Event, k game.EventKind) int {
	n := 0
	for _, e := range evs {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestFindMove(t *testing.T) {
	chain := game.Chain{{ID: 0, Solution: 5, DisplayAnswer: 8}}

	t.Run("first tile in hand order wins", func(t *testing.T) {
		hand := game.Hand{
			{ID: 1, Solution: 8, DisplayAnswer: 1}, // end only
			{ID: 2, Solution: 9, DisplayAnswer: 5}, // start only
		}
		mv, ok := FindMove(hand, chain)
		require.True(t, ok)
		require.Equal(t, Move{TileID: 1, End: game.EndEnd}, mv)
	})

	t.Run("start is preferred for a tile fitting both ends", func(t *testing.T) {
		mv, ok := FindMove(game.Hand{{ID: 3, Solution: 8, DisplayAnswer: 5}}, chain)
		require.True(t, ok)
		require.Equal(t, Move{TileID: 3, End: game.EndStart}, mv)
	})

	t.Run("numerically equal faces of the same type do not match", func(t *testing.T) {
		_, ok := FindMove(game.Hand{{ID: 4, Solution: 5, DisplayAnswer: 8}}, chain)
		require.False(t, ok)
	})

	t.Run("empty hand", func(t *testing.T) {
		_, ok := FindMove(nil, chain)
		require.False(t, ok)
	})
}

func TestPlayTurnHardDrawsThreeThenPlaces(t *testing.T) {
	s := computerToMove(t, game.TierHard)

	var drawn []int
	var all []game.Event
	for i := 0; i < 10; i++ {
		evs, done, err := Step(s)
		require.NoError(t, err)
		all = append(all, evs...)
		if done {
			break
		}
		require.Equal(t, game.EventTileDrawn, evs[0].Kind)
		drawn = append(drawn, evs[0].Payload.(game.TileDrawnPayload).TileID)
	}

	require.Equal(t, []int{20, 21, 22}, drawn)
	require.Equal(t, 1, count(all, game.EventOpponentPlays))
	require.Equal(t, 1, count(all, game.EventTilePlaced))
	require.Empty(t, s.Heap())
	require.False(t, s.Hand(game.Player2).Contains(22))
	require.Equal(t, 22, s.Chain()[len(s.Chain())-1].ID)
	require.True(t, s.Chain().Adjacent())
	require.Equal(t, game.Player1, s.Current())
}

func TestPlayTurnTierCaps(t *testing.T) {
	tests := []struct {
		tier  game.Tier
		draws int
	}{
		{game.TierEasy, 1},
		{game.TierNormal, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			s := computerToMove(t, tt.tier)
			evs, err := PlayTurn(s)
			require.NoError(t, err)
			require.Equal(t, tt.draws, count(evs, game.EventTileDrawn))
			require.Equal(t, 1, count(evs, game.EventOpponentPasses))
			require.Equal(t, 0, count(evs, game.EventTilePlaced))
			require.Len(t, s.Hand(game.Player2), 1+tt.draws)
			require.Len(t, s.Heap(), 3-tt.draws)
			require.Equal(t, game.Player1, s.Current())
			require.Equal(t, 1, s.Passes())
		})
	}
}

func TestPlayTurnPlacesWithoutDrawing(t *testing.T) {
	s := game.NewSession(game.Config{Mode: game.ModePvC, Tier: game.TierHard},
		game.Chain{{ID: 0, Solution: 5, DisplayAnswer: 8}},
		game.Hand{{ID: 1, Solution: 1, DisplayAnswer: 1}},
		game.Hand{{ID: 2, Solution: 30, DisplayAnswer: 31}, {ID: 3, Solution: 8, DisplayAnswer: 9}},
		game.Heap{{ID: 4, Solution: 7, DisplayAnswer: 7}},
	)
	_, err := s.Pass(game.Player1)
	require.NoError(t, err)

	evs, err := PlayTurn(s)
	require.NoError(t, err)
	require.Equal(t, 0, count(evs, game.EventTileDrawn))
	require.Equal(t, game.EventOpponentPlays, evs[0].Kind)
	require.Len(t, s.Heap(), 1)
	require.Equal(t, 0, s.Passes())
}

func TestStepRejectsHumanTurn(t *testing.T) {
	s := game.NewSession(game.Config{Mode: game.ModePvC}, game.Chain{{ID: 0}}, game.Hand{{ID: 1}}, game.Hand{{ID: 2}}, nil)
	_, done, err := Step(s)
	require.ErrorIs(t, err, ErrNotComputerTurn)
	require.True(t, done)

	pvp := game.NewSession(game.Config{Mode: game.ModePvP}, game.Chain{{ID: 0}}, game.Hand{{ID: 1}}, game.Hand{{ID: 2}}, nil)
	_, err = pvp.Pass(game.Player1)
	require.NoError(t, err)
	_, _, err = Step(pvp)
	require.ErrorIs(t, err, ErrNotComputerTurn)
}

func TestRunner(t *testing.T) {
	t.Run("runs until done", func(t *testing.T) {
		calls := 0
		err := Runner{}.Run(context.Background(), func() (bool, error) {
			calls++
			return calls == 3, nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("cancellation abandons pending steps", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		called := false
		go func() {
			errc <- Runner{ThinkDelay: time.Hour}.Run(ctx, func() (bool, error) {
				called = true
				return true, nil
			})
		}()
		cancel()
		select {
		case err := <-errc:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("runner did not stop after cancel")
		}
		require.False(t, called)
	})

	t.Run("drives a computer turn", func(t *testing.T) {
		s := computerToMove(t, game.TierHard)
		steps := 0
		err := Runner{StepDelay: time.Millisecond}.Run(context.Background(), func() (bool, error) {
			steps++
			_, done, err := Step(s)
			return done, err
		})
		require.NoError(t, err)
		require.Equal(t, 4, steps)
		require.Equal(t, game.Player1, s.Current())
	})
}
