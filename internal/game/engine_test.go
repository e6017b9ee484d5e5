package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture: chain [2 + 3 | 8] so start is problem 5 and end is answer 8.
func fixture(cfg Config) *Session {
	chain := Chain{{ID: 0, Problem: "2 + 3", Solution: 5, DisplayAnswer: 8}}
	hand1 := Hand{
		{ID: 1, Problem: "4 + 4", Solution: 8, DisplayAnswer: 6},  // fits end
		{ID: 2, Problem: "9 - 4", Solution: 5, DisplayAnswer: 5},  // fits start via its answer face
		{ID: 3, Problem: "1 + 4", Solution: 5, DisplayAnswer: 11}, // equals start numerically, wrong face
	}
	hand2 := Hand{
		{ID: 4, Problem: "7 + 1", Solution: 8, DisplayAnswer: 30},
		{ID: 5, Problem: "6 * 5", Solution: 30, DisplayAnswer: 40},
	}
	heap := Heap{
		{ID: 6, Problem: "10 - 1", Solution: 9, DisplayAnswer: 2},
		{ID: 7, Problem: "3 + 3", Solution: 6, DisplayAnswer: 12},
		{ID: 8, Problem: "2 * 6", Solution: 12, DisplayAnswer: 21},
		{ID: 9, Problem: "20 + 1", Solution: 21, DisplayAnswer: 77},
	}
	return NewSession(cfg, chain, hand1, hand2, heap)
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Kind)
	}
	return out
}

func TestPlaceTile(t *testing.T) {
	t.Run("matching tile moves from hand to chain and the turn switches", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		before := len(s.Hand(Player1)) + len(s.Chain())

		evs, err := s.PlaceTile(Player1, 1, EndEnd)
		require.NoError(t, err)
		require.Equal(t, []EventKind{EventTilePlaced, EventTurnChanged}, kinds(evs))

		require.Equal(t, before, len(s.Hand(Player1))+len(s.Chain()))
		require.False(t, s.Hand(Player1).Contains(1))
		require.Equal(t, 1, s.Chain()[1].ID)
		require.True(t, s.Chain().Adjacent())
		require.Equal(t, Player2, s.Current())
		require.Equal(t, 0, s.Passes())
	})

	t.Run("answer face attaches to a problem start unflipped", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.PlaceTile(Player1, 2, EndStart)
		require.NoError(t, err)
		require.Equal(t, 2, s.Chain()[0].ID)
		require.False(t, s.Chain()[0].Flipped)
		require.True(t, s.Chain().Adjacent())
	})

	t.Run("numerically equal but same face type is rejected without state change", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.Select(Player1, 3)
		require.NoError(t, err)
		chain := append(Chain{}, s.Chain()...)
		h1 := append(Hand{}, s.Hand(Player1)...)
		h2 := append(Hand{}, s.Hand(Player2)...)
		heap := append(Heap{}, s.Heap()...)

		evs, err := s.Place(Player1, EndStart)
		require.ErrorIs(t, err, ErrNoMatch)
		require.Equal(t, []EventKind{EventNoMatch}, kinds(evs))

		require.Equal(t, chain, s.Chain())
		require.Equal(t, h1, s.Hand(Player1))
		require.Equal(t, h2, s.Hand(Player2))
		require.Equal(t, heap, s.Heap())
		require.Equal(t, Player1, s.Current(), "a failed placement keeps the turn")
		_, selected := s.Selected()
		require.False(t, selected, "a failed placement clears the selection")
	})

	t.Run("placing requires a selection", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.Place(Player1, EndEnd)
		require.ErrorIs(t, err, ErrNoSelection)
	})

	t.Run("tile must be in the acting hand", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.PlaceTile(Player1, 4, EndEnd)
		require.ErrorIs(t, err, ErrTileNotInHand)
		_, err = s.Select(Player1, 6)
		require.ErrorIs(t, err, ErrTileNotInHand)
	})

	t.Run("emptying a hand wins", func(t *testing.T) {
		s := NewSession(Config{Mode: ModePvP},
			Chain{{ID: 0, Solution: 5, DisplayAnswer: 8}},
			Hand{{ID: 1, Solution: 8, DisplayAnswer: 6}},
			Hand{{ID: 2, Solution: 1, DisplayAnswer: 1}},
			nil,
		)
		evs, err := s.PlaceTile(Player1, 1, EndEnd)
		require.NoError(t, err)
		require.Equal(t, []EventKind{EventTilePlaced, EventPlayerWon}, kinds(evs))
		require.Equal(t, PhaseOver, s.Phase())
		require.Equal(t, OutcomeWin, s.Outcome())
		require.NotNil(t, s.Winner())
		require.Equal(t, Player1, *s.Winner())

		_, err = s.Pass(Player1)
		require.ErrorIs(t, err, ErrGameOver)
		_, err = s.Draw(Player2)
		require.ErrorIs(t, err, ErrGameOver)
	})
}

func TestSelect(t *testing.T) {
	s := fixture(Config{Mode: ModePvP})

	evs, err := s.Select(Player1, 2)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventTileSelected}, kinds(evs))
	id, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, 2, id)

	evs, err = s.Select(Player1, 2)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventTileDeselected}, kinds(evs))
	_, ok = s.Selected()
	require.False(t, ok)
}

func TestTurnOwnership(t *testing.T) {
	s := fixture(Config{Mode: ModePvP})
	heap := len(s.Heap())

	_, err := s.Draw(Player2)
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = s.PlaceTile(Player2, 4, EndEnd)
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = s.Pass(Player2)
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = s.Select(Player2, 4)
	require.ErrorIs(t, err, ErrNotYourTurn)

	require.Equal(t, heap, len(s.Heap()))
	require.Len(t, s.Hand(Player2), 2)
	require.Equal(t, 0, s.Passes())
}

func TestDraw(t *testing.T) {
	t.Run("humans draw up to three per turn", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvC, Tier: TierEasy})
		for i := 1; i <= HumanDrawCap; i++ {
			evs, err := s.Draw(Player1)
			require.NoError(t, err)
			require.Equal(t, EventTileDrawn, evs[0].Kind)
			require.Equal(t, i, evs[0].Payload.(TileDrawnPayload).Draws)
			require.Equal(t, Player1, s.Current(), "drawing never ends the turn")
		}
		require.Len(t, s.Hand(Player1), 6)
		require.Len(t, s.Heap(), 1)
		require.False(t, s.CanDraw(Player1))

		evs, err := s.Draw(Player1)
		require.ErrorIs(t, err, ErrDrawUnavailable)
		require.Equal(t, []EventKind{EventCannotDraw}, kinds(evs))
		require.Len(t, s.Heap(), 1)
	})

	t.Run("draws take the front of the heap", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.Draw(Player1)
		require.NoError(t, err)
		hand := s.Hand(Player1)
		require.Equal(t, 6, hand[len(hand)-1].ID)
		require.Equal(t, 7, s.Heap()[0].ID)
	})

	t.Run("empty heap", func(t *testing.T) {
		s := NewSession(Config{Mode: ModePvP}, Chain{{ID: 0}}, Hand{{ID: 1}}, Hand{{ID: 2}}, nil)
		evs, err := s.Draw(Player1)
		require.ErrorIs(t, err, ErrDrawUnavailable)
		require.True(t, evs[0].Payload.(CannotDrawPayload).HeapEmpty)
		require.Len(t, s.Hand(Player1), 1)
	})

	t.Run("computer cap follows its tier", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvC, Tier: TierEasy})
		_, err := s.Pass(Player1)
		require.NoError(t, err)
		require.Equal(t, 1, s.DrawCap(Player2))

		_, err = s.Draw(Player2)
		require.NoError(t, err)
		_, err = s.Draw(Player2)
		require.ErrorIs(t, err, ErrDrawUnavailable)
	})
}

func TestSwitchTurnResets(t *testing.T) {
	s := fixture(Config{Mode: ModePvP})
	_, err := s.Draw(Player1)
	require.NoError(t, err)
	_, err = s.Select(Player1, 1)
	require.NoError(t, err)

	evs, err := s.Pass(Player1)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventTurnPassed, EventTurnChanged}, kinds(evs))
	require.Equal(t, Player2, s.Current())
	require.Equal(t, 0, s.Draws())
	_, selected := s.Selected()
	require.False(t, selected)
	require.Nil(t, s.Snapshot().Selected)
}

func TestBlockedGame(t *testing.T) {
	t.Run("two consecutive passes block and the lower score wins", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.Pass(Player1)
		require.NoError(t, err)
		require.Equal(t, PhasePlaying, s.Phase())

		evs, err := s.Pass(Player2)
		require.NoError(t, err)
		require.Equal(t, []EventKind{EventTurnPassed, EventGameBlocked}, kinds(evs))
		require.Equal(t, PhaseOver, s.Phase())
		require.Equal(t, OutcomeBlocked, s.Outcome())

		// player1: (6+4+4) + (5+9+4) + (2+1+4) = 39
		// player2: (3+7+1) + (4+6+5) = 26
		require.Equal(t, map[Player]int{Player1: 39, Player2: 26}, s.Scores())
		require.NotNil(t, s.Winner())
		require.Equal(t, Player2, *s.Winner())

		payload := evs[1].Payload.(GameBlockedPayload)
		require.Equal(t, Player2, *payload.Winner)
	})

	t.Run("equal scores draw", func(t *testing.T) {
		s := NewSession(Config{Mode: ModePvP},
			Chain{{ID: 0, Solution: 5, DisplayAnswer: 8}},
			Hand{{ID: 1, Problem: "1 + 2", Solution: 3, DisplayAnswer: 12}},
			Hand{{ID: 2, Problem: "2 + 1", Solution: 3, DisplayAnswer: 21}},
			nil,
		)
		_, err := s.Pass(Player1)
		require.NoError(t, err)
		_, err = s.Pass(Player2)
		require.NoError(t, err)
		require.Equal(t, PhaseOver, s.Phase())
		require.Nil(t, s.Winner())
		require.Equal(t, s.Scores()[Player1], s.Scores()[Player2])
	})

	t.Run("a placement between passes resets the counter", func(t *testing.T) {
		s := fixture(Config{Mode: ModePvP})
		_, err := s.Pass(Player1)
		require.NoError(t, err)
		_, err = s.PlaceTile(Player2, 4, EndEnd)
		require.NoError(t, err)
		require.Equal(t, 0, s.Passes())
		_, err = s.Pass(Player1)
		require.NoError(t, err)
		require.Equal(t, PhasePlaying, s.Phase())
		require.Equal(t, 1, s.Passes())
	})
}

func TestSnapshot(t *testing.T) {
	s := fixture(Config{Mode: ModePvC, Tier: TierHard})
	snap := s.Snapshot()
	require.Equal(t, PhasePlaying, snap.Phase)
	require.Equal(t, Player1, snap.Current)
	require.Equal(t, 4, snap.HeapSize)
	require.Equal(t, HumanDrawCap, snap.MaxDraws)
	require.Equal(t, &OpenEnd{Value: 5, Face: FaceProblem}, snap.Start)
	require.Equal(t, &OpenEnd{Value: 8, Face: FaceAnswer}, snap.End)
	require.True(t, snap.CanPlay)
	require.True(t, snap.CanDraw)
	require.Equal(t, 39, snap.Scores[Player1])

	snap.Hands[Player1][0].Flipped = true
	require.False(t, s.Hand(Player1)[0].Flipped, "snapshots are deep copies")
}

func TestSnapshotFor(t *testing.T) {
	s := fixture(Config{Mode: ModePvC})
	snap := s.Snapshot()

	mine := snap.For(Player1)
	require.Len(t, mine.Hands, 1)
	require.Len(t, mine.Hands[Player1], 3)
	require.Equal(t, map[Player]int{Player1: 3, Player2: 2}, mine.HandSizes)

	require.Empty(t, snap.For().Hands, "viewers without a seat see no hands")
	require.Len(t, snap.For(Player1, Player2).Hands, 2)
	require.Len(t, snap.Hands, 2, "For leaves the original untouched")

	_, err := s.Pass(Player1)
	require.NoError(t, err)
	_, err = s.Pass(Player2)
	require.NoError(t, err)
	require.Len(t, s.Snapshot().For().Hands, 2, "finished games show every hand")
}
