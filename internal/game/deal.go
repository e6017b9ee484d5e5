package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Fixed deal partition, independent of the set size.
const (
	SeedTiles = 1
	HandSize  = 5
	MinTiles  = SeedTiles + 2*HandSize + 1
)

// Shuffler permutes n elements in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded source for production deals.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

// Deal numbers the specs 0..N-1, shuffles them and partitions:
// one seed tile on the chain, five per hand, the rest in the heap.
func Deal(specs []Spec, cfg Config, rng Shuffler) (*Session, []Event, error) {
	if len(specs) < MinTiles {
		return nil, nil, fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientTiles, len(specs), MinTiles)
	}
	if rng == nil {
		rng = NewRand()
	}

	tiles := make([]Tile, len(specs))
	for i, sp := range specs {
		tiles[i] = Tile{ID: i, Problem: sp.Problem, Solution: sp.Solution, DisplayAnswer: sp.DisplayAnswer}
	}
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	h1 := SeedTiles + HandSize
	h2 := h1 + HandSize
	s := NewSession(cfg,
		Chain(tiles[:SeedTiles]),
		Hand(tiles[SeedTiles:h1]),
		Hand(tiles[h1:h2]),
		Heap(tiles[h2:]),
	)
	evs := []Event{{Kind: EventGameStarted, Player: s.current, Payload: GameStartedPayload{
		Mode:     s.mode,
		Tier:     s.tier,
		First:    s.current,
		HeapSize: len(s.heap),
	}}}
	return s, evs, nil
}
