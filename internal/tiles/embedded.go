package tiles

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/mathdominoes/apps/go-server/assets"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

var (
	setsOnce sync.Once
	sets     map[Category][]Problem
	setsErr  error
)

// ParseSets decodes a YAML document keyed by category. Unknown categories are rejected.
func ParseSets(data []byte) (map[Category][]Problem, error) {
	raw := map[string][]Problem{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode problem sets: %w", err)
	}
	out := make(map[Category][]Problem, len(raw))
	for k, v := range raw {
		c, err := ParseCategory(k)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}
	return out, nil
}

// EmbeddedSets returns the built-in problem sets, decoded once.
func EmbeddedSets() (map[Category][]Problem, error) {
	setsOnce.Do(func() {
		data, err := assets.ProblemSets()
		if err != nil {
			setsErr = err
			return
		}
		sets, setsErr = ParseSets(data)
	})
	return sets, setsErr
}

// Embedded serves games from the built-in problem sets.
type Embedded struct {
	PerGame int
	NewRand func() game.Shuffler
}

func (e Embedded) Generate(ctx context.Context, c Category) ([]game.Spec, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, c)
	}
	all, err := EmbeddedSets()
	if err != nil {
		return nil, generationErr("load embedded sets: %v", err)
	}
	var rng game.Shuffler
	if e.NewRand != nil {
		rng = e.NewRand()
	}
	n := perGame(e.PerGame)
	warnShort("embedded", c, len(all[c]), n)
	return Compose(all[c], n, rng), nil
}
