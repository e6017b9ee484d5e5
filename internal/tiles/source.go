// apps/go-server/internal/tiles/source.go
//
// Tile sources for new games.
// Responsibilities:
//   - Define the Source contract: category in, raw tile records out.
//   - Validate problem categories.
//   - Turn problem/solution pairs into tile records by dealing answer faces
//     from a shuffled copy of the solutions.
//
// Implementations:
//   - Embedded: YAML problem sets compiled into the binary.
//   - Bank:     SQLite problem bank.
//   - Remote:   external HTTP generator that returns finished records.

package tiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// DefaultPerGame is how many tiles a source is asked for per game.
const DefaultPerGame = 44

// Category selects the difficulty of the generated problems.
type Category string

const (
	Easy     Category = "easy"
	EasyPlus Category = "easy+"
	Medium   Category = "medium"
	Hard     Category = "hard"
	Grade1   Category = "grade1"
	Grade2   Category = "grade2"
	Grade3   Category = "grade3"
	Grade4   Category = "grade4"
)

// Categories lists every known category in menu order.
var Categories = []Category{Easy, EasyPlus, Medium, Hard, Grade1, Grade2, Grade3, Grade4}

// ErrUnknownCategory wraps game.ErrGenerationFailure so callers that only
// know the engine's errors still classify it.
var ErrUnknownCategory = fmt.Errorf("%w: unknown category", game.ErrGenerationFailure)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory normalizes s. Empty selects Easy.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Easy, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Source produces the raw records for one game.
type Source interface {
	Generate(ctx context.Context, c Category) ([]game.Spec, error)
}

// Problem is a problem string with its canonical value.
type Problem struct {
	Problem  string `yaml:"problem" json:"problem"`
	Solution int    `yaml:"solution" json:"solution"`
}

// Compose picks up to n problems in random order and gives each an answer
// face drawn from a second shuffle of the picked solutions, so the answer
// faces are a permutation of the problem values.
func Compose(problems []Problem, n int, rng game.Shuffler) []game.Spec {
	if rng == nil {
		rng = game.NewRand()
	}
	picked := append([]Problem(nil), problems...)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if n > 0 && n < len(picked) {
		picked = picked[:n]
	}

	answers := make([]int, len(picked))
	for i, p := range picked {
		answers[i] = p.Solution
	}
	rng.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })

	out := make([]game.Spec, len(picked))
	for i, p := range picked {
		out[i] = game.Spec{Problem: p.Problem, Solution: p.Solution, DisplayAnswer: answers[i]}
	}
	return out
}

// warnShort logs when a source had fewer problems than a game asks for.
func warnShort(source string, c Category, got, want int) {
	if got < want {
		log.Warn().Str("source", source).Str("category", string(c)).
			Int("got", got).Int("want", want).Msg("problem set smaller than requested")
	}
}

func perGame(n int) int {
	if n <= 0 {
		return DefaultPerGame
	}
	return n
}

func generationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{game.ErrGenerationFailure}, args...)...)
}
