// apps/go-server/internal/game/types.go
//
// Core type definitions for the Math Dominoes engine.
// Defines:
//   - Face / End: which side of a tile is exposed, and which open end of the chain.
//   - Player / Mode / Tier: who plays, against whom, and how hard the computer draws.
//   - Phase: coarse lifecycle of a session (playing → over).

package game

import "fmt"

// Face identifies one of a tile's two printed faces.
//   - "problem": the math expression; its value is the tile's Solution.
//   - "answer":  the candidate number; its value is the tile's DisplayAnswer.
type Face string

const (
	FaceProblem Face = "problem"
	FaceAnswer  Face = "answer"
)

// Opposite returns the other face.
func (f Face) Opposite() Face {
	if f == FaceProblem {
		return FaceAnswer
	}
	return FaceProblem
}

// End names one of the two open ends of the chain.
type End string

const (
	EndStart End = "start" // left edge of the first tile
	EndEnd   End = "end"   // right edge of the last tile
)

// ParseEnd validates a wire value.
func ParseEnd(s string) (End, error) {
	switch End(s) {
	case EndStart, EndEnd:
		return End(s), nil
	}
	return "", fmt.Errorf("invalid end %q", s)
}

// Player identifies one of the two seats.
type Player string

const (
	Player1 Player = "player1"
	Player2 Player = "player2"
)

// Other returns the opposing seat.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p is one of the two seats.
func (p Player) Valid() bool { return p == Player1 || p == Player2 }

// Mode selects human-vs-human or human-vs-computer play.
// In ModePvC the computer always sits in Player2.
type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvC Mode = "pvc"
)

// ParseMode validates a wire value. Empty defaults to ModePvC.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModePvC, nil
	case ModePvP, ModePvC:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// Tier is the computer opponent's difficulty. It only scales the draw budget.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierNormal Tier = "normal"
	TierHard   Tier = "hard"
)

// ParseTier validates a wire value. Empty defaults to TierNormal.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case "":
		return TierNormal, nil
	case TierEasy, TierNormal, TierHard:
		return Tier(s), nil
	}
	return "", fmt.Errorf("invalid ai difficulty %q", s)
}

// DrawCap is the number of tiles the computer may draw in one turn.
func (t Tier) DrawCap() int {
	switch t {
	case TierEasy:
		return 1
	case TierHard:
		return 3
	default:
		return 2
	}
}

// HumanDrawCap is the per-turn draw limit for human players, regardless of Tier.
const HumanDrawCap = 3

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseOver    Phase = "over"
)

// Outcome records how a finished game ended.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeWin     Outcome = "win"     // a hand was emptied
	OutcomeBlocked Outcome = "blocked" // both players passed in succession
)
