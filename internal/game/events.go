package game

// EventKind identifies a status event. Presentation layers key their
// localized messages on it; the engine never formats text.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventTurnChanged      EventKind = "turn_changed"
	EventTileSelected     EventKind = "tile_selected"
	EventTileDeselected   EventKind = "tile_deselected"
	EventTilePlaced       EventKind = "tile_placed"
	EventTileDrawn        EventKind = "tile_drawn"
	EventCannotDraw       EventKind = "cannot_draw"
	EventNoMatch          EventKind = "no_match"
	EventTurnPassed       EventKind = "turn_passed"
	EventPlayerWon        EventKind = "player_won"
	EventGameBlocked      EventKind = "game_blocked"
	EventOpponentThinking EventKind = "opponent_thinking"
	EventOpponentPlays    EventKind = "opponent_plays"
	EventOpponentPasses   EventKind = "opponent_passes"
)

// Event is a state transition notice with an optional typed payload.
type Event struct {
	Kind    EventKind `json:"kind"`
	Player  Player    `json:"player,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

type GameStartedPayload struct {
	Mode     Mode   `json:"mode"`
	Tier     Tier   `json:"aiDifficulty,omitempty"`
	First    Player `json:"first"`
	HeapSize int    `json:"heapSize"`
}

type TurnChangedPayload struct {
	Next Player `json:"next"`
}

type TilePayload struct {
	TileID int `json:"tileId"`
	End    End `json:"end,omitempty"`
}

type TileDrawnPayload struct {
	TileID   int `json:"tileId"`
	Draws    int `json:"draws"`
	MaxDraws int `json:"maxDraws"`
	HeapSize int `json:"heapSize"`
}

type CannotDrawPayload struct {
	HeapEmpty bool `json:"heapEmpty"`
	Draws     int  `json:"draws"`
	MaxDraws  int  `json:"maxDraws"`
}

type TurnPassedPayload struct {
	ConsecutivePasses int `json:"consecutivePasses"`
}

type PlayerWonPayload struct {
	Winner Player `json:"winner"`
}

// GameBlockedPayload carries final scores. Winner is nil on a draw.
type GameBlockedPayload struct {
	Scores map[Player]int `json:"scores"`
	Winner *Player        `json:"winner"`
}
