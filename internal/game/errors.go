package game

import "errors"

var (
	// ErrInsufficientTiles: a deal needs more than SeedTiles+2*HandSize tiles.
	ErrInsufficientTiles = errors.New("insufficient tiles")
	// ErrGenerationFailure: the tile source could not produce a set.
	ErrGenerationFailure = errors.New("tile generation failed")
	// ErrNoMatch: neither face of the tile fits the requested end.
	ErrNoMatch = errors.New("tile does not match")
	// ErrDrawUnavailable: heap empty or per-turn draw cap reached.
	ErrDrawUnavailable = errors.New("cannot draw")
	// ErrNotYourTurn: the acting player is not the current player.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver: the session is terminal.
	ErrGameOver = errors.New("game over")
	// ErrNoSelection: placement attempted without a selected tile.
	ErrNoSelection = errors.New("no tile selected")
	// ErrTileNotInHand: the tile is not held by the acting player.
	ErrTileNotInHand = errors.New("tile not in hand")
)
