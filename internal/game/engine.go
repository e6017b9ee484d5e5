// apps/go-server/internal/game/engine.go
//
// Turn/game state machine for a single Math Dominoes session.
// Responsibilities:
//   - Hold the chain, both hands, the heap and the turn counters.
//   - Validate and apply player actions: select, place, draw, pass.
//   - Track state transitions: playing → over (win or block).
//
// Notes:
//   - Every action returns the events it produced, even when it fails with a
//     non-fatal error (no_match, cannot_draw), so callers can surface them.
//   - A Session is not safe for concurrent use; the match package serializes access.
package game

// Config fixes the session's mode and computer difficulty.
type Config struct {
	Mode Mode
	Tier Tier
}

// Session is the single mutable aggregate for one game.
type Session struct {
	mode Mode
	tier Tier

	chain Chain
	hands [2]Hand
	heap  Heap

	current       Player
	passes        int // consecutive passes with no placement between
	drawsThisTurn int
	selected      int
	hasSelection  bool

	phase   Phase
	outcome Outcome
	winner  *Player
	scores  map[Player]int // set when the game is blocked
}

// NewSession builds a playing session from an explicit layout. Player1 moves first.
func NewSession(cfg Config, chain Chain, hand1, hand2 Hand, heap Heap) *Session {
	if cfg.Mode == "" {
		cfg.Mode = ModePvC
	}
	if cfg.Tier == "" {
		cfg.Tier = TierNormal
	}
	return &Session{
		mode:    cfg.Mode,
		tier:    cfg.Tier,
		chain:   append(Chain(nil), chain...),
		hands:   [2]Hand{append(Hand(nil), hand1...), append(Hand(nil), hand2...)},
		heap:    append(Heap(nil), heap...),
		current: Player1,
		phase:   PhasePlaying,
	}
}

func seat(p Player) int {
	if p == Player2 {
		return 1
	}
	return 0
}

// Mode returns the game mode.
func (s *Session) Mode() Mode { return s.mode }

// Tier returns the computer's difficulty.
func (s *Session) Tier() Tier { return s.tier }

// Chain returns the placed tiles, start to end.
func (s *Session) Chain() Chain { return s.chain }

// Hand returns p's tiles in hand order.
func (s *Session) Hand(p Player) Hand { return s.hands[seat(p)] }

// Heap returns the undrawn tiles, front first.
func (s *Session) Heap() Heap { return s.heap }

// Current returns the player to move.
func (s *Session) Current() Player { return s.current }

// Passes returns the consecutive pass count.
func (s *Session) Passes() int { return s.passes }

// Draws returns how many tiles the current player drew this turn.
func (s *Session) Draws() int { return s.drawsThisTurn }

// Phase reports whether the game is still being played.
func (s *Session) Phase() Phase { return s.phase }

// Outcome reports how a finished game ended.
func (s *Session) Outcome() Outcome { return s.outcome }

// Winner returns the winning seat. It is nil while playing and on a drawn block.
func (s *Session) Winner() *Player { return s.winner }

// Scores returns the block scores, or nil unless the game was blocked.
func (s *Session) Scores() map[Player]int { return s.scores }

// Selected returns the selected tile id, if any.
func (s *Session) Selected() (int, bool) { return s.selected, s.hasSelection }

// IsComputer reports whether p is driven by the opponent policy.
func (s *Session) IsComputer(p Player) bool { return s.mode == ModePvC && p == Player2 }

// DrawCap is p's per-turn draw limit.
func (s *Session) DrawCap(p Player) int {
	if s.IsComputer(p) {
		return s.tier.DrawCap()
	}
	return HumanDrawCap
}

// CanDraw reports whether the current player may draw right now.
func (s *Session) CanDraw(p Player) bool {
	return s.phase == PhasePlaying && p == s.current &&
		len(s.heap) > 0 && s.drawsThisTurn < s.DrawCap(p)
}

// CanPlay reports whether any tile in p's hand fits either open end.
func (s *Session) CanPlay(p Player) bool {
	for _, t := range s.Hand(p) {
		if _, ok := s.chain.Fit(t, EndStart); ok {
			return true
		}
		if _, ok := s.chain.Fit(t, EndEnd); ok {
			return true
		}
	}
	return false
}

func (s *Session) guard(p Player) error {
	if s.phase == PhaseOver {
		return ErrGameOver
	}
	if p != s.current {
		return ErrNotYourTurn
	}
	return nil
}

// Select marks tile id as the pending placement. Selecting the selected tile
// again clears the selection.
func (s *Session) Select(p Player, id int) ([]Event, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if !s.Hand(p).Contains(id) {
		return nil, ErrTileNotInHand
	}
	if s.hasSelection && s.selected == id {
		s.clearSelection()
		return []Event{{Kind: EventTileDeselected, Player: p, Payload: TilePayload{TileID: id}}}, nil
	}
	s.selected, s.hasSelection = id, true
	return []Event{{Kind: EventTileSelected, Player: p, Payload: TilePayload{TileID: id}}}, nil
}

// Place attaches the selected tile at the given end.
//
// On ErrNoMatch the selection is cleared and chain, hands and heap are left
// untouched. On success the consecutive-pass counter resets; an emptied hand
// wins the game, otherwise the turn passes to the other player.
func (s *Session) Place(p Player, at End) ([]Event, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if !s.hasSelection {
		return nil, ErrNoSelection
	}
	id := s.selected
	hand := s.Hand(p)
	i := hand.Index(id)
	if i < 0 {
		s.clearSelection()
		return nil, ErrTileNotInHand
	}
	placed, ok := s.chain.Fit(hand[i], at)
	if !ok {
		s.clearSelection()
		return []Event{{Kind: EventNoMatch, Player: p, Payload: TilePayload{TileID: id, End: at}}}, ErrNoMatch
	}

	rest, _, _ := hand.Remove(id)
	s.chain = s.chain.Attach(placed, at)
	s.hands[seat(p)] = rest
	s.passes = 0
	s.clearSelection()

	evs := []Event{{Kind: EventTilePlaced, Player: p, Payload: TilePayload{TileID: id, End: at}}}
	if len(rest) == 0 {
		winner := p
		s.finish(OutcomeWin, &winner)
		return append(evs, Event{Kind: EventPlayerWon, Player: p, Payload: PlayerWonPayload{Winner: p}}), nil
	}
	return append(evs, s.switchTurn()), nil
}

// PlaceTile selects tile id and places it in one step.
func (s *Session) PlaceTile(p Player, id int, at End) ([]Event, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if !s.Hand(p).Contains(id) {
		return nil, ErrTileNotInHand
	}
	s.selected, s.hasSelection = id, true
	return s.Place(p, at)
}

// Draw moves the front heap tile into p's hand. The turn does not change.
func (s *Session) Draw(p Player) ([]Event, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	limit := s.DrawCap(p)
	if len(s.heap) == 0 || s.drawsThisTurn >= limit {
		return []Event{{Kind: EventCannotDraw, Player: p, Payload: CannotDrawPayload{
			HeapEmpty: len(s.heap) == 0,
			Draws:     s.drawsThisTurn,
			MaxDraws:  limit,
		}}}, ErrDrawUnavailable
	}
	heap, t, _ := s.heap.Draw()
	s.heap = heap
	s.hands[seat(p)] = s.Hand(p).Add(t)
	s.drawsThisTurn++
	return []Event{{Kind: EventTileDrawn, Player: p, Payload: TileDrawnPayload{
		TileID:   t.ID,
		Draws:    s.drawsThisTurn,
		MaxDraws: limit,
		HeapSize: len(s.heap),
	}}}, nil
}

// Pass ends p's turn without placing. Passing is allowed even when a play
// exists. Two consecutive passes block the game and it is scored.
func (s *Session) Pass(p Player) ([]Event, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	s.passes++
	evs := []Event{{Kind: EventTurnPassed, Player: p, Payload: TurnPassedPayload{ConsecutivePasses: s.passes}}}
	turn := s.switchTurn()
	if s.passes >= 2 {
		return append(evs, s.block()), nil
	}
	return append(evs, turn), nil
}

func (s *Session) clearSelection() {
	s.selected, s.hasSelection = 0, false
}

func (s *Session) switchTurn() Event {
	s.clearSelection()
	s.drawsThisTurn = 0
	s.current = s.current.Other()
	return Event{Kind: EventTurnChanged, Player: s.current, Payload: TurnChangedPayload{Next: s.current}}
}

// block scores both hands; the strictly lower score wins, a tie is a draw.
func (s *Session) block() Event {
	p1, p2 := s.Hand(Player1).Score(), s.Hand(Player2).Score()
	var winner *Player
	switch {
	case p1 < p2:
		w := Player1
		winner = &w
	case p2 < p1:
		w := Player2
		winner = &w
	}
	s.finish(OutcomeBlocked, winner)
	s.scores = map[Player]int{Player1: p1, Player2: p2}
	return Event{Kind: EventGameBlocked, Payload: GameBlockedPayload{Scores: s.Scores(), Winner: winner}}
}

func (s *Session) finish(o Outcome, winner *Player) {
	s.phase = PhaseOver
	s.outcome = o
	s.winner = winner
	s.clearSelection()
}
