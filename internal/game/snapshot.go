package game

// Snapshot is a deep copy of everything a presentation layer needs to render
// the session after a mutation.
type Snapshot struct {
	Mode              Mode            `json:"mode"`
	Tier              Tier            `json:"aiDifficulty"`
	Phase             Phase           `json:"phase"`
	Outcome           Outcome         `json:"outcome,omitempty"`
	Winner            *Player         `json:"winner"`
	Current           Player          `json:"currentPlayer"`
	Chain             []Tile          `json:"chain"`
	Start             *OpenEnd        `json:"start,omitempty"`
	End               *OpenEnd        `json:"end,omitempty"`
	Hands             map[Player]Hand `json:"hands"`
	HandSizes         map[Player]int  `json:"handSizes"`
	Scores            map[Player]int  `json:"scores"`
	HeapSize          int             `json:"heapSize"`
	ConsecutivePasses int             `json:"consecutivePasses"`
	DrawsThisTurn     int             `json:"drawsThisTurn"`
	MaxDraws          int             `json:"maxDraws"`
	Selected          *int            `json:"selectedTileId"`
	CanPlay           bool            `json:"canPlay"`
	CanDraw           bool            `json:"canDraw"`
}

// Snapshot captures the current state. Scores are live hand scores while
// playing and the final block scores once blocked.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:              s.mode,
		Tier:              s.tier,
		Phase:             s.phase,
		Outcome:           s.outcome,
		Current:           s.current,
		Chain:             append([]Tile{}, s.chain...),
		Hands:             map[Player]Hand{Player1: append(Hand{}, s.hands[0]...), Player2: append(Hand{}, s.hands[1]...)},
		HandSizes:         map[Player]int{Player1: len(s.hands[0]), Player2: len(s.hands[1])},
		Scores:            map[Player]int{Player1: s.hands[0].Score(), Player2: s.hands[1].Score()},
		HeapSize:          len(s.heap),
		ConsecutivePasses: s.passes,
		DrawsThisTurn:     s.drawsThisTurn,
		MaxDraws:          s.DrawCap(s.current),
	}
	if s.winner != nil {
		w := *s.winner
		snap.Winner = &w
	}
	if start, end, ok := s.chain.Ends(); ok {
		snap.Start, snap.End = &start, &end
	}
	if s.hasSelection {
		id := s.selected
		snap.Selected = &id
	}
	if s.phase == PhasePlaying {
		snap.CanPlay = s.CanPlay(s.current)
		snap.CanDraw = s.CanDraw(s.current)
	}
	return snap
}

// For returns the snapshot as seen by the given seats: hands of other seats
// are left out and only their sizes remain. Once the game is over every hand
// is shown.
func (snap Snapshot) For(seats ...Player) Snapshot {
	if snap.Phase == PhaseOver {
		return snap
	}
	out := snap
	out.Hands = map[Player]Hand{}
	for _, p := range seats {
		if h, ok := snap.Hands[p]; ok {
			out.Hands[p] = h
		}
	}
	return out
}
