package game

// Hand is the ordered set of tiles held by one player. Order matters to the
// computer's move search, so removal keeps the remaining order.
type Hand []Tile

// Index returns the position of tile id, or -1.
func (h Hand) Index(id int) int {
	for i, t := range h {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether tile id is held.
func (h Hand) Contains(id int) bool { return h.Index(id) >= 0 }

// Remove returns the hand without tile id and the removed tile.
func (h Hand) Remove(id int) (Hand, Tile, bool) {
	i := h.Index(id)
	if i < 0 {
		return h, Tile{}, false
	}
	t := h[i]
	out := make(Hand, 0, len(h)-1)
	out = append(out, h[:i]...)
	return append(out, h[i+1:]...), t, true
}

// Add returns the hand with t appended. Duplicates are ignored.
func (h Hand) Add(t Tile) Hand {
	if h.Contains(t.ID) {
		return h
	}
	return append(h, t)
}

// Score is the block-game penalty for the tiles still held.
func (h Hand) Score() int { return HandScore(h) }

// Heap is the draw pile. Draws always take the front tile.
type Heap []Tile

// Draw pops the front tile.
func (h Heap) Draw() (Heap, Tile, bool) {
	if len(h) == 0 {
		return h, Tile{}, false
	}
	return h[1:], h[0], true
}
