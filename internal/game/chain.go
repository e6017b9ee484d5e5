package game

// Chain is the ordered line of placed tiles. Adjacent tiles always meet
// problem face to answer face with equal values; that is checked by Fit at
// placement time and never re-validated.
type Chain []Tile

// Ends reports the two open ends. ok is false for an empty chain.
func (c Chain) Ends() (start, end OpenEnd, ok bool) {
	if len(c) == 0 {
		return OpenEnd{}, OpenEnd{}, false
	}
	return c[0].Left(), c[len(c)-1].Right(), true
}

// Fit orients t so that it can attach at the given end. A problem face only
// ever touches an answer face: the tile must expose the face opposite to the
// open end's type, with the same value. Any tile fits an empty chain.
func (c Chain) Fit(t Tile, at End) (Tile, bool) {
	start, end, ok := c.Ends()
	if !ok {
		t.Flipped = false
		return t, true
	}
	open := end
	if at == EndStart {
		open = start
	}
	need := open.Face.Opposite()
	if t.Value(need) != open.Value {
		return t, false
	}
	if at == EndStart {
		// need faces right
		t.Flipped = need == FaceProblem
	} else {
		// need faces left
		t.Flipped = need == FaceAnswer
	}
	return t, true
}

// Attach returns the chain with t prepended or appended. t must already be
// oriented by Fit.
func (c Chain) Attach(t Tile, at End) Chain {
	if at == EndStart {
		out := make(Chain, 0, len(c)+1)
		out = append(out, t)
		return append(out, c...)
	}
	return append(c, t)
}

// Adjacent reports whether every neighbouring pair meets correctly.
func (c Chain) Adjacent() bool {
	for i := 1; i < len(c); i++ {
		l, r := c[i-1].Right(), c[i].Left()
		if l.Value != r.Value || l.Face == r.Face {
			return false
		}
	}
	return true
}
