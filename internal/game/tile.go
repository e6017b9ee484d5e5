package game

// Spec is one raw tile record as produced by a tile source.
type Spec struct {
	Problem       string `json:"problem" yaml:"problem"`
	Solution      int    `json:"solution" yaml:"solution"`
	DisplayAnswer int    `json:"displayAnswer" yaml:"displayAnswer"`
}

// Tile is a dealt domino. Only Flipped changes after dealing, and only when
// the tile is placed on the chain.
//
// Unflipped: [problem | answer]. Flipped: [answer | problem].
type Tile struct {
	ID            int    `json:"id"`
	Problem       string `json:"problem"`
	Solution      int    `json:"solution"`
	DisplayAnswer int    `json:"displayAnswer"`
	Flipped       bool   `json:"flipped"`
}

// OpenEnd is an exposed face value together with the face it came from.
type OpenEnd struct {
	Value int  `json:"value"`
	Face  Face `json:"type"`
}

// Value returns the numeric value of face f.
func (t Tile) Value(f Face) int {
	if f == FaceProblem {
		return t.Solution
	}
	return t.DisplayAnswer
}

// Left returns the face currently on the physical left of the tile.
func (t Tile) Left() OpenEnd {
	f := FaceProblem
	if t.Flipped {
		f = FaceAnswer
	}
	return OpenEnd{Value: t.Value(f), Face: f}
}

// Right returns the face currently on the physical right of the tile.
func (t Tile) Right() OpenEnd {
	f := FaceAnswer
	if t.Flipped {
		f = FaceProblem
	}
	return OpenEnd{Value: t.Value(f), Face: f}
}
