package game

// Ship is a placed vessel. It occupies Type.Length() consecutive cells starting
// at (X, Y) and extending along its orientation axis.
type Ship struct {
	Type        ShipType    `json:"type"`
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
	Hits        int         `json:"hits"`
}

// NewShip returns an undamaged ship anchored at (x, y).
func NewShip(t ShipType, x, y int, o Orientation) Ship {
	return Ship{Type: t, X: x, Y: y, Orientation: o}
}

func (s Ship) Length() int { return s.Type.Length() }

// Cells returns the occupied cells in order from the anchor outwards.
// Cells may lie outside the grid; placement validation rejects those.
func (s Ship) Cells() []Coord {
	n := s.Length()
	out := make([]Coord, n)
	for i := range n {
		c := Coord{X: s.X, Y: s.Y}
		if s.Orientation == Vertical {
			c.Y += i
		} else {
			c.X += i
		}
		out[i] = c
	}
	return out
}

// Occupies reports whether the ship covers c.
func (s Ship) Occupies(c Coord) bool {
	if s.Orientation == Vertical {
		return c.X == s.X && c.Y >= s.Y && c.Y < s.Y+s.Length()
	}
	return c.Y == s.Y && c.X >= s.X && c.X < s.X+s.Length()
}

func (s Ship) Sunk() bool { return s.Length() > 0 && s.Hits >= s.Length() }

// DefaultFleet returns a valid fleet with every ship laid horizontally from
// column 0, one per row starting at row 0.
func DefaultFleet() []Ship {
	fleet := make([]Ship, len(FleetTypes))
	for i, t := range FleetTypes {
		fleet[i] = NewShip(t, 0, i, Horizontal)
	}
	return fleet
}
