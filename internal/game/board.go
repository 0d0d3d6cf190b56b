package game

import "slices"

// Shot is one resolved shot against a board.
type Shot struct {
	Coord           Coord    `json:"coord"`
	Outcome         Outcome  `json:"outcome"`
	AlreadyResolved bool     `json:"alreadyResolved"`
	Ship            ShipType `json:"ship,omitempty"`
}

// Board is one player's fleet plus the record of shots it has received.
// It is empty until Place succeeds; afterwards only Resolve mutates it.
type Board struct {
	ships []Ship
	shots Grid
}

func NewBoard() *Board { return &Board{} }

// Placed reports whether a fleet has been accepted.
func (b *Board) Placed() bool { return len(b.ships) > 0 }

// Ships returns a copy of the fleet.
func (b *Board) Ships() []Ship { return slices.Clone(b.ships) }

// Shots returns a copy of the incoming-shot record.
func (b *Board) Shots() Grid { return b.shots }

// Place validates ships and, if valid, replaces the fleet. Hit counts on the
// input are ignored. On failure the board is unchanged.
func (b *Board) Place(ships []Ship) error {
	if err := ValidateFleet(ships); err != nil {
		return err
	}
	fleet := make([]Ship, len(ships))
	for i, s := range ships {
		s.Hits = 0
		fleet[i] = s
	}
	b.ships = fleet
	return nil
}

// ValidateFleet checks that ships contain each fleet type exactly once, lie
// inside the grid, and do not overlap.
func ValidateFleet(ships []Ship) error {
	seen := make(map[ShipType]bool, len(FleetTypes))
	for _, s := range ships {
		if !s.Type.Valid() {
			return placementError(RuleFleetComposition, "unknown ship type %q", s.Type)
		}
		if seen[s.Type] {
			return placementError(RuleFleetComposition, "duplicate %s", s.Type)
		}
		seen[s.Type] = true
		if !s.Orientation.Valid() {
			return placementError(RuleMalformedShip, "%s has unknown orientation %q", s.Type, s.Orientation)
		}
	}
	for _, t := range FleetTypes {
		if !seen[t] {
			return placementError(RuleFleetComposition, "missing %s", t)
		}
	}

	var owner [GridSize * GridSize]ShipType
	for _, s := range ships {
		for _, c := range s.Cells() {
			if !c.Valid() {
				return placementError(RuleOutOfBounds, "%s leaves the grid at %s", s.Type, c)
			}
			if other := owner[c.index()]; other != "" {
				return placementError(RuleOverlap, "%s overlaps %s at %s", s.Type, other, c)
			}
			owner[c.index()] = s.Type
		}
	}
	return nil
}

// Resolve fires at c. A cell that was already shot is not touched again: the
// recorded outcome comes back with AlreadyResolved set.
func (b *Board) Resolve(c Coord) (Shot, error) {
	if !c.Valid() {
		return Shot{}, Errorf(KindOutOfBounds, "coordinate %s outside %dx%d grid", c, GridSize, GridSize)
	}
	if prev := b.shots.At(c); prev != OutcomeNone {
		return Shot{Coord: c, Outcome: prev, AlreadyResolved: true, Ship: b.shipAt(c)}, nil
	}
	for i := range b.ships {
		s := &b.ships[i]
		if !s.Occupies(c) {
			continue
		}
		s.Hits++
		o := OutcomeHit
		if s.Sunk() {
			o = OutcomeSunk
		}
		b.shots.set(c, o)
		return Shot{Coord: c, Outcome: o, Ship: s.Type}, nil
	}
	b.shots.set(c, OutcomeMiss)
	return Shot{Coord: c, Outcome: OutcomeMiss}, nil
}

func (b *Board) shipAt(c Coord) ShipType {
	for _, s := range b.ships {
		if s.Occupies(c) {
			return s.Type
		}
	}
	return ""
}

// FleetSunk reports whether a fleet is placed and every ship in it is sunk.
func (b *Board) FleetSunk() bool {
	if !b.Placed() {
		return false
	}
	for _, s := range b.ships {
		if !s.Sunk() {
			return false
		}
	}
	return true
}

// SunkTypes lists the sunk ships in fleet order.
func (b *Board) SunkTypes() []ShipType {
	var out []ShipType
	for _, s := range b.ships {
		if s.Sunk() {
			out = append(out, s.Type)
		}
	}
	return out
}
