// internal/game/types.go
//
// Core type definitions for the Battleship engine.
// Defines:
//   - ShipType: the five vessel classes, each bound to a length.
//   - Orientation: direction a ship extends from its anchor cell.
//   - Status: lifecycle phase of a game (placement → shooting → finished).
//   - Outcome: result of a shot landing on a cell (miss/hit/sunk).

package game

// ShipType names a vessel class. Its length is fixed by the class.
type ShipType string

const (
	AircraftCarrier ShipType = "AIRCRAFT_CARRIER"
	Battleship      ShipType = "BATTLESHIP"
	Submarine       ShipType = "SUBMARINE"
	Cruiser         ShipType = "CRUISER"
	Destroyer       ShipType = "DESTROYER"
)

// FleetTypes lists the ship types a fleet must contain, each exactly once.
var FleetTypes = []ShipType{AircraftCarrier, Battleship, Submarine, Cruiser, Destroyer}

// Length returns the number of cells a ship of this type occupies (0 for unknown types).
func (t ShipType) Length() int {
	switch t {
	case AircraftCarrier:
		return 5
	case Battleship:
		return 4
	case Submarine, Cruiser:
		return 3
	case Destroyer:
		return 2
	default:
		return 0
	}
}

// Valid reports whether t is one of the known ship types.
func (t ShipType) Valid() bool { return t.Length() > 0 }

// Orientation is the axis a ship extends along from its anchor.
//   - Horizontal: increasing X.
//   - Vertical:   increasing Y.
type Orientation string

const (
	Horizontal Orientation = "HORIZONTAL"
	Vertical   Orientation = "VERTICAL"
)

func (o Orientation) Valid() bool { return o == Horizontal || o == Vertical }

// Status is the lifecycle phase of a game. Transitions only move forward:
// PLACE_SHIPS → SHOOT → FINISHED.
type Status string

const (
	StatusPlaceShips Status = "PLACE_SHIPS"
	StatusShoot      Status = "SHOOT"
	StatusFinished   Status = "FINISHED"
)

// Outcome is the recorded result of a shot on a cell.
// The zero value means the cell has not been shot.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeMiss Outcome = "MISS"
	OutcomeHit  Outcome = "HIT"
	OutcomeSunk Outcome = "SUNK"
)

// IsHit reports whether the outcome damaged a ship. SUNK counts as a hit.
func (o Outcome) IsHit() bool { return o == OutcomeHit || o == OutcomeSunk }
