// Package game defines the core types for a Battleship match: grid geometry,
// the fleet registry and the per-player board.
//
// These types carry no I/O and no randomness of their own. Anything that needs
// a random draw takes a Rand so that callers can seed it for reproducible games.
package game

import "fmt"

// Grid bounds. A Config may use any size up to these.
const (
	MaxRows = 10
	MaxCols = 10
)

// Point is a board coordinate. (0,0) is the top-left cell.
type Point struct {
	R int
	C int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.R, p.C)
}

// Offset returns p moved n cells along dir.
func (p Point) Offset(dir Direction, n int) Point {
	dr, dc := dir.Step()
	return Point{R: p.R + dr*n, C: p.C + dc*n}
}

type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	default:
		return "Unknown"
	}
}

// Step is the unit (row, col) delta a ship extends by in this direction.
func (d Direction) Step() (int, int) {
	if d == Vertical {
		return 1, 0
	}
	return 0, 1
}

// Rand is the random source used for placement and target selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}
