package game

import (
	"fmt"
)

// Reserved cell marks. No ship may use one of these as its symbol.
const (
	EmptyMark byte = '.'
	MissMark  byte = 'o'
	HitMark   byte = 'X'
	BlockMark byte = '#'
)

func isReserved(sym byte) bool {
	return sym == EmptyMark || sym == MissMark || sym == HitMark || sym == BlockMark
}

// ShipSpec describes one registered ship type.
type ShipSpec struct {
	Length int
	Symbol byte
	Name   string
}

// Config holds the grid dimensions and the fleet registry for a match.
// Ship ids are the 0-based registration order and never change.
// A Config is read-only once play starts.
type Config struct {
	rows  int
	cols  int
	ships []ShipSpec
}

func NewConfig(rows, cols int) (*Config, error) {
	if rows < 1 || rows > MaxRows {
		return nil, fmt.Errorf("%w: rows=%d must be in [1,%d]", ErrInvalidDimensions, rows, MaxRows)
	}
	if cols < 1 || cols > MaxCols {
		return nil, fmt.Errorf("%w: cols=%d must be in [1,%d]", ErrInvalidDimensions, cols, MaxCols)
	}
	return &Config{rows: rows, cols: cols}, nil
}

func (c *Config) Rows() int   { return c.rows }
func (c *Config) Cols() int   { return c.cols }
func (c *Config) NShips() int { return len(c.ships) }

// IsValid reports whether p lies on the grid.
func (c *Config) IsValid(p Point) bool {
	return p.R >= 0 && p.R < c.rows && p.C >= 0 && p.C < c.cols
}

// RandomPoint draws a uniformly random point on the grid.
func (c *Config) RandomPoint(rng Rand) Point {
	return Point{R: rng.Intn(c.rows), C: rng.Intn(c.cols)}
}

// AddShip registers a ship type and assigns it the next id.
func (c *Config) AddShip(length int, symbol byte, name string) error {
	if length < 1 {
		return fmt.Errorf("%w: length %d must be >= 1", ErrInvalidShip, length)
	}
	if length > c.rows && length > c.cols {
		return fmt.Errorf("%w: length %d won't fit on a %dx%d board", ErrInvalidShip, length, c.rows, c.cols)
	}
	if symbol < 0x20 || symbol > 0x7e {
		return fmt.Errorf("%w: unprintable symbol %d", ErrInvalidShip, symbol)
	}
	if isReserved(symbol) {
		return fmt.Errorf("%w: symbol %q is reserved", ErrInvalidShip, symbol)
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidShip)
	}

	total := length
	for _, s := range c.ships {
		if s.Symbol == symbol {
			return fmt.Errorf("%w: symbol %q already used by %s", ErrInvalidShip, symbol, s.Name)
		}
		total += s.Length
	}
	if total > c.rows*c.cols {
		return fmt.Errorf("%w: board is too small to fit all ships", ErrInvalidShip)
	}

	c.ships = append(c.ships, ShipSpec{Length: length, Symbol: symbol, Name: name})
	return nil
}

// AddStandardFleet registers the classic five-ship fleet.
func (c *Config) AddStandardFleet() error {
	fleet := []ShipSpec{
		{Length: 5, Symbol: 'A', Name: "aircraft carrier"},
		{Length: 4, Symbol: 'B', Name: "battleship"},
		{Length: 3, Symbol: 'D', Name: "destroyer"},
		{Length: 3, Symbol: 'S', Name: "submarine"},
		{Length: 2, Symbol: 'P', Name: "patrol boat"},
	}
	for _, s := range fleet {
		if err := c.AddShip(s.Length, s.Symbol, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// Ship returns the spec registered under id.
func (c *Config) Ship(id int) (ShipSpec, bool) {
	if id < 0 || id >= len(c.ships) {
		return ShipSpec{}, false
	}
	return c.ships[id], true
}

func (c *Config) ShipLength(id int) int {
	s, _ := c.Ship(id)
	return s.Length
}

func (c *Config) ShipSymbol(id int) byte {
	s, _ := c.Ship(id)
	return s.Symbol
}

func (c *Config) ShipName(id int) string {
	s, _ := c.Ship(id)
	return s.Name
}
