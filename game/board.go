package game

import (
	"io"
	"strconv"
	"strings"
)

// Shot is the outcome of a valid attack. ShipID is -1 unless Destroyed.
type Shot struct {
	Hit       bool
	Destroyed bool
	ShipID    int
}

// Board is one player's grid. Ships are placed during setup; once the first
// valid attack lands the board is in play and placement is frozen.
type Board struct {
	cfg    *Config
	cells  [MaxRows][MaxCols]byte
	placed []byte // ship id -> symbol on the board, 0 when not placed
	inPlay bool
	salt   uint64 // advances on each nil-rng Block
}

func NewBoard(cfg *Config) *Board {
	b := &Board{cfg: cfg, placed: make([]byte, cfg.NShips())}
	b.Clear()
	return b
}

func (b *Board) Config() *Config { return b.cfg }

// InPlay reports whether an attack has landed since the last Clear.
func (b *Board) InPlay() bool { return b.inPlay }

// Cell returns the raw mark at p, or 0 if p is off the grid.
func (b *Board) Cell(p Point) byte {
	if !b.cfg.IsValid(p) {
		return 0
	}
	return b.cells[p.R][p.C]
}

// Clear empties every cell and returns the board to setup.
func (b *Board) Clear() {
	for r := range b.cells {
		for c := range b.cells[r] {
			b.cells[r][c] = EmptyMark
		}
	}
	for i := range b.placed {
		b.placed[i] = 0
	}
	b.inPlay = false
}

// run validates the cells a ship of the given length would cover.
func (b *Board) run(origin Point, length int, dir Direction) ([]Point, error) {
	if dir != Horizontal && dir != Vertical {
		return nil, ErrInvalidDirection
	}
	end := origin.Offset(dir, length-1)
	if !b.cfg.IsValid(origin) || !b.cfg.IsValid(end) {
		return nil, ErrOutOfBounds
	}
	pts := make([]Point, length)
	for i := range pts {
		pts[i] = origin.Offset(dir, i)
	}
	return pts, nil
}

// PlaceShip puts ship id on the board starting at origin and extending in dir.
// Nothing changes unless every cell of the run is in bounds and empty.
func (b *Board) PlaceShip(origin Point, id int, dir Direction) error {
	if b.inPlay {
		return ErrInPlay
	}
	spec, ok := b.cfg.Ship(id)
	if !ok {
		return ErrUnknownShip
	}
	b.grow(id)
	if b.placed[id] != 0 {
		return ErrShipPlaced
	}
	pts, err := b.run(origin, spec.Length, dir)
	if err != nil {
		return err
	}
	for _, p := range pts {
		if b.cells[p.R][p.C] != EmptyMark {
			return ErrCellTaken
		}
	}

	for _, p := range pts {
		b.cells[p.R][p.C] = spec.Symbol
	}
	b.placed[id] = spec.Symbol
	return nil
}

// UnplaceShip removes ship id. The run at origin must hold the ship's symbol
// in full; on success every cell carrying that symbol is cleared.
func (b *Board) UnplaceShip(origin Point, id int, dir Direction) error {
	if b.inPlay {
		return ErrInPlay
	}
	spec, ok := b.cfg.Ship(id)
	if !ok {
		return ErrUnknownShip
	}
	pts, err := b.run(origin, spec.Length, dir)
	if err != nil {
		return err
	}
	for _, p := range pts {
		if b.cells[p.R][p.C] != spec.Symbol {
			return ErrShipNotPlaced
		}
	}

	b.replace(spec.Symbol, EmptyMark)
	b.grow(id)
	b.placed[id] = 0
	return nil
}

// Attack fires at p.
func (b *Board) Attack(p Point) (Shot, error) {
	shot := Shot{ShipID: -1}
	if !b.cfg.IsValid(p) {
		return shot, ErrOutOfBounds
	}

	sym := b.cells[p.R][p.C]
	switch sym {
	case HitMark, MissMark:
		return shot, ErrAlreadyShot
	case EmptyMark, BlockMark:
		b.cells[p.R][p.C] = MissMark
		b.inPlay = true
		return shot, nil
	}

	b.cells[p.R][p.C] = HitMark
	b.inPlay = true
	shot.Hit = true
	if b.contains(sym) {
		return shot, nil
	}

	shot.Destroyed = true
	for id, s := range b.placed {
		if s == sym {
			shot.ShipID = id
			break
		}
	}
	return shot, nil
}

// AllShipsDestroyed reports whether no cell still holds a ship symbol.
func (b *Board) AllShipsDestroyed() bool {
	for r := 0; r < b.cfg.rows; r++ {
		for c := 0; c < b.cfg.cols; c++ {
			if !isReserved(b.cells[r][c]) {
				return false
			}
		}
	}
	return true
}

// grow keeps the placement table in step with ships registered after the
// board was created.
func (b *Board) grow(id int) {
	for len(b.placed) <= id {
		b.placed = append(b.placed, 0)
	}
}

func (b *Board) contains(sym byte) bool {
	for r := 0; r < b.cfg.rows; r++ {
		for c := 0; c < b.cfg.cols; c++ {
			if b.cells[r][c] == sym {
				return true
			}
		}
	}
	return false
}

func (b *Board) replace(from, to byte) {
	for r := 0; r < b.cfg.rows; r++ {
		for c := 0; c < b.cfg.cols; c++ {
			if b.cells[r][c] == from {
				b.cells[r][c] = to
			}
		}
	}
}

// Render writes the grid with a column header and a row index per line.
// With shotsOnly set, only miss and hit marks are shown.
func (b *Board) Render(w io.Writer, shotsOnly bool) error {
	_, err := io.WriteString(w, b.Display(shotsOnly))
	return err
}

func (b *Board) Display(shotsOnly bool) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.cfg.cols; c++ {
		sb.WriteString(strconv.Itoa(c))
	}
	sb.WriteByte('\n')

	for r := 0; r < b.cfg.rows; r++ {
		sb.WriteString(strconv.Itoa(r))
		sb.WriteByte(' ')
		for c := 0; c < b.cfg.cols; c++ {
			mark := b.cells[r][c]
			if shotsOnly && mark != MissMark && mark != HitMark {
				mark = EmptyMark
			}
			sb.WriteByte(mark)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
