package game

import "errors"

// Configuration errors. These abort match construction.
var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrInvalidShip       = errors.New("invalid ship")
)

// Invalid operations. The board is left untouched when one of these is returned.
var (
	ErrOutOfBounds      = errors.New("point out of bounds")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrUnknownShip      = errors.New("unknown ship id")
	ErrShipPlaced       = errors.New("ship already placed")
	ErrShipNotPlaced    = errors.New("ship not placed there")
	ErrCellTaken        = errors.New("cell not empty")
	ErrAlreadyShot      = errors.New("cell already attacked")
	ErrInPlay           = errors.New("board already in play")
)
