package player

import (
	"fmt"

	"github.com/brensch/salvo/game"
)

// Awful stacks its fleet along the left edge and sweeps the grid backwards in
// row-major order. It ignores all feedback.
type Awful struct {
	name string
	cfg  *game.Config
	last game.Point
}

func NewAwful(name string, cfg *game.Config) *Awful {
	return &Awful{name: name, cfg: cfg}
}

func (a *Awful) Name() string      { return a.name }
func (a *Awful) Interactive() bool { return false }

func (a *Awful) PlaceFleet(b *game.Board) error {
	for id := 0; id < a.cfg.NShips(); id++ {
		if err := b.PlaceShip(game.Point{R: id, C: 0}, id, game.Horizontal); err != nil {
			return fmt.Errorf("%w: %s at row %d: %w", ErrPlacementFailed, a.cfg.ShipName(id), id, err)
		}
	}
	return nil
}

func (a *Awful) ChooseAttack() game.Point {
	if a.last.C > 0 {
		a.last.C--
		return a.last
	}
	a.last.C = a.cfg.Cols() - 1
	if a.last.R > 0 {
		a.last.R--
	} else {
		a.last.R = a.cfg.Rows() - 1
	}
	return a.last
}

func (a *Awful) OnAttackResult(game.Point, bool, game.Shot) {}
func (a *Awful) OnOpponentAttack(game.Point)                {}
