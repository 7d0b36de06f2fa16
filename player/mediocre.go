package player

import (
	"fmt"

	"github.com/brensch/salvo/game"
)

const (
	mediocrePlaceAttempts = 50
	// mediocrePlaceBudget caps PlaceShip calls inside a single backtracking
	// attempt. Past it the attempt counts as failed.
	mediocrePlaceBudget = 50000
	mediocreZoomRadius  = 4
	mediocreDraws       = 200
)

// Mediocre places its fleet by backtracking over a half-obstructed board and
// attacks at random, zooming in on the row and column of a fresh hit until
// some ship sinks.
type Mediocre struct {
	name    string
	cfg     *game.Config
	rng     game.Rand
	shots   *history
	zooming bool
	anchor  game.Point
}

func NewMediocre(name string, cfg *game.Config, rng game.Rand) *Mediocre {
	return &Mediocre{name: name, cfg: cfg, rng: rng, shots: newHistory(cfg)}
}

func (m *Mediocre) Name() string      { return m.name }
func (m *Mediocre) Interactive() bool { return false }

func (m *Mediocre) PlaceFleet(b *game.Board) error {
	for attempt := 0; attempt < mediocrePlaceAttempts; attempt++ {
		b.Block(m.rng)
		budget := mediocrePlaceBudget
		ok, err := m.place(b, m.cfg.NShips()-1, &budget)
		b.Unblock()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPlacementFailed, err)
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: no layout found in %d attempts", ErrPlacementFailed, mediocrePlaceAttempts)
}

// place puts ships id..0 on the board, highest id first. Every ship placed on
// a branch that dead-ends is taken back off before returning false. An error
// means a ship could not be taken back off and the board is no longer usable.
func (m *Mediocre) place(b *game.Board, id int, budget *int) (bool, error) {
	if id < 0 {
		return true, nil
	}
	for r := 0; r < m.cfg.Rows(); r++ {
		for c := 0; c < m.cfg.Cols(); c++ {
			p := game.Point{R: r, C: c}
			for _, dir := range []game.Direction{game.Horizontal, game.Vertical} {
				if *budget <= 0 {
					return false, nil
				}
				*budget--
				if b.PlaceShip(p, id, dir) != nil {
					continue
				}
				ok, err := m.place(b, id-1, budget)
				if ok || err != nil {
					return ok, err
				}
				if err := b.UnplaceShip(p, id, dir); err != nil {
					return false, fmt.Errorf("take back %s at %s: %w", m.cfg.ShipName(id), p, err)
				}
			}
		}
	}
	return false, nil
}

func (m *Mediocre) ChooseAttack() game.Point {
	if m.zooming {
		inWindow := func(p game.Point) bool {
			return !m.shots.fired(p) && inCross(p, m.anchor, mediocreZoomRadius)
		}
		if p, ok := choose(m.cfg, m.rng, mediocreDraws, inWindow); ok {
			return p
		}
		m.zooming = false
	}

	fresh := func(p game.Point) bool { return !m.shots.fired(p) }
	if p, ok := choose(m.cfg, m.rng, mediocreDraws, fresh); ok {
		return p
	}
	return m.cfg.RandomPoint(m.rng)
}

func (m *Mediocre) OnAttackResult(p game.Point, valid bool, shot game.Shot) {
	if !valid {
		return
	}
	m.shots.record(p, shot.Hit)

	switch {
	case shot.Hit && !shot.Destroyed && !m.zooming:
		m.zooming = true
		m.anchor = p
	case shot.Hit && shot.Destroyed:
		m.zooming = false
	}
}

func (m *Mediocre) OnOpponentAttack(game.Point) {}
