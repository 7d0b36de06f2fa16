package player

import (
	"fmt"

	"github.com/brensch/salvo/game"
)

const (
	goodHuntDraws   = 120
	goodAxisDraws   = 50
	goodWindowDraws = 60
	goodMaxLimit    = 4
	goodPlaceDraws  = 10000
)

// Good hunts on a checkerboard until something is hit, then targets the
// neighbourhood of that hit. Once a second hit reveals the ship's axis it
// stays on that line until the ship sinks.
type Good struct {
	name  string
	cfg   *game.Config
	rng   game.Rand
	shots *history

	hunting bool
	anchor  game.Point
	// limit is the target window radius. It grows with every extending hit
	// and is read through radius, which caps it.
	limit int
	// axisSpent is set once the known axis yields no candidates; targeting
	// then falls back to the full cross around the anchor.
	axisSpent bool
	// escape is sticky: once the hunt pattern stalls, hunting also accepts
	// cells adjacent to earlier hits.
	escape bool
}

func NewGood(name string, cfg *game.Config, rng game.Rand) *Good {
	return &Good{
		name:    name,
		cfg:     cfg,
		rng:     rng,
		shots:   newHistory(cfg),
		hunting: true,
		limit:   1,
	}
}

func (g *Good) Name() string      { return g.name }
func (g *Good) Interactive() bool { return false }

// Hunting reports whether no unsunk hit is being targeted.
func (g *Good) Hunting() bool { return g.hunting }

func (g *Good) PlaceFleet(b *game.Board) error {
	draws := 0
	for id := 0; id < g.cfg.NShips(); id++ {
		for {
			if draws >= goodPlaceDraws {
				return fmt.Errorf("%w: %s after %d draws", ErrPlacementFailed, g.cfg.ShipName(id), draws)
			}
			draws++
			p := g.cfg.RandomPoint(g.rng)
			dir := game.Direction(g.rng.Intn(2))
			if b.PlaceShip(p, id, dir) == nil {
				break
			}
		}
	}
	return nil
}

func (g *Good) ChooseAttack() game.Point {
	if g.hunting {
		return g.hunt()
	}
	return g.target()
}

func (g *Good) fresh(p game.Point) bool { return !g.shots.fired(p) }

// parity holds for cells whose row and column are both odd or both even.
func parity(p game.Point) bool { return p.R%2 == p.C%2 }

// isNear reports a hit directly adjacent to p.
func (g *Good) isNear(p game.Point) bool {
	return g.shots.hit(game.Point{R: p.R, C: p.C + 1}) ||
		g.shots.hit(game.Point{R: p.R, C: p.C - 1}) ||
		g.shots.hit(game.Point{R: p.R + 1, C: p.C}) ||
		g.shots.hit(game.Point{R: p.R - 1, C: p.C})
}

// isNext reports two consecutive hits running away from p in a straight line.
func (g *Good) isNext(p game.Point) bool {
	h := g.shots.hit
	return (h(game.Point{R: p.R, C: p.C + 1}) && h(game.Point{R: p.R, C: p.C + 2})) ||
		(h(game.Point{R: p.R, C: p.C - 1}) && h(game.Point{R: p.R, C: p.C - 2})) ||
		(h(game.Point{R: p.R + 1, C: p.C}) && h(game.Point{R: p.R + 2, C: p.C})) ||
		(h(game.Point{R: p.R - 1, C: p.C}) && h(game.Point{R: p.R - 2, C: p.C}))
}

func (g *Good) hunt() game.Point {
	if !g.escape {
		pattern := func(p game.Point) bool {
			return (g.fresh(p) && parity(p)) || (g.fresh(p) && g.isNext(p))
		}
		if p, ok := draw(g.cfg, g.rng, goodHuntDraws, pattern); ok {
			return p
		}
		g.escape = true
	}

	widened := func(p game.Point) bool {
		return (g.fresh(p) && parity(p)) || (g.fresh(p) && g.isNear(p))
	}
	if p, ok := choose(g.cfg, g.rng, goodHuntDraws, widened); ok {
		return p
	}
	if p, ok := scan(g.cfg, g.rng, g.fresh); ok {
		return p
	}
	return g.cfg.RandomPoint(g.rng)
}

func (g *Good) radius() int {
	return min(g.limit, goodMaxLimit)
}

// axisHit reports a hit beside the anchor along dir.
func (g *Good) axisHit(dir game.Direction) bool {
	return g.shots.hit(g.anchor.Offset(dir, -1)) || g.shots.hit(g.anchor.Offset(dir, 1))
}

func (g *Good) onAxis(p game.Point, dir game.Direction, radius int) bool {
	if dir == game.Horizontal {
		return p.R == g.anchor.R && abs(p.C-g.anchor.C) <= radius
	}
	return p.C == g.anchor.C && abs(p.R-g.anchor.R) <= radius
}

func (g *Good) target() game.Point {
	if !g.axisSpent {
		for _, dir := range []game.Direction{game.Horizontal, game.Vertical} {
			if !g.axisHit(dir) {
				continue
			}
			if p, ok := g.alongAxis(dir); ok {
				return p
			}
			g.axisSpent = true
		}
	}

	inWindow := func(p game.Point) bool { return g.fresh(p) && inCross(p, g.anchor, g.radius()) }
	for {
		if p, ok := draw(g.cfg, g.rng, goodWindowDraws, inWindow); ok {
			return p
		}
		if g.radius() >= goodMaxLimit {
			break
		}
		g.limit++
	}
	if p, ok := scan(g.cfg, g.rng, inWindow); ok {
		return p
	}

	// Nothing left around the anchor.
	g.resetTarget()
	return g.hunt()
}

// alongAxis looks for an untouched cell on the anchor's line within the
// current radius, widening the radius one step at a time up to the cap.
func (g *Good) alongAxis(dir game.Direction) (game.Point, bool) {
	near := func(p game.Point) bool { return g.fresh(p) && g.onAxis(p, dir, g.radius()) }
	for {
		if p, ok := choose(g.cfg, g.rng, goodAxisDraws, near); ok {
			return p, true
		}
		if g.radius() >= goodMaxLimit {
			return game.Point{}, false
		}
		g.limit++
	}
}

func (g *Good) resetTarget() {
	g.hunting = true
	g.axisSpent = false
	g.limit = 1
}

func (g *Good) OnAttackResult(p game.Point, valid bool, shot game.Shot) {
	if !valid {
		return
	}
	g.shots.record(p, shot.Hit)

	switch {
	case shot.Hit && !shot.Destroyed && g.hunting:
		g.hunting = false
		g.anchor = p
	case shot.Hit && !shot.Destroyed:
		g.limit++
	case shot.Hit && shot.Destroyed:
		g.resetTarget()
	}
}

func (g *Good) OnOpponentAttack(game.Point) {}
