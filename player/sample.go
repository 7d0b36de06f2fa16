package player

import "github.com/brensch/salvo/game"

// draw tries up to n random points and returns the first accepted one.
func draw(cfg *game.Config, rng game.Rand, n int, accept func(game.Point) bool) (game.Point, bool) {
	for i := 0; i < n; i++ {
		p := cfg.RandomPoint(rng)
		if accept(p) {
			return p, true
		}
	}
	return game.Point{}, false
}

// scan picks uniformly among every accepted point on the grid. It is the
// fallback once random draws stop finding candidates.
func scan(cfg *game.Config, rng game.Rand, accept func(game.Point) bool) (game.Point, bool) {
	var candidates []game.Point
	for r := 0; r < cfg.Rows(); r++ {
		for c := 0; c < cfg.Cols(); c++ {
			p := game.Point{R: r, C: c}
			if accept(p) {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return game.Point{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// choose draws first and scans if the draws come up empty.
func choose(cfg *game.Config, rng game.Rand, n int, accept func(game.Point) bool) (game.Point, bool) {
	if p, ok := draw(cfg, rng, n, accept); ok {
		return p, true
	}
	return scan(cfg, rng, accept)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// inCross reports whether p shares a row or column with center and lies
// within radius cells of it along that line.
func inCross(p, center game.Point, radius int) bool {
	if p.C == center.C && abs(p.R-center.R) <= radius {
		return true
	}
	return p.R == center.R && abs(p.C-center.C) <= radius
}
