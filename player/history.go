package player

import (
	"github.com/dolthub/swiss"

	"github.com/brensch/salvo/game"
)

// history is the set of a strategy's own valid shots, keyed by point.
// The stored value records whether the shot hit.
type history struct {
	shots *swiss.Map[game.Point, bool]
}

func newHistory(cfg *game.Config) *history {
	return &history{shots: swiss.NewMap[game.Point, bool](uint32(cfg.Rows() * cfg.Cols()))}
}

func (h *history) record(p game.Point, hit bool) {
	h.shots.Put(p, hit)
}

func (h *history) fired(p game.Point) bool {
	return h.shots.Has(p)
}

func (h *history) hit(p game.Point) bool {
	v, ok := h.shots.Get(p)
	return ok && v
}

func (h *history) count() int {
	return h.shots.Count()
}
