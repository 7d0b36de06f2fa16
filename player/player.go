// Package player implements the decision makers that sit on each side of a
// match: a console-driven human and three automatic strategies of increasing
// strength.
package player

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/brensch/salvo/game"
)

var (
	ErrUnknownKind     = errors.New("unknown player kind")
	ErrPlacementFailed = errors.New("fleet placement failed")
)

// Strategy is one side of a match. A strategy only ever sees its own board
// during placement and the opponent's board through attack results.
type Strategy interface {
	Name() string
	// Interactive reports whether a person is driving this strategy.
	Interactive() bool
	PlaceFleet(b *game.Board) error
	ChooseAttack() game.Point
	// OnAttackResult reports the outcome of the point returned by the last
	// ChooseAttack. valid is false when the shot was wasted.
	OnAttackResult(p game.Point, valid bool, shot game.Shot)
	OnOpponentAttack(p game.Point)
}

const (
	KindHuman    = "human"
	KindAwful    = "awful"
	KindMediocre = "mediocre"
	KindGood     = "good"
)

// Kinds lists every kind accepted by New.
func Kinds() []string {
	return []string{KindHuman, KindAwful, KindMediocre, KindGood}
}

type options struct {
	rng     game.Rand
	console *Console
}

type Option func(*options)

// WithRand sets the random source used for placement and targeting.
func WithRand(rng game.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithConsole sets the console a human player reads from. Humans in the same
// process should share one Console.
func WithConsole(con *Console) Option {
	return func(o *options) { o.console = con }
}

// New builds a strategy by kind name.
func New(kind, name string, cfg *game.Config, opts ...Option) (Strategy, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.console == nil {
		o.console = StdConsole()
	}

	switch kind {
	case KindHuman:
		return NewHuman(name, cfg, o.console), nil
	case KindAwful:
		return NewAwful(name, cfg), nil
	case KindMediocre:
		return NewMediocre(name, cfg, o.rng), nil
	case KindGood:
		return NewGood(name, cfg, o.rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
