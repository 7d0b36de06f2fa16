// Package selfplay runs a single match between two strategies and records
// every shot.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dariubs/percent"
	"github.com/google/uuid"

	"github.com/brensch/salvo/game"
	"github.com/brensch/salvo/player"
	"github.com/brensch/salvo/store"
)

var (
	ErrSetupFailed = errors.New("match setup failed")
	ErrAborted     = errors.New("match aborted")
)

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseTurns
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "SETUP"
	case PhaseTurns:
		return "ALTERNATING_TURNS"
	case PhaseFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// TurnEvent describes one shot as it happens. Board is the defender's board
// after the shot landed and must not be modified.
type TurnEvent struct {
	MatchID  string
	Turn     int
	Attacker player.Strategy
	Defender player.Strategy
	Point    game.Point
	Valid    bool
	Shot     game.Shot
	ShipName string
	Board    *game.Board
}

type Options struct {
	// MatchID defaults to a random UUID.
	MatchID string

	// MaxTurns aborts the match after this many shots. Zero means no limit.
	MaxTurns int

	Logger *slog.Logger

	// BeforeTurn runs before the attacker picks its point.
	BeforeTurn func(attacker, defender player.Strategy, board *game.Board)

	Observer func(TurnEvent)

	// Pause runs after every shot, once the observer has seen it.
	Pause func(TurnEvent)

	OnStep func()
}

// Stats counts one side's shots.
type Stats struct {
	Shots  int
	Hits   int
	Wasted int
}

// Accuracy is the share of valid shots that hit, as a percentage.
func (s Stats) Accuracy() float64 {
	valid := s.Shots - s.Wasted
	if valid <= 0 {
		return 0
	}
	return percent.PercentOf(s.Hits, valid)
}

type Outcome struct {
	MatchID string
	Config  *game.Config
	A, B    player.Strategy
	BoardA  *game.Board
	BoardB  *game.Board

	// Phase is the phase the match ended in. Only a finished match has a winner.
	Phase  Phase
	Winner player.Strategy
	Turns  int
	StatsA Stats
	StatsB Stats
	Rows   []store.TurnRow
	Err    error

	StartedAt time.Time
	Duration  time.Duration
}

// WinnerName is empty when there is no winner.
func (o Outcome) WinnerName() string {
	if o.Winner == nil {
		return ""
	}
	return o.Winner.Name()
}

// Summary flattens the outcome into a single storable row.
func (o Outcome) Summary() store.MatchRow {
	row := store.MatchRow{
		MatchID:    o.MatchID,
		Winner:     o.WinnerName(),
		Turns:      int32(o.Turns),
		ShotsA:     int32(o.StatsA.Shots),
		HitsA:      int32(o.StatsA.Hits),
		WastedA:    int32(o.StatsA.Wasted),
		AccuracyA:  o.StatsA.Accuracy(),
		ShotsB:     int32(o.StatsB.Shots),
		HitsB:      int32(o.StatsB.Hits),
		WastedB:    int32(o.StatsB.Wasted),
		AccuracyB:  o.StatsB.Accuracy(),
		StartedAt:  o.StartedAt.UnixMilli(),
		DurationMs: o.Duration.Milliseconds(),
	}
	if o.Config != nil {
		row.Rows = int32(o.Config.Rows())
		row.Cols = int32(o.Config.Cols())
		row.Ships = int32(o.Config.NShips())
	}
	if o.A != nil {
		row.PlayerA = o.A.Name()
	}
	if o.B != nil {
		row.PlayerB = o.B.Name()
	}
	if o.Err != nil {
		row.Error = o.Err.Error()
	}
	return row
}

// inputErr returns the error that stopped an interactive strategy, if any.
func inputErr(s player.Strategy) error {
	if f, ok := s.(interface{ Err() error }); ok {
		return f.Err()
	}
	return nil
}

type match struct {
	ctx  context.Context
	opts Options
	log  *slog.Logger
	out  *Outcome
}

// PlayMatch places both fleets and then alternates shots, a first, until one
// fleet is destroyed. A failed placement, a cancelled context or a strategy
// whose input has ended stops the match without a winner.
func PlayMatch(ctx context.Context, cfg *game.Config, a, b player.Strategy, opts Options) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	matchID := opts.MatchID
	if matchID == "" {
		matchID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("match_id", matchID)

	out := &Outcome{
		MatchID:   matchID,
		Config:    cfg,
		A:         a,
		B:         b,
		Phase:     PhaseSetup,
		StartedAt: time.Now(),
		Rows:      make([]store.TurnRow, 0, 2*cfg.Rows()*cfg.Cols()),
	}
	m := &match{ctx: ctx, opts: opts, log: logger, out: out}
	m.run()
	out.Duration = time.Since(out.StartedAt)

	if out.Err != nil {
		logger.Warn("match stopped", "phase", out.Phase.String(), "turns", out.Turns, "err", out.Err)
	} else {
		logger.Info("match finished", "winner", out.WinnerName(), "turns", out.Turns)
	}
	return *out
}

func (m *match) run() {
	cfg, out := m.out.Config, m.out
	if cfg.NShips() == 0 {
		out.Err = fmt.Errorf("%w: no ships registered", ErrSetupFailed)
		return
	}

	out.BoardA = game.NewBoard(cfg)
	out.BoardB = game.NewBoard(cfg)
	if err := out.A.PlaceFleet(out.BoardA); err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrSetupFailed, out.A.Name(), err)
		return
	}
	if err := out.B.PlaceFleet(out.BoardB); err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrSetupFailed, out.B.Name(), err)
		return
	}
	m.log.Debug("fleets placed", "ships", cfg.NShips())

	out.Phase = PhaseTurns
	for {
		if err := m.fire(out.A, out.B, out.BoardB, &out.StatsA); err != nil {
			out.Err = err
			return
		}
		if out.BoardB.AllShipsDestroyed() {
			out.Winner = out.A
			break
		}
		if err := m.fire(out.B, out.A, out.BoardA, &out.StatsB); err != nil {
			out.Err = err
			return
		}
		if out.BoardA.AllShipsDestroyed() {
			out.Winner = out.B
			break
		}
	}
	out.Phase = PhaseFinished
}

// fire plays one shot. An invalid attack is recorded as a wasted turn.
func (m *match) fire(attacker, defender player.Strategy, board *game.Board, stats *Stats) error {
	if err := m.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	if m.opts.MaxTurns > 0 && m.out.Turns >= m.opts.MaxTurns {
		return fmt.Errorf("%w: turn limit %d reached", ErrAborted, m.opts.MaxTurns)
	}

	if m.opts.BeforeTurn != nil {
		m.opts.BeforeTurn(attacker, defender, board)
	}
	p := attacker.ChooseAttack()
	if err := inputErr(attacker); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAborted, attacker.Name(), err)
	}

	shot, err := board.Attack(p)
	valid := err == nil
	attacker.OnAttackResult(p, valid, shot)
	if valid {
		defender.OnOpponentAttack(p)
	}

	stats.Shots++
	switch {
	case !valid:
		stats.Wasted++
		m.log.Debug("wasted shot", "attacker", attacker.Name(), "point", p.String(), "err", err)
	case shot.Hit:
		stats.Hits++
	}

	ev := TurnEvent{
		MatchID:  m.out.MatchID,
		Turn:     m.out.Turns,
		Attacker: attacker,
		Defender: defender,
		Point:    p,
		Valid:    valid,
		Shot:     shot,
		Board:    board,
	}
	if shot.Destroyed {
		ev.ShipName = m.out.Config.ShipName(shot.ShipID)
	}
	m.out.Rows = append(m.out.Rows, store.TurnRow{
		MatchID:   ev.MatchID,
		Turn:      int32(ev.Turn),
		Attacker:  attacker.Name(),
		Defender:  defender.Name(),
		Row:       int32(p.R),
		Col:       int32(p.C),
		Valid:     valid,
		Hit:       shot.Hit,
		Destroyed: shot.Destroyed,
		ShipID:    int32(shot.ShipID),
		ShipName:  ev.ShipName,
	})
	m.out.Turns++

	if m.opts.Observer != nil {
		m.opts.Observer(ev)
	}
	if m.opts.OnStep != nil {
		m.opts.OnStep()
	}
	if m.opts.Pause != nil {
		m.opts.Pause(ev)
	}
	return nil
}
