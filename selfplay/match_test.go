package selfplay

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/brensch/salvo/game"
	"github.com/brensch/salvo/player"
)

// scripted places every ship along the top-left and fires a fixed list of
// points, falling back to a row-major sweep.
type scripted struct {
	name     string
	cfg      *game.Config
	script   []game.Point
	next     int
	results  []bool
	incoming []game.Point
}

func (s *scripted) Name() string      { return s.name }
func (s *scripted) Interactive() bool { return false }

func (s *scripted) PlaceFleet(b *game.Board) error {
	for id := 0; id < s.cfg.NShips(); id++ {
		if err := b.PlaceShip(game.Point{R: id, C: 0}, id, game.Horizontal); err != nil {
			return err
		}
	}
	return nil
}

func (s *scripted) ChooseAttack() game.Point {
	i := s.next
	s.next++
	if i < len(s.script) {
		return s.script[i]
	}
	i -= len(s.script)
	return game.Point{R: (i / s.cfg.Cols()) % s.cfg.Rows(), C: i % s.cfg.Cols()}
}

func (s *scripted) OnAttackResult(_ game.Point, valid bool, _ game.Shot) {
	s.results = append(s.results, valid)
}

func (s *scripted) OnOpponentAttack(p game.Point) {
	s.incoming = append(s.incoming, p)
}

func smallConfig(t *testing.T, rows, cols int, lengths ...int) *game.Config {
	t.Helper()
	cfg, err := game.NewConfig(rows, cols)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	for i, l := range lengths {
		sym := byte('A' + i)
		if err := cfg.AddShip(l, sym, "ship "+string(sym)); err != nil {
			t.Fatalf("AddShip: %v", err)
		}
	}
	return cfg
}

func TestPhase_String(t *testing.T) {
	for p, want := range map[Phase]string{
		PhaseSetup:    "SETUP",
		PhaseTurns:    "ALTERNATING_TURNS",
		PhaseFinished: "FINISHED",
		Phase(42):     "UNKNOWN",
	} {
		if p.String() != want {
			t.Fatalf("%d.String()=%q want=%q", int(p), p.String(), want)
		}
	}
}

func TestPlayMatch_AIMatchesFinish(t *testing.T) {
	kinds := player.Kinds()[1:]
	for _, ka := range kinds {
		for _, kb := range kinds {
			cfg := smallConfig(t, 10, 10)
			if err := cfg.AddStandardFleet(); err != nil {
				t.Fatalf("AddStandardFleet: %v", err)
			}
			a, err := player.New(ka, "A-"+ka, cfg, player.WithRand(rand.New(rand.NewSource(1))))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			b, err := player.New(kb, "B-"+kb, cfg, player.WithRand(rand.New(rand.NewSource(2))))
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			events := 0
			out := PlayMatch(context.Background(), cfg, a, b, Options{
				Observer: func(TurnEvent) { events++ },
			})
			if out.Err != nil {
				t.Fatalf("%s vs %s: %v", ka, kb, out.Err)
			}
			if out.Phase != PhaseFinished || out.Winner == nil {
				t.Fatalf("%s vs %s: phase=%s winner=%v", ka, kb, out.Phase, out.Winner)
			}
			loserBoard := out.BoardB
			if out.Winner == b {
				loserBoard = out.BoardA
			}
			if !loserBoard.AllShipsDestroyed() {
				t.Fatalf("%s vs %s: loser fleet still afloat", ka, kb)
			}
			if events != out.Turns || len(out.Rows) != out.Turns {
				t.Fatalf("events=%d rows=%d turns=%d", events, len(out.Rows), out.Turns)
			}
			if out.StatsA.Shots+out.StatsB.Shots != out.Turns {
				t.Fatalf("shots=%d+%d turns=%d", out.StatsA.Shots, out.StatsB.Shots, out.Turns)
			}
			if _, err := uuid.Parse(out.MatchID); err != nil {
				t.Fatalf("match id %q: %v", out.MatchID, err)
			}

			sum := out.Summary()
			if sum.Winner != out.Winner.Name() || sum.Ships != 5 || sum.Error != "" {
				t.Fatalf("summary=%+v", sum)
			}
		}
	}
}

func TestPlayMatch_NoShipsAborts(t *testing.T) {
	cfg := smallConfig(t, 3, 3)
	a := &scripted{name: "a", cfg: cfg}
	b := &scripted{name: "b", cfg: cfg}
	out := PlayMatch(context.Background(), cfg, a, b, Options{})
	if !errors.Is(out.Err, ErrSetupFailed) || out.Winner != nil || out.Phase != PhaseSetup {
		t.Fatalf("err=%v winner=%v phase=%s", out.Err, out.Winner, out.Phase)
	}
	if out.Summary().Error == "" {
		t.Fatalf("summary lost the setup error")
	}
}

func TestPlayMatch_PlacementFailureAborts(t *testing.T) {
	cfg := smallConfig(t, 2, 4, 1, 1, 1)
	a := player.NewAwful("awful", cfg)
	b := &scripted{name: "b", cfg: cfg}
	out := PlayMatch(context.Background(), cfg, a, b, Options{})
	if !errors.Is(out.Err, ErrSetupFailed) || !errors.Is(out.Err, player.ErrPlacementFailed) {
		t.Fatalf("err=%v want setup failure wrapping placement failure", out.Err)
	}
	if out.Winner != nil || out.Turns != 0 {
		t.Fatalf("winner=%v turns=%d", out.Winner, out.Turns)
	}
}

func TestPlayMatch_WastedShotIsATurn(t *testing.T) {
	cfg := smallConfig(t, 2, 2, 1)
	a := &scripted{name: "a", cfg: cfg, script: []game.Point{{R: 5, C: 5}, {R: 0, C: 0}}}
	b := &scripted{name: "b", cfg: cfg, script: []game.Point{{R: 1, C: 1}}}

	out := PlayMatch(context.Background(), cfg, a, b, Options{})
	if out.Err != nil {
		t.Fatalf("err=%v", out.Err)
	}
	if out.Winner != a || out.Turns != 3 {
		t.Fatalf("winner=%v turns=%d want a in 3", out.Winner, out.Turns)
	}
	if len(a.results) != 2 || a.results[0] || !a.results[1] {
		t.Fatalf("a results=%v want [false true]", a.results)
	}
	if out.StatsA.Wasted != 1 || out.Rows[0].Valid {
		t.Fatalf("wasted=%d row0=%+v", out.StatsA.Wasted, out.Rows[0])
	}
	// Only the valid shot reaches the defender.
	if len(b.incoming) != 1 || b.incoming[0] != (game.Point{R: 0, C: 0}) {
		t.Fatalf("b incoming=%v", b.incoming)
	}
	last := out.Rows[len(out.Rows)-1]
	if !last.Destroyed || last.ShipID != 0 || last.ShipName != "ship A" {
		t.Fatalf("last row=%+v", last)
	}
}

func TestPlayMatch_FirstPlayerWinEndsBeforeReply(t *testing.T) {
	cfg := smallConfig(t, 1, 2, 1)
	a := &scripted{name: "a", cfg: cfg}
	b := &scripted{name: "b", cfg: cfg}
	out := PlayMatch(context.Background(), cfg, a, b, Options{})
	if out.Winner != a || out.Turns != 1 || b.next != 0 {
		t.Fatalf("winner=%v turns=%d b attacks=%d", out.Winner, out.Turns, b.next)
	}
}

func TestPlayMatch_ContextCancelled(t *testing.T) {
	cfg := smallConfig(t, 3, 3, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := PlayMatch(ctx, cfg, &scripted{name: "a", cfg: cfg}, &scripted{name: "b", cfg: cfg}, Options{})
	if !errors.Is(out.Err, ErrAborted) || !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("err=%v", out.Err)
	}
	if out.Phase != PhaseTurns || out.Winner != nil {
		t.Fatalf("phase=%s winner=%v", out.Phase, out.Winner)
	}
}

func TestPlayMatch_TurnLimit(t *testing.T) {
	cfg := smallConfig(t, 3, 3, 1)
	// Both sides keep firing off the grid.
	var wild []game.Point
	for i := 0; i < 10; i++ {
		wild = append(wild, game.Point{R: -1, C: i})
	}
	a := &scripted{name: "a", cfg: cfg, script: wild}
	b := &scripted{name: "b", cfg: cfg, script: wild}
	out := PlayMatch(context.Background(), cfg, a, b, Options{MaxTurns: 6})
	if !errors.Is(out.Err, ErrAborted) || out.Turns != 6 {
		t.Fatalf("err=%v turns=%d", out.Err, out.Turns)
	}
}

func TestPlayMatch_HumanInputEndsMatch(t *testing.T) {
	cfg := smallConfig(t, 2, 2, 1)
	var sb strings.Builder
	h := player.NewHuman("me", cfg, player.NewConsole(strings.NewReader("h\n1 1\n"), &sb))
	out := PlayMatch(context.Background(), cfg, h, &scripted{name: "b", cfg: cfg}, Options{})
	if !errors.Is(out.Err, ErrAborted) || out.Winner != nil || out.Turns != 0 {
		t.Fatalf("err=%v winner=%v turns=%d", out.Err, out.Winner, out.Turns)
	}
}

func TestStats_Accuracy(t *testing.T) {
	if got := (Stats{}).Accuracy(); got != 0 {
		t.Fatalf("empty accuracy=%v", got)
	}
	if got := (Stats{Shots: 5, Hits: 2, Wasted: 1}).Accuracy(); got != 50 {
		t.Fatalf("accuracy=%v want=50", got)
	}
}
