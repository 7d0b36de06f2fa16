package player

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/brensch/salvo/game"
)

var miss = game.Shot{ShipID: -1}

func TestGood_NoDuplicateAttacks(t *testing.T) {
	for _, dims := range [][2]int{{10, 10}, {7, 9}} {
		for seed := int64(1); seed <= 5; seed++ {
			cfg, err := game.NewConfig(dims[0], dims[1])
			if err != nil {
				t.Fatalf("NewConfig: %v", err)
			}
			if err := cfg.AddStandardFleet(); err != nil {
				t.Fatalf("AddStandardFleet: %v", err)
			}

			defender := game.NewBoard(cfg)
			if err := NewGood("def", cfg, rand.New(rand.NewSource(seed+100))).PlaceFleet(defender); err != nil {
				t.Fatalf("PlaceFleet: %v", err)
			}

			g := NewGood("att", cfg, rand.New(rand.NewSource(seed)))
			seen := map[game.Point]bool{}
			for turn := 0; turn < cfg.Rows()*cfg.Cols() && !defender.AllShipsDestroyed(); turn++ {
				p := g.ChooseAttack()
				if seen[p] {
					t.Fatalf("seed=%d %dx%d turn %d repeated %v", seed, dims[0], dims[1], turn, p)
				}
				seen[p] = true
				shot, err := defender.Attack(p)
				if err != nil {
					t.Fatalf("seed=%d turn %d attack %v: %v", seed, turn, p, err)
				}
				g.OnAttackResult(p, true, shot)
			}
			if !defender.AllShipsDestroyed() {
				t.Logf("\n%s", defender.Display(false))
				t.Fatalf("seed=%d fleet survived a full sweep", seed)
			}
		}
	}
}

func TestGood_HuntUsesParity(t *testing.T) {
	cfg := standardConfig(t)
	g := NewGood("good", cfg, rand.New(rand.NewSource(11)))
	for i := 0; i < 20; i++ {
		p := g.ChooseAttack()
		if !parity(p) {
			t.Fatalf("hunt attack %d=%v breaks parity", i, p)
		}
		g.OnAttackResult(p, true, miss)
	}
}

func TestGood_TargetStaysOnRevealedAxis(t *testing.T) {
	cfg := standardConfig(t)
	g := NewGood("good", cfg, rand.New(rand.NewSource(5)))

	hit := game.Shot{Hit: true, ShipID: -1}
	g.OnAttackResult(game.Point{R: 5, C: 5}, true, hit)
	if g.Hunting() {
		t.Fatalf("still hunting after first hit")
	}
	g.OnAttackResult(game.Point{R: 5, C: 6}, true, hit)
	if !g.axisHit(game.Horizontal) || g.axisHit(game.Vertical) {
		t.Fatalf("axis detection horizontal=%v vertical=%v", g.axisHit(game.Horizontal), g.axisHit(game.Vertical))
	}

	// Row 5 within radius 4 of the anchor holds seven untouched cells. Each
	// attack stays inside the radius in force when it was chosen.
	for i := 0; i < 7; i++ {
		p := g.ChooseAttack()
		if p.R != 5 || abs(p.C-5) > g.radius() {
			t.Fatalf("attack %d=%v left row 5 within radius %d", i, p, g.radius())
		}
		if g.shots.fired(p) {
			t.Fatalf("attack %d=%v already fired", i, p)
		}
		g.OnAttackResult(p, true, miss)
	}
	if g.radius() != goodMaxLimit {
		t.Fatalf("radius=%d want=%d after exhausting the line", g.radius(), goodMaxLimit)
	}
}

func TestGood_AxisWidensOneStepAtATime(t *testing.T) {
	cfg := standardConfig(t)
	hit := game.Shot{Hit: true, ShipID: -1}
	for seed := int64(1); seed <= 200; seed++ {
		g := NewGood("good", cfg, rand.New(rand.NewSource(seed)))
		g.OnAttackResult(game.Point{R: 5, C: 5}, true, hit)
		g.OnAttackResult(game.Point{R: 5, C: 6}, true, hit)

		// Radius 2 leaves (5,3), (5,4) and (5,7) open.
		for step := 0; step < 3; step++ {
			p := g.ChooseAttack()
			if p.R != 5 || abs(p.C-5) > 2 || g.radius() != 2 {
				t.Fatalf("seed %d step %d: %v outside row 5 radius 2 (radius=%d)", seed, step, p, g.radius())
			}
			g.OnAttackResult(p, true, miss)
		}

		// Only then does the window grow, and only by one.
		p := g.ChooseAttack()
		if g.radius() != 3 || p.R != 5 || (p.C != 2 && p.C != 8) {
			t.Fatalf("seed %d: widened attack %v radius=%d want (5,2) or (5,8) at radius 3", seed, p, g.radius())
		}
	}
}

func TestGood_DestroyReturnsToHunt(t *testing.T) {
	cfg := standardConfig(t)
	g := NewGood("good", cfg, rand.New(rand.NewSource(2)))

	g.OnAttackResult(game.Point{R: 3, C: 3}, true, game.Shot{Hit: true, ShipID: -1})
	g.OnAttackResult(game.Point{R: 3, C: 4}, true, game.Shot{Hit: true, ShipID: -1})
	if g.Hunting() || g.limit != 2 {
		t.Fatalf("hunting=%v limit=%d want targeting with limit 2", g.Hunting(), g.limit)
	}
	g.OnAttackResult(game.Point{R: 3, C: 5}, true, game.Shot{Hit: true, Destroyed: true, ShipID: 2})
	if !g.Hunting() || g.limit != 1 || g.axisSpent {
		t.Fatalf("after destroy hunting=%v limit=%d axisSpent=%v", g.Hunting(), g.limit, g.axisSpent)
	}

	// A wasted shot changes nothing.
	g.OnAttackResult(game.Point{R: 0, C: 0}, false, miss)
	if g.shots.fired(game.Point{R: 0, C: 0}) {
		t.Fatalf("invalid shot recorded")
	}
}

func TestGood_ExhaustedWindowFallsBackToHunt(t *testing.T) {
	cfg, err := game.NewConfig(3, 3)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	g := NewGood("good", cfg, rand.New(rand.NewSource(9)))
	g.OnAttackResult(game.Point{R: 1, C: 1}, true, game.Shot{Hit: true, ShipID: -1})
	for _, p := range []game.Point{{R: 0, C: 1}, {R: 2, C: 1}, {R: 1, C: 0}, {R: 1, C: 2}} {
		g.OnAttackResult(p, true, miss)
	}

	p := g.ChooseAttack()
	if g.shots.fired(p) || !cfg.IsValid(p) {
		t.Fatalf("attack %v is not a fresh cell", p)
	}
	if p.R == 1 || p.C == 1 {
		t.Fatalf("attack %v should be a corner", p)
	}
	if !g.Hunting() {
		t.Fatalf("still targeting an exhausted window")
	}
}

func TestGood_PlaceFleet(t *testing.T) {
	cfg := standardConfig(t)
	for seed := int64(1); seed <= 10; seed++ {
		b := game.NewBoard(cfg)
		if err := NewGood("good", cfg, rand.New(rand.NewSource(seed))).PlaceFleet(b); err != nil {
			t.Fatalf("seed=%d PlaceFleet: %v", seed, err)
		}
		checkFleet(t, b)
	}
}

func TestGood_PlaceFleetGivesUp(t *testing.T) {
	cfg := standardConfig(t)
	b := game.NewBoard(cfg)
	if err := b.PlaceShip(game.Point{R: 0, C: 0}, 0, game.Horizontal); err != nil {
		t.Fatalf("pre-place: %v", err)
	}
	err := NewGood("good", cfg, rand.New(rand.NewSource(1))).PlaceFleet(b)
	if !errors.Is(err, ErrPlacementFailed) {
		t.Fatalf("err=%v want=%v", err, ErrPlacementFailed)
	}
}
