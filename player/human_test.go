package player

import (
	"errors"
	"strings"
	"testing"

	"github.com/brensch/salvo/game"
)

func TestHuman_PlaceFleetReprompts(t *testing.T) {
	cfg, err := game.NewConfig(4, 4)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := cfg.AddShip(2, 'A', "alpha"); err != nil {
		t.Fatalf("AddShip: %v", err)
	}
	if err := cfg.AddShip(3, 'B', "bravo"); err != nil {
		t.Fatalf("AddShip: %v", err)
	}

	input := strings.Join([]string{
		"x",   // bad direction
		"h",   // alpha
		"a b", // not integers
		"0 3", // off the board
		"0 0",
		"v",   // bravo
		"0 0", // overlaps alpha
		"1 3",
	}, "\n") + "\n"
	var out strings.Builder
	h := NewHuman("me", cfg, NewConsole(strings.NewReader(input), &out))
	b := game.NewBoard(cfg)

	if err := h.PlaceFleet(b); err != nil {
		t.Fatalf("PlaceFleet: %v\n%s", err, out.String())
	}
	for _, p := range []game.Point{{R: 0, C: 0}, {R: 0, C: 1}} {
		if b.Cell(p) != 'A' {
			t.Fatalf("cell %v=%q want A", p, b.Cell(p))
		}
	}
	for _, p := range []game.Point{{R: 1, C: 3}, {R: 2, C: 3}, {R: 3, C: 3}} {
		if b.Cell(p) != 'B' {
			t.Fatalf("cell %v=%q want B", p, b.Cell(p))
		}
	}

	transcript := out.String()
	for _, want := range []string{
		"me must place 2 ships.",
		"Direction must be h or v.",
		"You must input two integers.",
		"The ship cannot be placed there",
		"topmost",
	} {
		if !strings.Contains(transcript, want) {
			t.Fatalf("transcript missing %q:\n%s", want, transcript)
		}
	}
	if h.Err() != nil {
		t.Fatalf("Err=%v want nil", h.Err())
	}
}

func TestHuman_AttackThenEOF(t *testing.T) {
	cfg := standardConfig(t)
	var out strings.Builder
	h := NewHuman("me", cfg, NewConsole(strings.NewReader("nope\n2 3\n"), &out))

	if p := h.ChooseAttack(); p != (game.Point{R: 2, C: 3}) {
		t.Fatalf("attack=%v want=(2,3)", p)
	}
	if p := h.ChooseAttack(); p != (game.Point{R: -1, C: -1}) {
		t.Fatalf("attack after EOF=%v want=(-1,-1)", p)
	}
	if h.Err() == nil {
		t.Fatalf("Err=nil after EOF")
	}
	if err := h.PlaceFleet(game.NewBoard(cfg)); !errors.Is(err, ErrPlacementFailed) {
		t.Fatalf("err=%v want=%v", err, ErrPlacementFailed)
	}
}

func TestHuman_TwoPlayersShareOneConsole(t *testing.T) {
	cfg, err := game.NewConfig(6, 6)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := cfg.AddShip(2, 'A', "alpha"); err != nil {
		t.Fatalf("AddShip: %v", err)
	}

	var out strings.Builder
	con := NewConsole(strings.NewReader("h\n0 0\nh\n5 4\n3 3\n"), &out)
	a := NewHuman("a", cfg, con)
	b := NewHuman("b", cfg, con)

	boardA, boardB := game.NewBoard(cfg), game.NewBoard(cfg)
	if err := a.PlaceFleet(boardA); err != nil {
		t.Fatalf("a PlaceFleet: %v", err)
	}
	if err := b.PlaceFleet(boardB); err != nil {
		t.Fatalf("b PlaceFleet: %v\n%s", err, out.String())
	}
	if boardA.Cell(game.Point{R: 0, C: 0}) != 'A' || boardB.Cell(game.Point{R: 5, C: 4}) != 'A' {
		t.Fatalf("boards:\n%s\n%s", boardA.Display(false), boardB.Display(false))
	}
	if p := a.ChooseAttack(); p != (game.Point{R: 3, C: 3}) {
		t.Fatalf("a attack=%v want=(3,3)", p)
	}
	if a.Err() != nil || b.Err() != nil {
		t.Fatalf("a err=%v b err=%v", a.Err(), b.Err())
	}
}
