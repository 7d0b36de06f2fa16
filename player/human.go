package player

import (
	"fmt"
	"io"

	"github.com/brensch/salvo/game"
)

// Human reads placements and attacks from a line-based console. Bad input is
// re-prompted and never touches the board. Once the input stream ends, Err
// reports it and every further read gives up immediately.
type Human struct {
	name string
	cfg  *game.Config
	con  *Console
	out  io.Writer
	err  error
}

// NewHuman reads from con, which may be shared with other humans.
func NewHuman(name string, cfg *game.Config, con *Console) *Human {
	return &Human{name: name, cfg: cfg, con: con, out: con.Writer()}
}

func (h *Human) Name() string      { return h.name }
func (h *Human) Interactive() bool { return true }

// Err returns the error that ended console input, if any.
func (h *Human) Err() error { return h.err }

func (h *Human) readLine(prompt string) (string, bool) {
	if h.err != nil {
		return "", false
	}
	line, err := h.con.Prompt(prompt)
	if err != nil {
		h.err = err
		return "", false
	}
	return line, true
}

// readPoint prompts until the line holds two integers.
func (h *Human) readPoint(prompt string) (game.Point, bool) {
	for {
		line, ok := h.readLine(prompt)
		if !ok {
			return game.Point{}, false
		}
		var p game.Point
		var extra string
		n, _ := fmt.Sscan(line, &p.R, &p.C, &extra)
		if n != 2 {
			fmt.Fprintln(h.out, "You must input two integers.")
			continue
		}
		return p, true
	}
}

func (h *Human) readDirection(ship game.ShipSpec) (game.Direction, bool) {
	prompt := fmt.Sprintf("Enter h or v for direction of %s (length %d): ", ship.Name, ship.Length)
	for {
		line, ok := h.readLine(prompt)
		if !ok {
			return 0, false
		}
		if line != "" {
			switch line[0] {
			case 'h', 'H':
				return game.Horizontal, true
			case 'v', 'V':
				return game.Vertical, true
			}
		}
		fmt.Fprintln(h.out, "Direction must be h or v.")
	}
}

func (h *Human) PlaceFleet(b *game.Board) error {
	fmt.Fprintf(h.out, "%s must place %d ships.\n", h.name, h.cfg.NShips())
	_ = b.Render(h.out, false)

	for id := 0; id < h.cfg.NShips(); id++ {
		ship, _ := h.cfg.Ship(id)
		dir, ok := h.readDirection(ship)
		if !ok {
			return fmt.Errorf("%w: %w", ErrPlacementFailed, h.err)
		}
		edge := "leftmost"
		if dir == game.Vertical {
			edge = "topmost"
		}
		prompt := fmt.Sprintf("Enter row and column of %s cell (e.g. 3 5): ", edge)
		for {
			p, ok := h.readPoint(prompt)
			if !ok {
				return fmt.Errorf("%w: %w", ErrPlacementFailed, h.err)
			}
			if err := b.PlaceShip(p, id, dir); err != nil {
				fmt.Fprintf(h.out, "The ship cannot be placed there: %v.\n", err)
				continue
			}
			break
		}
		_ = b.Render(h.out, false)
	}
	return nil
}

// ChooseAttack returns (-1,-1) once input has ended; the shot is wasted and
// the caller is expected to check Err.
func (h *Human) ChooseAttack() game.Point {
	p, ok := h.readPoint("Enter the row and column to attack (e.g. 3 5): ")
	if !ok {
		return game.Point{R: -1, C: -1}
	}
	return p
}

func (h *Human) OnAttackResult(game.Point, bool, game.Shot) {}
func (h *Human) OnOpponentAttack(game.Point)                {}
