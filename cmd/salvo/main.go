// salvo plays a single match in the terminal. Either side may be a human at
// the keyboard or one of the automatic strategies.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brensch/salvo/config"
	"github.com/brensch/salvo/game"
	"github.com/brensch/salvo/logging"
	"github.com/brensch/salvo/player"
	"github.com/brensch/salvo/selfplay"
	"github.com/brensch/salvo/store"
)

func main() {
	if err := config.Load(".env"); err != nil {
		log.Printf("Ignoring .env: %v", err)
	}

	kindA := flag.String("a", config.String("SALVO_PLAYER_A", player.KindHuman), "Kind of the first player (human, awful, mediocre, good)")
	kindB := flag.String("b", config.String("SALVO_PLAYER_B", player.KindMediocre), "Kind of the second player")
	nameA := flag.String("name-a", config.String("SALVO_NAME_A", ""), "Display name of the first player (defaults to the kind)")
	nameB := flag.String("name-b", config.String("SALVO_NAME_B", ""), "Display name of the second player")
	rows := flag.Int("rows", config.Int("SALVO_ROWS", 10), "Board rows")
	cols := flag.Int("cols", config.Int("SALVO_COLS", 10), "Board columns")
	seed := flag.Int64("seed", config.Int64("SALVO_SEED", 0), "Random seed (0 = time based)")
	pause := flag.Bool("pause", config.Bool("SALVO_PAUSE", true), "Wait for enter after each shot when no human is playing")
	out := flag.String("out", config.String("SALVO_OUT", ""), "Optional parquet file for the shot log")
	logFormat := flag.String("log-format", config.String("SALVO_LOG_FORMAT", logging.FormatConsole), "Log format: console, json or pretty")
	logLevel := flag.String("log-level", config.String("SALVO_LOG_LEVEL", "warn"), "Log level")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Bad log level: %v", err)
	}
	logger, err := logging.New(os.Stderr, *logFormat, level)
	if err != nil {
		log.Fatalf("Bad log format: %v", err)
	}

	cfg, err := game.NewConfig(*rows, *cols)
	if err != nil {
		log.Fatalf("Invalid board: %v", err)
	}
	if err := cfg.AddStandardFleet(); err != nil {
		log.Fatalf("Invalid fleet: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	logger.Debug("seeded", "seed", *seed)

	con := player.StdConsole()
	a := mustPlayer(*kindA, *nameA, cfg, rng, con)
	b := mustPlayer(*kindB, *nameB, cfg, rng, con)
	if a.Name() == b.Name() {
		log.Fatalf("Players need distinct names; set -name-a or -name-b")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n := &narrator{w: os.Stdout}
	opts := selfplay.Options{
		Logger:     logger,
		BeforeTurn: n.beforeTurn,
		Observer:   n.observe,
	}
	if *pause && !a.Interactive() && !b.Interactive() {
		opts.Pause = func(selfplay.TurnEvent) {
			_, _ = con.Prompt("Press enter to continue: ")
		}
	}

	outcome := selfplay.PlayMatch(ctx, cfg, a, b, opts)
	n.finish(outcome)

	if *out != "" && len(outcome.Rows) > 0 {
		path, _ := filepath.Abs(*out)
		if err := store.WriteTurnsParquet(path, outcome.Rows); err != nil {
			log.Fatalf("Failed to write shot log: %v", err)
		}
		log.Printf("Wrote %d shots to %s", len(outcome.Rows), path)
	}
	if outcome.Err != nil {
		os.Exit(1)
	}
}

// mustPlayer builds one side. Humans read from the shared console.
func mustPlayer(kind, name string, cfg *game.Config, rng *rand.Rand, con *player.Console) player.Strategy {
	if name == "" {
		name = kind
	}
	s, err := player.New(kind, name, cfg,
		player.WithRand(rng),
		player.WithConsole(con),
	)
	if err != nil {
		log.Fatalf("Cannot create player: %v (kinds: %v)", err, player.Kinds())
	}
	return s
}

// narrator prints the running commentary of a match.
type narrator struct {
	w io.Writer
}

func (n *narrator) beforeTurn(attacker, defender player.Strategy, board *game.Board) {
	fmt.Fprintf(n.w, "%s's turn. Board for %s:\n", attacker.Name(), defender.Name())
	_ = board.Render(n.w, attacker.Interactive())
}

func (n *narrator) observe(ev selfplay.TurnEvent) {
	if !ev.Valid {
		fmt.Fprintf(n.w, "%s wasted a shot at %s.\n", ev.Attacker.Name(), ev.Point)
		return
	}
	fmt.Fprintf(n.w, "%s attacked %s and ", ev.Attacker.Name(), ev.Point)
	switch {
	case ev.Shot.Destroyed:
		fmt.Fprintf(n.w, "destroyed the %s, resulting in:\n", ev.ShipName)
	case ev.Shot.Hit:
		fmt.Fprintln(n.w, "hit something, resulting in:")
	default:
		fmt.Fprintln(n.w, "missed, resulting in:")
	}
	_ = ev.Board.Render(n.w, ev.Attacker.Interactive())
}

func (n *narrator) finish(o selfplay.Outcome) {
	if o.Err != nil {
		fmt.Fprintf(n.w, "The match ended without a winner: %v\n", o.Err)
		return
	}
	fmt.Fprintf(n.w, "%s wins after %d shots!\n", o.Winner.Name(), o.Turns)

	// A human who lost gets to see where the winner's ships were.
	loser, winnerBoard := o.B, o.BoardA
	if o.Winner == o.B {
		loser, winnerBoard = o.A, o.BoardB
	}
	if loser.Interactive() {
		fmt.Fprintf(n.w, "Here is where %s's ships were:\n", o.Winner.Name())
		_ = winnerBoard.Render(n.w, false)
	}
	fmt.Fprintf(n.w, "Accuracy: %s %.1f%%, %s %.1f%%\n",
		o.A.Name(), o.StatsA.Accuracy(), o.B.Name(), o.StatsB.Accuracy())
}
