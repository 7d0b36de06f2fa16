// tournament runs many matches between the automatic strategies in parallel,
// shows progress in a dashboard and writes shots and match summaries to
// Parquet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/salvo/config"
	"github.com/brensch/salvo/game"
	"github.com/brensch/salvo/logging"
	"github.com/brensch/salvo/player"
	"github.com/brensch/salvo/selfplay"
	"github.com/brensch/salvo/store"
)

var totalShots atomic.Int64
var totalMatches atomic.Int64

// pairing is one ordered matchup; a fires first.
type pairing struct {
	a, b string
}

type job struct {
	pairing
	round int
}

// MatchUpdate is sent to the dashboard for every finished match.
type MatchUpdate struct {
	WorkerID int
	Pairing  pairing
	Outcome  selfplay.Outcome
}

func main() {
	if err := config.Load(".env"); err != nil {
		log.Printf("Ignoring .env: %v", err)
	}

	outDir := flag.String("out-dir", config.String("SALVO_OUT_DIR", "data/tournament"), "Output directory for parquet batches")
	workers := flag.Int("workers", config.Int("SALVO_WORKERS", 8), "Number of match workers")
	rounds := flag.Int("rounds", config.Int("SALVO_ROUNDS", 100), "Matches per ordered pairing")
	matchesPerFlush := flag.Int("matches-per-flush", config.Int("SALVO_MATCHES_PER_FLUSH", 200), "Matches buffered per turns parquet file")
	rows := flag.Int("rows", config.Int("SALVO_ROWS", 10), "Board rows")
	cols := flag.Int("cols", config.Int("SALVO_COLS", 10), "Board columns")
	seed := flag.Int64("seed", config.Int64("SALVO_SEED", 0), "Base random seed (0 = time based)")
	maxTurns := flag.Int("max-turns", config.Int("SALVO_MAX_TURNS", 0), "Abort a match after this many shots (0 = rows*cols*4)")
	noTUI := flag.Bool("no-tui", config.Bool("SALVO_NO_TUI", false), "Log progress instead of showing the dashboard")
	report := flag.String("report", "", "Print win rates from match parquet files in this directory and exit")
	logFormat := flag.String("log-format", config.String("SALVO_LOG_FORMAT", logging.FormatConsole), "Log format: console, json or pretty")
	logLevel := flag.String("log-level", config.String("SALVO_LOG_LEVEL", "info"), "Log level")
	flag.Parse()

	if *report != "" {
		if err := printReport(os.Stdout, *report); err != nil {
			log.Fatalf("Report failed: %v", err)
		}
		return
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Bad log level: %v", err)
	}

	// The dashboard owns the terminal, so logs go to a file while it runs.
	logOut := os.Stderr
	if !*noTUI {
		f, err := openLogFile(*outDir)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
		logOut = f
	}
	logger, err := logging.New(logOut, *logFormat, level)
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
	if *maxTurns <= 0 {
		*maxTurns = cfg.Rows() * cfg.Cols() * 4
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var pairings []pairing
	for _, a := range autoKinds() {
		for _, b := range autoKinds() {
			pairings = append(pairings, pairing{a: a, b: b})
		}
	}
	total := len(pairings) * *rounds

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	jobs := make(chan job)
	go func() {
		defer close(jobs)
		for r := 0; r < *rounds; r++ {
			for _, p := range pairings {
				select {
				case jobs <- job{pairing: p, round: r}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	updates := make(chan MatchUpdate, *workers)
	results := make(chan selfplay.Outcome, (*workers)*4)

	var table *winTable
	writerDone := make(chan struct{})
	go func() {
		table = parquetWriterLoop(*outDir, *matchesPerFlush, results)
		close(writerDone)
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < *workers; i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			rng := newRand(*seed + int64(workerID))
			wlog := logger.With("worker", workerID)
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				a, b, err := newPair(j.pairing, cfg, rng)
				if err != nil {
					wlog.Error("cannot create players", "err", err)
					cancel()
					return
				}
				out := selfplay.PlayMatch(ctx, cfg, a, b, selfplay.Options{
					MaxTurns: *maxTurns,
					Logger:   wlog,
					OnStep:   func() { totalShots.Add(1) },
				})
				totalMatches.Add(1)
				results <- out

				// Avoid blocking shutdown if the UI loop stops consuming.
				select {
				case updates <- MatchUpdate{WorkerID: workerID, Pairing: j.pairing, Outcome: out}:
				default:
				}
			}
		}(i)
	}

	allDone := make(chan struct{})
	go func() {
		workerWG.Wait()
		close(results)
		<-writerDone
		close(allDone)
	}()

	if *noTUI {
		logProgress(ctx, total, updates, allDone)
	} else {
		p := tea.NewProgram(initialModel(total, updates, allDone), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Printf("dashboard: %v", err)
		}
	}

	cancel()
	<-allDone
	_ = table.render(os.Stdout)
	log.Printf("Tournament complete: matches=%d shots=%d", totalMatches.Load(), totalShots.Load())
}

// openLogFile appends to tournament.log in outDir, creating both as needed.
func openLogFile(outDir string) (*os.File, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(outDir, "tournament.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
}

// logProgress is the plain-text replacement for the dashboard.
func logProgress(ctx context.Context, total int, updates <-chan MatchUpdate, done <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Shutdown requested; waiting for workers to finish current matches...")
			return
		case <-done:
			return
		case u := <-updates:
			log.Printf("Worker %d: %s vs %s, winner %q after %d shots", u.WorkerID, u.Pairing.a, u.Pairing.b, u.Outcome.WinnerName(), u.Outcome.Turns)
		case <-ticker.C:
			secs := time.Since(start).Seconds()
			log.Printf("Stats: matches %d/%d, matches/s %.2f, shots/s %.2f",
				totalMatches.Load(), total, float64(totalMatches.Load())/secs, float64(totalShots.Load())/secs)
		}
	}
}

// parquetWriterLoop streams turn rows into rolling batch files and writes all
// match summaries once the input closes. It returns the win table of every
// match it saw.
func parquetWriterLoop(outDir string, matchesPerFlush int, in <-chan selfplay.Outcome) *winTable {
	if matchesPerFlush <= 0 {
		matchesPerFlush = 200
	}

	var bw *store.BatchWriter
	summaries := make([]store.MatchRow, 0, 1024)
	table := newWinTable()

	flush := func(final bool) {
		if bw == nil {
			return
		}
		outPath, rows, matches, err := bw.Finalize()
		bw = nil
		switch {
		case err != nil:
			log.Printf("Parquet flush failed: %v", err)
		case outPath == "":
		case final:
			log.Printf("Parquet final flush ok: %s (matches=%d rows=%d)", outPath, matches, rows)
		default:
			log.Printf("Parquet flush ok: %s (matches=%d rows=%d)", outPath, matches, rows)
		}
	}

	for out := range in {
		summary := out.Summary()
		summaries = append(summaries, summary)
		table.record(summary)
		if len(out.Rows) == 0 {
			continue
		}
		if bw == nil {
			w, err := store.NewBatchWriter(outDir)
			if err != nil {
				log.Printf("Cannot open batch writer: %v", err)
				continue
			}
			bw = w
		}
		if err := bw.WriteMatch(out.Rows); err != nil {
			log.Printf("Dropping match %s: %v", out.MatchID, err)
			continue
		}
		if bw.BufferedMatches() >= matchesPerFlush {
			flush(false)
		}
	}
	flush(true)

	if len(summaries) == 0 {
		return table
	}
	outPath, err := store.WriteMatchesBatchAtomic(outDir, summaries)
	if err != nil {
		log.Printf("Match summary write failed (matches=%d): %v", len(summaries), err)
		return table
	}
	log.Printf("Match summaries written: %s (matches=%d)", outPath, len(summaries))
	return table
}

func autoKinds() []string {
	var kinds []string
	for _, k := range player.Kinds() {
		if k != player.KindHuman {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// newPair builds both sides of a pairing. The names carry the seat so a
// strategy can meet itself.
func newPair(p pairing, cfg *game.Config, rng game.Rand) (player.Strategy, player.Strategy, error) {
	a, err := player.New(p.a, seatName(p.a, "a"), cfg, player.WithRand(rng))
	if err != nil {
		return nil, nil, err
	}
	b, err := player.New(p.b, seatName(p.b, "b"), cfg, player.WithRand(rng))
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
