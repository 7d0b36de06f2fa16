package main

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dariubs/percent"

	"github.com/brensch/salvo/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Width(12)
	cellStyle   = lipgloss.NewStyle().Width(12)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	total         int
	matchesPlayed int
	shots         int64
	startTime     time.Time
	recent        []string
	table         *winTable
	updates       chan MatchUpdate
	done          <-chan struct{}
}

func initialModel(total int, updates chan MatchUpdate, done <-chan struct{}) model {
	return model{
		total:     total,
		startTime: time.Now(),
		table:     newWinTable(),
		updates:   updates,
		done:      done,
	}
}

type TickMsg time.Time

type doneMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), waitForDone(m.done), tickCmd())
}

func waitForUpdate(updates chan MatchUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func waitForDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case doneMsg:
		return m, tea.Quit
	case TickMsg:
		m.shots = totalShots.Load()
		return m, tickCmd()
	case MatchUpdate:
		m.matchesPlayed++
		summary := msg.Outcome.Summary()
		m.table.record(summary)
		line := fmt.Sprintf("Worker %d: %s vs %s, winner %q after %d shots", msg.WorkerID, msg.Pairing.a, msg.Pairing.b, summary.Winner, summary.Turns)
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > 10 {
			m.recent = m.recent[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	matchesPerSec := float64(m.matchesPlayed) / duration.Seconds()
	shotsPerSec := float64(m.shots) / duration.Seconds()
	if duration.Seconds() < 1 {
		matchesPerSec = 0
		shotsPerSec = 0
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Salvo tournament") + "\n\n")
	fmt.Fprintf(&sb, "Matches:     %d/%d\n", m.matchesPlayed, m.total)
	fmt.Fprintf(&sb, "Shots:       %d\n", m.shots)
	fmt.Fprintf(&sb, "Duration:    %s\n", duration.Round(time.Second))
	fmt.Fprintf(&sb, "Matches/Sec: %.2f\n", matchesPerSec)
	fmt.Fprintf(&sb, "Shots/Sec:   %.2f\n\n", shotsPerSec)

	_ = m.table.render(&sb)

	sb.WriteString("\nRecent Matches:\n")
	for _, r := range m.recent {
		sb.WriteString(r + "\n")
	}

	sb.WriteString(dimStyle.Render("\nPress q to quit.") + "\n")
	return sb.String()
}

// tally is the record of one ordered pairing.
type tally struct {
	played  int
	winsA   int
	winsB   int
	aborted int
	turns   int
}

// winTable aggregates match summaries by the kinds in each seat.
type winTable struct {
	pairs map[pairing]*tally
}

func newWinTable() *winTable {
	return &winTable{pairs: make(map[pairing]*tally)}
}

func (t *winTable) record(row store.MatchRow) {
	key := pairing{a: kindOf(row.PlayerA), b: kindOf(row.PlayerB)}
	tl, ok := t.pairs[key]
	if !ok {
		tl = &tally{}
		t.pairs[key] = tl
	}
	tl.played++
	tl.turns += int(row.Turns)
	switch row.Winner {
	case "":
		tl.aborted++
	case row.PlayerA:
		tl.winsA++
	case row.PlayerB:
		tl.winsB++
	}
}

// render writes one line per pairing, sorted by kind names.
func (t *winTable) render(w io.Writer) error {
	keys := make([]pairing, 0, len(t.pairs))
	for k := range t.pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("first"),
		headerStyle.Render("second"),
		headerStyle.Render("played"),
		headerStyle.Render("first win"),
		headerStyle.Render("avg shots"),
		headerStyle.Render("aborted"),
	)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, k := range keys {
		tl := t.pairs[k]
		finished := tl.played - tl.aborted
		winRate := 0.0
		avg := 0.0
		if finished > 0 {
			winRate = percent.PercentOf(tl.winsA, finished)
			avg = float64(tl.turns) / float64(tl.played)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			cellStyle.Render(k.a),
			cellStyle.Render(k.b),
			cellStyle.Render(fmt.Sprint(tl.played)),
			cellStyle.Render(fmt.Sprintf("%.1f%%", winRate)),
			cellStyle.Render(fmt.Sprintf("%.1f", avg)),
			cellStyle.Render(fmt.Sprint(tl.aborted)),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func seatName(kind, seat string) string {
	return kind + "-" + seat
}

// kindOf strips the seat suffix added by seatName.
func kindOf(name string) string {
	if i := strings.LastIndexByte(name, '-'); i > 0 {
		return name[:i]
	}
	return name
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
