package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"popsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errRed = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const historyWindow = 600

type stepMsg struct {
	step  int
	total float64
}

type doneMsg struct{ err error }

type model struct {
	name    string
	steps   int
	current int
	history []float64
	err     error
	done    bool
	width   int

	updates chan stepMsg
	finish  chan doneMsg
	cancel  context.CancelFunc
}

// Run drives a full simulation while streaming total abundance into a live
// terminal view. The engine runs on its own goroutine; updates are throttled
// so million-step runs do not flood the event loop.
func Run(name string, simulator *sim.Simulator, steps int) error {
	ctx, cancel := context.WithCancel(context.Background())

	m := &model{
		name:    name,
		steps:   steps,
		history: make([]float64, 0, historyWindow),
		width:   80,
		updates: make(chan stepMsg, 64),
		finish:  make(chan doneMsg, 1),
		cancel:  cancel,
	}

	stride := steps / 400
	if stride < 1 {
		stride = 1
	}

	go func() {
		_, err := simulator.RunWithCallback(ctx, func(step int, abundance []float64) bool {
			if step%stride != 0 && step != steps-1 {
				return true
			}
			total := 0.0
			for _, v := range abundance {
				total += v
			}
			select {
			case m.updates <- stepMsg{step: step, total: total}:
			default:
				// view is behind; dropping a frame is fine
			}
			return true
		})
		m.finish <- doneMsg{err: err}
	}()

	_, err := tea.NewProgram(m).Run()
	cancel()
	if err != nil {
		return err
	}
	return m.err
}

func (m *model) Init() tea.Cmd { return m.wait() }

func (m *model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.updates:
			return msg
		case msg := <-m.finish:
			return msg
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case stepMsg:
		m.current = msg.step + 1
		m.history = append(m.history, msg.total)
		if len(m.history) > historyWindow {
			m.history = m.history[len(m.history)-historyWindow:]
		}
		return m, m.wait()
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render(fmt.Sprintf("popsim live: %s", m.name)))
	b.WriteString("\n\n")

	pct := 0.0
	if m.steps > 0 {
		pct = 100 * float64(m.current) / float64(m.steps)
	}
	b.WriteString(fmt.Sprintf("  step %s / %d  (%s)\n\n",
		green.Render(fmt.Sprintf("%d", m.current)),
		m.steps,
		yellow.Render(fmt.Sprintf("%.1f%%", pct)),
	))

	if len(m.history) >= 2 {
		plotWidth := m.width - 12
		if plotWidth < 20 {
			plotWidth = 20
		}
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("total abundance"),
		))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errRed.Render(fmt.Sprintf("run failed: %v", m.err)) + "\n")
	}
	b.WriteString("\n" + dim.Render("q quit") + "\n")
	return b.String()
}
