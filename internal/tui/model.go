// Package tui previews a lighting program in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/playback"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

const (
	scrubStep = 15
	speedStep = 10
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB347"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
)

// TickMsg carries a minute from the playback driver.
type TickMsg int

type Model struct {
	Project *engine.Project
	Driver  *playback.Driver

	ctx      context.Context
	ticks    chan int
	quitting bool
}

// NewModel wires a playback driver to the project. Ticks are delivered
// through a buffered channel and applied on the update loop. When the
// channel is full a tick is dropped; the next one carries the newer minute.
func NewModel(ctx context.Context, p *engine.Project) *Model {
	m := &Model{
		Project: p,
		ctx:     ctx,
		ticks:   make(chan int, 16),
	}
	m.Driver = playback.New(func(minute int) {
		select {
		case m.ticks <- minute:
		default:
		}
	})
	m.Driver.SetSpeed(p.Speed)
	m.Driver.Seek(p.CurrentTime)
	return m
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case minute := <-m.ticks:
			return TickMsg(minute)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) Init() tea.Cmd {
	return m.listen()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// The driver clock is authoritative; a minute queued before a
		// pause or a scrub must not move the display.
		if m.Driver.Playing() {
			m.Project.SetTime(m.Driver.Time())
		}
		return m, m.listen()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Driver.Stop()
			return m, tea.Quit

		case " ", "space":
			m.Driver.Seek(m.Project.CurrentTime)
			m.Project.Playing = m.Driver.Toggle(m.ctx)
			if !m.Project.Playing {
				m.drain()
			}

		case "+", "=":
			m.setSpeed(m.Driver.Speed() + speedStep)

		case "-", "_":
			m.setSpeed(m.Driver.Speed() - speedStep)

		case "left", "h":
			m.seek(m.Project.CurrentTime - scrubStep)

		case "right", "l":
			m.seek(m.Project.CurrentTime + scrubStep)

		case "n":
			m.step(1)

		case "p":
			m.step(-1)
		}
	}
	return m, nil
}

func (m *Model) setSpeed(speed int) {
	m.Driver.SetSpeed(speed)
	m.Project.Speed = m.Driver.Speed()
}

func (m *Model) seek(minute int) {
	m.Project.SetTime(minute)
	m.Driver.Seek(m.Project.CurrentTime)
	m.drain()
}

// drain discards queued ticks.
func (m *Model) drain() {
	for {
		select {
		case <-m.ticks:
		default:
			return
		}
	}
}

// step selects the next or previous keyframe, wrapping around the cycle.
func (m *Model) step(delta int) {
	n := m.Project.Store.Len()
	idx := m.Project.SelectedIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+delta)%n + n) % n
	}
	if err := m.Project.SelectKeyframe(idx); err != nil {
		return
	}
	m.Driver.Seek(m.Project.CurrentTime)
	m.drain()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	p := m.Project

	state := "STOP"
	if p.Playing {
		state = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %s  %s  %s  speed:%d",
		p.RecipeName, state, timeline.FormatTime(p.CurrentTime), p.TimeOfDay(), p.Speed))

	prev, next, f := p.Bracket()
	bracket := fmt.Sprintf("%s %s → %s %s  (%.0f%%)",
		timeline.FormatTime(prev.Time), prev.Name,
		timeline.FormatTime(next.Time), next.Name, f*100)

	spec := p.Spectrum()
	spectrum := fmt.Sprintf("%s  R%.0f G%.0f B%.0f  %d lit",
		spec.Dominant, spec.AvgR, spec.AvgG, spec.AvgB, spec.ActiveCells)

	help := dimStyle.Render("space:play  +/-:speed  ←/→:±15m  n/p:keyframe  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		RenderGrid(p.Live),
		"",
		bracket,
		spectrum,
		"",
		help,
	)
}

// RenderGrid draws each cell as a two-column colored block.
func RenderGrid(g grid.Grid) string {
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(g.Index(x, y))
			if !c.Active {
				b.WriteString(offStyle.Render("··"))
				continue
			}
			hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
		}
		if y < g.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Run shows the preview until the user quits.
func Run(ctx context.Context, p *engine.Project, autoplay bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, p)
	if autoplay {
		m.Driver.Start(ctx)
		p.Playing = true
	}
	defer m.Driver.Stop()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
