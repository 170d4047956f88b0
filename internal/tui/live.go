// Package tui renders a closed-loop simulation live in the terminal, one
// model minute per animation tick, with a scrolling glucose chart.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glucosim/internal/patient"
	"github.com/san-kum/glucosim/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const chartWindow = 180 // minutes of trace kept on screen

type Model struct {
	patient    *patient.Patient
	controller sim.Controller
	schedule   sim.Schedule
	duration   float64

	glucose []float64
	lastCHO float64
	lastIns float64

	paused bool
	done   bool
	err    error
	speed  int // model minutes per tick

	width  int
	height int
}

func NewLive(p *patient.Patient, controller sim.Controller, schedule sim.Schedule, duration float64) *Model {
	return &Model{
		patient:    p,
		controller: controller,
		schedule:   schedule,
		duration:   duration,
		glucose:    make([]float64, 0, chartWindow),
		speed:      1,
		width:      80,
		height:     24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=":
			if m.speed < 32 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.done || m.err != nil {
			return m, nil
		}
		if !m.paused {
			for i := 0; i < m.speed && !m.done && m.err == nil; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	t := m.patient.Time()
	if t >= m.duration {
		m.done = true
		return
	}

	obs := m.patient.Observation()
	cho := m.schedule.CarbsAt(t)
	rate := m.controller.Rate(obs, cho, t)

	m.glucose = append(m.glucose, obs.Gsub)
	if len(m.glucose) > chartWindow {
		m.glucose = m.glucose[1:]
	}
	m.lastCHO = cho
	m.lastIns = rate

	if err := m.patient.Step(patient.Action{CHO: cho, Insulin: rate}); err != nil {
		m.err = err
	}
}

func (m *Model) View() string {
	var b strings.Builder

	title := cyan.Render(m.patient.Name()) + dim.Render(fmt.Sprintf("  t=%.0f min / %.0f min", m.patient.Time(), m.duration))
	b.WriteString("  " + title + "\n\n")

	if len(m.glucose) >= 2 {
		chartWidth := m.width - 14
		if chartWidth < 30 {
			chartWidth = 30
		}
		chartHeight := m.height - 10
		if chartHeight < 8 {
			chartHeight = 8
		}
		chart := asciigraph.Plot(m.glucose,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Caption("subcutaneous glucose (mg/dL)"),
		)
		b.WriteString(chart + "\n\n")
	} else {
		b.WriteString(dim.Render("  collecting samples...") + "\n\n")
	}

	b.WriteString("  " + m.statusLine() + "\n")
	b.WriteString("  " + m.eventLine() + "\n\n")

	help := "space pause  +/- speed  q quit"
	if m.paused {
		help = yellow.Render("paused") + "  " + help
	}
	if m.done {
		help = green.Render("finished") + "  " + help
	}
	if m.err != nil {
		help = red.Render("aborted: "+m.err.Error()) + "  " + help
	}
	b.WriteString("  " + dim.Render(help) + "\n")

	return b.String()
}

func (m *Model) statusLine() string {
	bg := m.patient.Observation().Gsub
	style := green
	switch {
	case bg < 70:
		style = red
	case bg > 180:
		style = yellow
	}
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		white.Render("BG"), style.Render(fmt.Sprintf("%6.1f mg/dL", bg)),
		white.Render("insulin"), cyan.Render(fmt.Sprintf("%.4f U/min", m.lastIns)),
		white.Render("speed"), dim.Render(fmt.Sprintf("%dx", m.speed)))
}

func (m *Model) eventLine() string {
	if m.patient.IsEating() {
		return magenta.Render(fmt.Sprintf("eating  %.1f g queued", m.patient.PlannedMeal()))
	}
	if m.lastCHO > 0 {
		return magenta.Render(fmt.Sprintf("meal announced  %.0f g", m.lastCHO))
	}
	return dim.Render("fasting")
}

// Run drives the live view until the user quits.
func Run(p *patient.Patient, controller sim.Controller, schedule sim.Schedule, duration float64) error {
	prog := tea.NewProgram(NewLive(p, controller, schedule, duration), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
