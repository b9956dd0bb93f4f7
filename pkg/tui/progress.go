// Package tui renders the command line's styled output and the progress
// indicator shown while a tool runs.
package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const animFPS = 30

// Task is the work a progress indicator waits on.
type Task func(ctx context.Context) (string, error)

// doneMsg carries the task result into the program.
type doneMsg struct {
	out string
	err error
}

// animTickMsg drives the harmonica spring for the pulsing status circle.
type animTickMsg time.Time

// progressModel shows a spinner and a pulsing circle until the task ends.
type progressModel struct {
	label   string
	spinner spinner.Model
	start   time.Time
	now     time.Time

	spring     harmonica.Spring
	animPos    float64
	animVel    float64
	animTarget float64

	cancel context.CancelFunc
	done   bool
	out    string
	err    error
}

func newProgressModel(label string, cancel context.CancelFunc) progressModel {
	now := time.Now()
	return progressModel{
		label:      label,
		spinner:    newSpinner(),
		start:      now,
		now:        now,
		spring:     harmonica.NewSpring(harmonica.FPS(animFPS), 6.0, 0.3),
		animTarget: 1,
		cancel:     cancel,
	}
}

// newSpinner creates the dots spinner.
func newSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{
			".       ",
			"..      ",
			"...     ",
			"....    ",
			".....   ",
			"......  ",
			"....... ",
			"........",
		},
		FPS: time.Second / 5,
	}
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)
	return sp
}

func animTick() tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, animTick())
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done, m.out, m.err = true, msg.out, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case animTickMsg:
		m.now = time.Time(msg)
		m.animPos, m.animVel = m.spring.Update(m.animPos, m.animVel, m.animTarget)
		if math.Abs(m.animPos-m.animTarget) < 0.05 {
			m.animTarget = 1 - m.animTarget
		}
		return m, animTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	circle := StatusIdleStyle.Render(StatusCircle)
	if m.animPos > 0.5 {
		circle = StatusActiveStyle.Render(StatusCircle)
	}
	elapsed := m.now.Sub(m.start).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s executing %s %s\n",
		circle, m.spinner.View(), m.label, HelpStyle.Render(elapsed.String()+"  esc interrupt"))
}

// RunWithProgress runs task while drawing a progress indicator on out.
// ctrl+c or esc cancels the task's context. When interactive is false the
// task runs without any output of its own.
func RunWithProgress(ctx context.Context, label string, out io.Writer, interactive bool, task Task) (string, error) {
	if !interactive {
		return task(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(label, cancel), tea.WithOutput(out), tea.WithContext(ctx))

	// the task keeps running on ctx even if the program fails to start
	results := make(chan doneMsg, 1)
	go func() {
		res, err := task(ctx)
		results <- doneMsg{out: res, err: err}
		p.Send(doneMsg{out: res, err: err})
	}()

	final, err := p.Run()
	if m, ok := final.(progressModel); ok && err == nil && m.done {
		return m.out, m.err
	}
	r := <-results
	return r.out, r.err
}
