// Package tui is the interactive task screen: a form, the task cards and a
// blocking alert, all driven by a controller.Controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskmgr/internal/controller"
	"taskmgr/internal/service"
)

type focusArea int

const (
	focusTitle focusArea = iota
	focusDescription
	focusList
	focusCount
)

// opDoneMsg reports that a controller operation returned.
type opDoneMsg struct {
	op string
}

// Model is the bubbletea model of the task screen.
// The controller owns the state; the widgets mirror the form fields.
type Model struct {
	ctx context.Context
	ctl *controller.Controller

	title   textinput.Model
	desc    textarea.Model
	spinner spinner.Model

	focus  focusArea
	cursor int

	// inFlight is set as soon as an operation is dispatched, before the
	// command goroutine reaches the controller.
	inFlight bool

	width int
}

// New builds the screen for ctl. Remote calls made from the screen use ctx.
func New(ctx context.Context, ctl *controller.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 500
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Description (optional)"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	return Model{
		ctx:      ctx,
		ctl:      ctl,
		title:    ti,
		desc:     ta,
		spinner:  sp,
		inFlight: true,
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.runOp("mount", m.ctl.Mount))
}

// runOp runs fn off the update loop and reports back with opDoneMsg.
func (m Model) runOp(op string, fn func(context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return opDoneMsg{op: op}
	}
}

// dispatch marks the screen busy and starts fn.
func (m Model) dispatch(op string, fn func(context.Context)) (Model, tea.Cmd) {
	m.inFlight = true
	return m, tea.Batch(m.runOp(op, fn), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.title.Width = max(msg.Width-8, 20)
		m.desc.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		m.inFlight = false
		m.syncForm()
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	st := m.ctl.State()

	// The alert blocks everything until acknowledged.
	if st.Err != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			m.ctl.DismissAlert()
		}
		return m, nil
	}

	if m.busy() {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+s":
		return m.dispatch("submit", m.ctl.Submit)
	}

	switch m.focus {
	case focusTitle:
		if msg.String() == "enter" {
			return m.dispatch("submit", m.ctl.Submit)
		}
	case focusList:
		return m.handleListKey(msg, st)
	}

	return m.updateFocused(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg, st controller.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(st.Tasks)-1 {
			m.cursor++
		}
	case "e", "enter":
		if task, ok := m.selected(st); ok {
			m.ctl.SelectForEdit(task)
			m.syncForm()
			m.setFocus(focusTitle)
		}
	case "d", "delete":
		if task, ok := m.selected(st); ok {
			id := task.ID
			return m.dispatch("delete", func(ctx context.Context) { m.ctl.Delete(ctx, id) })
		}
	case "r":
		return m.dispatch("refresh", m.ctl.Refresh)
	}
	return m, nil
}

// updateFocused forwards msg to the focused widget and copies its value
// into the controller.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		m.ctl.SetTitle(m.title.Value())
	case focusDescription:
		m.desc, cmd = m.desc.Update(msg)
		m.ctl.SetDescription(m.desc.Value())
	}
	return m, cmd
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.title.Blur()
	m.desc.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusDescription:
		m.desc.Focus()
	}
}

// syncForm copies the controller's form fields into the widgets.
func (m *Model) syncForm() {
	st := m.ctl.State()
	if m.title.Value() != st.Title {
		m.title.SetValue(st.Title)
		m.title.CursorEnd()
	}
	if m.desc.Value() != st.Description {
		m.desc.SetValue(st.Description)
	}
}

func (m *Model) clampCursor() {
	n := len(m.ctl.State().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected(st controller.State) (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(st.Tasks) {
		return service.Task{}, false
	}
	return st.Tasks[m.cursor], true
}

func (m Model) busy() bool {
	return m.inFlight || m.ctl.State().Busy
}
