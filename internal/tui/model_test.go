package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskmgr/internal/controller"
	"taskmgr/internal/logging"
	"taskmgr/internal/testutil"
)

func newTestModel(svc *testutil.FakeService) Model {
	return New(context.Background(), controller.New(svc, logging.Nop()))
}

// drain runs cmd one level deep and feeds back every opDoneMsg it yields.
// Timers (spinner and cursor blink follow-ups) are not run.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	default:
		msgs = append(msgs, msg)
	}
	for _, msg := range msgs {
		if done, ok := msg.(opDoneMsg); ok {
			next, _ := m.Update(done)
			m = next.(Model)
		}
	}
	return m
}

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mounted(t *testing.T, svc *testutil.FakeService) Model {
	t.Helper()
	m := newTestModel(svc)
	return drain(t, m, m.Init())
}

func TestModel_InitialLoad(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", "first task")

	m := newTestModel(svc)
	if !strings.Contains(m.View(), loadingText) {
		t.Error("expected loading indicator before the first load returns")
	}

	m = drain(t, m, m.Init())
	view := m.View()
	for _, want := range []string{headerText, controller.AddLabel, "#1 A", "first task", "[e] Edit  [d] Delete"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, loadingText) {
		t.Error("loading indicator should be gone after load")
	}
	if svc.CallCount("list") != 1 {
		t.Errorf("expected one list call, got %v", svc.Calls())
	}
}

func TestModel_EmptyState(t *testing.T) {
	m := mounted(t, testutil.NewFakeService())

	if !strings.Contains(m.View(), controller.EmptyMessage) {
		t.Errorf("expected empty message:\n%s", m.View())
	}
}

func TestModel_CreateFromForm(t *testing.T) {
	svc := testutil.NewFakeService()
	m := mounted(t, svc)

	m, _ = press(m, runes("Buy milk"))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(m, runes("two liters"))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.busy() {
		t.Error("expected screen busy right after submit")
	}
	m = drain(t, m, cmd)

	rows := svc.Rows()
	if len(rows) != 1 || rows[0].Title != "Buy milk" || rows[0].Description != "two liters" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if m.title.Value() != "" || m.desc.Value() != "" {
		t.Errorf("expected form cleared, got %q / %q", m.title.Value(), m.desc.Value())
	}
	if !strings.Contains(m.View(), "#1 Buy milk") {
		t.Errorf("expected new card:\n%s", m.View())
	}
}

func TestModel_BlankTitleIsIgnored(t *testing.T) {
	svc := testutil.NewFakeService()
	m := mounted(t, svc)

	m, _ = press(m, runes("   "))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	if svc.CallCount("insert") != 0 {
		t.Errorf("expected no insert, got %v", svc.Calls())
	}
}

func TestModel_EditFlow(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", "d")
	m := mounted(t, svc)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusList {
		t.Fatalf("expected list focus, got %d", m.focus)
	}
	m, _ = press(m, runes("e"))
	if m.focus != focusTitle || m.title.Value() != "A" || m.desc.Value() != "d" {
		t.Fatalf("expected form loaded from task, got focus %d %q %q", m.focus, m.title.Value(), m.desc.Value())
	}
	if !strings.Contains(m.View(), controller.UpdateLabel) {
		t.Errorf("expected update label:\n%s", m.View())
	}
	if len(svc.Calls()) != 1 {
		t.Errorf("selecting for edit must not call the store, got %v", svc.Calls())
	}

	m, _ = press(m, runes("2"))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	rows := svc.Rows()
	if rows[0].Title != "A2" || rows[0].Description != "d" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if !strings.Contains(m.View(), controller.AddLabel) {
		t.Errorf("expected add label after update:\n%s", m.View())
	}
}

func TestModel_DeleteAndRefresh(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", "")
	svc.Seed("B", "")
	m := mounted(t, svc)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(m, runes("j"))
	m, cmd := press(m, runes("d"))
	m = drain(t, m, cmd)

	rows := svc.Rows()
	if len(rows) != 1 || rows[0].Title != "A" {
		t.Fatalf("expected B deleted, got %+v", rows)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}

	svc.Seed("C", "")
	m, cmd = press(m, runes("r"))
	m = drain(t, m, cmd)
	if !strings.Contains(m.View(), "#3 C") {
		t.Errorf("expected refreshed list:\n%s", m.View())
	}
}

func TestModel_KeysIgnoredWhileBusy(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", "")
	m := mounted(t, svc)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, pending := press(m, runes("r"))

	m, cmd := press(m, runes("d"))
	if cmd != nil {
		t.Error("expected delete to be ignored while busy")
	}
	if !strings.Contains(m.View(), loadingText) {
		t.Error("expected loading indicator while busy")
	}
	if strings.Contains(m.View(), "[e] Edit") {
		t.Error("expected card actions hidden while busy")
	}

	drain(t, m, pending)
	if svc.CallCount("delete") != 0 {
		t.Errorf("unexpected delete: %v", svc.Calls())
	}
}

func TestModel_AlertBlocksUntilDismissed(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.InsertErr = errors.New("duplicate title")
	m := mounted(t, svc)

	m, _ = press(m, runes("X"))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, "duplicate title") || !strings.Contains(view, "Error") {
		t.Fatalf("expected alert:\n%s", view)
	}

	// Other keys do nothing while the alert is up.
	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || svc.CallCount("insert") != 1 {
		t.Error("expected submit to be blocked by the alert")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if strings.Contains(m.View(), "duplicate title") {
		t.Error("expected alert dismissed")
	}
	if m.title.Value() != "X" {
		t.Errorf("expected form kept after failure, got %q", m.title.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	m := mounted(t, testutil.NewFakeService())

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
