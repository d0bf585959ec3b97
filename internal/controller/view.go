package controller

import (
	"strings"

	"taskmgr/internal/service"
)

// Labels for the primary action and the empty list.
const (
	AddLabel     = "Add Task"
	UpdateLabel  = "Update Task"
	EmptyMessage = "No tasks yet. Add one above!"
	UntitledText = "(untitled)"
)

// Card is the render data for one task in the list.
type Card struct {
	ID          int64
	Heading     string
	Body        string
	Editing     bool // the form is editing this task
	ActionsLive bool // edit and delete triggers are enabled
}

// SubmitLabel returns the primary button label for the current mode.
func (s State) SubmitLabel() string {
	if s.Editing {
		return UpdateLabel
	}
	return AddLabel
}

// Empty reports whether the empty-state message should be shown.
func (s State) Empty() bool {
	return len(s.Tasks) == 0
}

// Cards maps the task list to render data, keeping store order.
func (s State) Cards() []Card {
	cards := make([]Card, len(s.Tasks))
	for i, t := range s.Tasks {
		cards[i] = Card{
			ID:          t.ID,
			Heading:     DisplayTitle(t.Title),
			Body:        t.Description,
			Editing:     s.Editing && s.EditID == t.ID,
			ActionsLive: !s.Busy,
		}
	}
	return cards
}

// Find returns the task with id from the current list.
func (s State) Find(id int64) (service.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// DisplayTitle normalizes a title for single-line display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func DisplayTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return UntitledText
	}
	return title
}
