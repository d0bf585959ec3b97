// Package service defines the backend-agnostic interface for task operations.
package service

// Task is a single row of the remote task table.
type Task struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Fields is the mutable part of a task, sent on insert and update.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Fields returns the mutable fields of t.
func (t Task) Fields() Fields {
	return Fields{Title: t.Title, Description: t.Description}
}
