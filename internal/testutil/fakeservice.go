// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"taskmgr/internal/service"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
// Ids are assigned from 1 upward, like an auto-increment column.
type FakeService struct {
	mu     sync.Mutex
	rows   []service.Task
	nextID int64
	calls  []string

	// Error injection for testing
	ListAllErr    error
	InsertErr     error
	UpdateByIDErr error
	DeleteByIDErr error

	// OnCall, if set, runs inside every call before it settles.
	// The argument is "list", "insert", "update" or "delete".
	OnCall func(op string)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// Seed adds a row directly and returns its id.
func (f *FakeService) Seed(title, description string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.rows = append(f.rows, service.Task{ID: id, Title: title, Description: description})
	return id
}

// SeedRow adds a row with an explicit id.
func (f *FakeService) SeedRow(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, task)
	if task.ID >= f.nextID {
		f.nextID = task.ID + 1
	}
}

// Rows returns a copy of the stored rows.
func (f *FakeService) Rows() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.rows...)
}

// Calls returns the operations performed so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times op was called.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeService) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	hook := f.OnCall
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

// ListAll implements service.Service.
func (f *FakeService) ListAll(ctx context.Context) ([]service.Task, error) {
	f.record("list")
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}
	return f.Rows(), nil
}

// Insert implements service.Service.
func (f *FakeService) Insert(ctx context.Context, fields service.Fields) error {
	f.record("insert")
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Seed(fields.Title, fields.Description)
	return nil
}

// UpdateByID implements service.Service.
func (f *FakeService) UpdateByID(ctx context.Context, id int64, fields service.Fields) error {
	f.record("update")
	if f.UpdateByIDErr != nil {
		return f.UpdateByIDErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.rows {
		if t.ID == id {
			f.rows[i].Title = fields.Title
			f.rows[i].Description = fields.Description
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByID implements service.Service.
func (f *FakeService) DeleteByID(ctx context.Context, id int64) error {
	f.record("delete")
	if f.DeleteByIDErr != nil {
		return f.DeleteByIDErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.rows {
		if t.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
