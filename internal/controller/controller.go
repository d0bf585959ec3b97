// Package controller keeps a local task list in step with a remote table.
//
// The controller owns the view state of the task screen: the displayed list,
// the form fields, the edit target, the busy flag and the pending alert. Every
// mutating action issues exactly one remote call and, on success, refetches
// the whole table. The list is never patched locally.
package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

// State is a snapshot of everything the task screen renders.
type State struct {
	// Tasks is the list as of the last successful refresh, in store order.
	Tasks []service.Task

	// Title and Description are the form fields.
	Title       string
	Description string

	// Editing is true in edit mode; EditID is the row being edited.
	Editing bool
	EditID  int64

	// Busy is true while a remote call is in flight.
	Busy bool

	// Err is the failure awaiting acknowledgement, nil if none.
	Err error
}

// Controller is the task screen state machine.
// It is safe for concurrent use; remote calls run without holding the lock.
// A mutation and its refetch hold the busy flag as one unit.
type Controller struct {
	svc    service.Service
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a controller in create mode with an empty list.
// A nil logger discards log output.
func New(svc service.Service, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{svc: svc, logger: logger}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Tasks = append([]service.Task(nil), c.state.Tasks...)
	return s
}

// SetTitle updates the title field.
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	c.state.Title = title
	c.mu.Unlock()
}

// SetDescription updates the description field.
func (c *Controller) SetDescription(description string) {
	c.mu.Lock()
	c.state.Description = description
	c.mu.Unlock()
}

// DismissAlert acknowledges the pending failure.
func (c *Controller) DismissAlert() {
	c.mu.Lock()
	c.state.Err = nil
	c.mu.Unlock()
}

// SelectForEdit copies task into the form and switches to edit mode.
// No remote call is made.
func (c *Controller) SelectForEdit(task service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Title = task.Title
	c.state.Description = task.Description
	c.state.Editing = true
	c.state.EditID = task.ID
}

// Mount performs the initial load. It runs once per screen and is not
// retried when it fails.
func (c *Controller) Mount(ctx context.Context) {
	c.Refresh(ctx)
}

// Submit dispatches the primary action: Update in edit mode, Create otherwise.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	editing := c.state.Editing
	c.mu.Unlock()

	if editing {
		c.Update(ctx)
		return
	}
	c.Create(ctx)
}

// Create inserts a row from the form fields. A blank title is ignored
// silently. On success the form is cleared and the list refetched.
func (c *Controller) Create(ctx context.Context) {
	c.mu.Lock()
	if c.state.Busy || strings.TrimSpace(c.state.Title) == "" {
		c.mu.Unlock()
		return
	}
	fields := service.Fields{Title: c.state.Title, Description: c.state.Description}
	c.begin()
	c.mu.Unlock()

	err := c.svc.Insert(ctx, fields)

	c.mu.Lock()
	ok := c.mutated("insert", err)
	if ok {
		c.state.Title = ""
		c.state.Description = ""
	}
	c.mu.Unlock()

	if ok {
		c.reload(ctx)
	}
}

// Update writes the form fields to the row being edited. Outside edit mode
// it does nothing. On success edit mode ends, the form is cleared and the
// list refetched; on failure edit mode is kept.
func (c *Controller) Update(ctx context.Context) {
	c.mu.Lock()
	if c.state.Busy || !c.state.Editing {
		c.mu.Unlock()
		return
	}
	id := c.state.EditID
	fields := service.Fields{Title: c.state.Title, Description: c.state.Description}
	c.begin()
	c.mu.Unlock()

	err := c.svc.UpdateByID(ctx, id, fields)

	c.mu.Lock()
	ok := c.mutated("update", err)
	if ok {
		c.state.Editing = false
		c.state.EditID = 0
		c.state.Title = ""
		c.state.Description = ""
	}
	c.mu.Unlock()

	if ok {
		c.reload(ctx)
	}
}

// Delete removes the row with id and refetches the list on success.
// There is no confirmation step.
func (c *Controller) Delete(ctx context.Context, id int64) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return
	}
	c.begin()
	c.mu.Unlock()

	err := c.svc.DeleteByID(ctx, id)

	c.mu.Lock()
	ok := c.mutated("delete", err)
	c.mu.Unlock()

	if ok {
		c.reload(ctx)
	}
}

// Refresh replaces the list with the table's current rows. On failure the
// previous list stays on screen.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return
	}
	c.begin()
	c.mu.Unlock()

	c.reload(ctx)
}

// reload fetches the list and settles the busy flag. The caller has set busy
// and does not hold mu.
func (c *Controller) reload(ctx context.Context) {
	tasks, err := c.svc.ListAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settle("list", err) {
		c.state.Tasks = tasks
		c.logger.Debug("list refreshed", "count", len(tasks))
	}
}

// mutated records the outcome of a mutation. Caller holds mu. On success busy
// stays set so that no other action runs before the refetch; on failure it is
// settled like any other call. Reports whether the call succeeded.
func (c *Controller) mutated(op string, err error) bool {
	if err != nil {
		return c.settle(op, err)
	}
	c.logger.Debug("remote operation succeeded", "op", op)
	return true
}

// begin marks a remote call in flight. Caller holds mu.
func (c *Controller) begin() {
	c.state.Busy = true
	c.state.Err = nil
}

// settle records the outcome of a remote call and clears the busy flag.
// Caller holds mu. Reports whether the call succeeded.
func (c *Controller) settle(op string, err error) bool {
	c.state.Busy = false
	if err != nil {
		c.state.Err = service.NewRemoteError(op, err)
		c.logger.Warn("remote operation failed", "op", op, "error", err)
		return false
	}
	c.logger.Debug("remote operation succeeded", "op", op)
	return true
}
