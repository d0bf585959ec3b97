// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service is the remote table accessor.
// Every backend (hosted REST table, Google Tasks, MySQL) goes through this
// interface; the controller and the commands never import a backend SDK.
type Service interface {
	// ListAll returns every row of the table in store order.
	// No client-side sorting is applied.
	ListAll(ctx context.Context) ([]Task, error)

	// Insert creates a row. The id is assigned by the store and is not
	// returned; callers learn it on the next ListAll.
	Insert(ctx context.Context, f Fields) error

	// UpdateByID replaces the title and description of the row with id.
	UpdateByID(ctx context.Context, id int64, f Fields) error

	// DeleteByID removes the row with id.
	DeleteByID(ctx context.Context, id int64) error
}
