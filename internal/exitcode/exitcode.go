// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes shared by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task id, bad format).
	UserError = 1

	// AuthError indicates missing settings or rejected credentials.
	AuthError = 2

	// BackendError indicates a failed call to the task table.
	BackendError = 3
)
