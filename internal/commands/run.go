package commands

import (
	"context"
	"fmt"
	"io"

	"taskmgr/internal/controller"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

// newController wires a controller to svc using the logger carried by ctx.
func newController(ctx context.Context, svc service.Service) *controller.Controller {
	return controller.New(svc, logging.FromContext(ctx))
}

// reportFailure prints the pending failure of a controller operation and
// returns the matching exit code. It returns Success when err is nil.
func reportFailure(errOut io.Writer, err error) int {
	if err == nil {
		return exitcode.Success
	}
	if service.IsUnauthorized(err) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// printOK prints the acknowledgement line unless quiet.
func printOK(out io.Writer, quiet bool) {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
}
