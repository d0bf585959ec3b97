package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/output"
	"taskmgr/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskmgr` (no args) and `taskmgr list`.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskmgr list" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctl := newController(ctx, svc)
	ctl.Mount(ctx)

	st := ctl.State()
	if code := reportFailure(errOut, st.Err); code != exitcode.Success {
		return code
	}

	if st.Empty() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "No tasks yet. Add one with: taskmgr add <title>")
		}
		return exitcode.Success
	}
	output.FormatList(out, st)
	return exitcode.Success
}
