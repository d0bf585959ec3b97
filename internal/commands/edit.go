package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given,
// so that an explicit empty value can clear a field.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { c.title.Set(title) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(description string) { c.description.Set(description) }

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Change a task's title or description" }
func (c *EditCmd) Usage() string      { return "taskmgr edit [--title <text>] [--description <text>] <id>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optionalString{}
	c.description = optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := parseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	// Load the list so the edit starts from the stored values.
	ctl := newController(ctx, svc)
	ctl.Mount(ctx)
	st := ctl.State()
	if code := reportFailure(errOut, st.Err); code != exitcode.Success {
		return code
	}

	task, ok := st.Find(id)
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	ctl.SelectForEdit(task)
	if c.title.set {
		ctl.SetTitle(c.title.value)
	}
	if c.description.set {
		ctl.SetDescription(c.description.value)
	}
	ctl.Submit(ctx)

	if code := reportFailure(errOut, ctl.State().Err); code != exitcode.Success {
		return code
	}
	printOK(out, cfg.Quiet)
	return exitcode.Success
}
