package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/export"
	"taskmgr/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	output string
}

// SetFormat sets the output format (for testing).
func (c *ExportCmd) SetFormat(format string) { c.format = format }

// SetOutput sets the output file (for testing).
func (c *ExportCmd) SetOutput(path string) { c.output = path }

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write the task list as json, csv, yaml or pdf" }
func (c *ExportCmd) Usage() string {
	return "taskmgr export [--format json|csv|yaml|pdf] [--output <file>]"
}
func (c *ExportCmd) NeedsBackend() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
	fs.StringVar(&c.format, "f", "json", "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format := c.format
	if format == "" {
		format = "json"
	}
	if !export.Supported(format) {
		fmt.Fprintf(errOut, "error: unknown format: %s (want %s)\n", format, strings.Join(export.Formats, ", "))
		return exitcode.UserError
	}

	ctl := newController(ctx, svc)
	ctl.Mount(ctx)
	st := ctl.State()
	if code := reportFailure(errOut, st.Err); code != exitcode.Success {
		return code
	}

	data, err := export.Export(st.Tasks, format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.output == "" {
		out.Write(data)
		return exitcode.Success
	}
	if err := os.WriteFile(c.output, data, 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write %s: %v\n", c.output, err)
		return exitcode.UserError
	}
	printOK(out, cfg.Quiet)
	return exitcode.Success
}
