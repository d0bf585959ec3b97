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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskmgr help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskmgr                                            List all tasks
  taskmgr list [common flags]                        List all tasks
  taskmgr add [common flags] [-d <text>] <title...>  Create a task
  taskmgr create [common flags] [-d <text>] <title...>
  taskmgr edit [common flags] [-t <text>] [-d <text>] <id>
  taskmgr rm [common flags] <id>
  taskmgr export [common flags] [-f json|csv|yaml|pdf] [-o <file>]
  taskmgr ui [common flags]                          Open the interactive screen
  taskmgr login [common flags]                       Google Tasks backend only
  taskmgr logout [common flags]
  taskmgr help
  taskmgr version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Backends (config.yaml "backend" or TASKMGR_BACKEND):
  rest          PostgREST-style table (rest.url, rest.api_key, rest.table)
  googletasks   One Google Tasks list (google.list_id)
  mysql         MySQL table (mysql.dsn, mysql.table)
`
