package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickgorman/claudepath/internal/config"
	"github.com/rickgorman/claudepath/internal/observe"
	"github.com/rickgorman/claudepath/internal/ui"
)

// errReported marks an error that has already been shown to the user.
var errReported = errors.New("reported")

// app holds global flag values shared by every command.
type app struct {
	claudeDir string
	verbose   bool
	logJSON   bool
	version   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   config.ToolName,
		Short: "Move projects without losing Claude Code history",
		Long: `claudepath moves or renames project directories and updates every
reference Claude Code keeps to them: the per-project session store,
session logs, and the global prompt history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.claudeDir, "claude-dir", "", "Claude data directory (default ~/.claude)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log per-file detail")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")

	root.AddCommand(
		a.newMoveCmd(),
		a.newRemapCmd(),
		a.newListCmd(),
		a.newRestoreCmd(),
		a.newEncodeCmd(),
		a.newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code. An interrupt
// cancels the running command, which rolls back a move in progress.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			ui.Fail("Error: %v", err)
		}
		return 1
	}
	return 0
}

func (a *app) loadConfig(noBackup bool) (config.Config, error) {
	return config.Load(config.Overrides{
		ClaudeDir: a.claudeDir,
		NoBackup:  noBackup,
	})
}

func (a *app) observer(out io.Writer) *observe.Observer {
	if a.logJSON {
		return observe.NewJSON(out, a.verbose)
	}
	return observe.New(out, a.verbose)
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.ToolName, a.version)
		},
	}
}
