package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rickgorman/claudepath/internal/activity"
	"github.com/rickgorman/claudepath/internal/fsutil"
	"github.com/rickgorman/claudepath/internal/git"
	"github.com/rickgorman/claudepath/internal/mover"
	"github.com/rickgorman/claudepath/internal/ui"
	"github.com/rickgorman/claudepath/pkg/pathenc"
)

type opFlags struct {
	dryRun   bool
	noBackup bool
	merge    bool
	yes      bool
}

func (f *opFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would change without changing anything")
	cmd.Flags().BoolVar(&f.noBackup, "no-backup", false, "Skip the backup (failures cannot restore Claude data)")
	cmd.Flags().BoolVar(&f.merge, "merge", false, "Merge into existing Claude data for the destination")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")
}

// operation describes the differences between mv and remap.
type operation struct {
	fromLabel string
	prompt    string
	run       func(m *mover.Mover, cmd *cobra.Command, oldPath, newPath string, opts mover.Options) (*mover.Result, error)
}

func (a *app) newMoveCmd() *cobra.Command {
	var flags opFlags
	op := operation{
		fromLabel: "From:",
		prompt:    "Move project and update all Claude Code references?",
		run: func(m *mover.Mover, cmd *cobra.Command, oldPath, newPath string, opts mover.Options) (*mover.Result, error) {
			return m.Move(cmd.Context(), oldPath, newPath, opts)
		},
	}
	cmd := &cobra.Command{
		Use:   "mv <old-path> <new-path>",
		Short: "Move a project and update all Claude Code references",
		Long: `Move a project directory and update all Claude Code references to it.

The destination must not exist or must be an empty directory. If you
already moved the files yourself, use 'claudepath remap' instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOperation(cmd, op, flags, args[0], args[1])
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newRemapCmd() *cobra.Command {
	var flags opFlags
	op := operation{
		fromLabel: "Old:",
		prompt:    "Update all Claude Code references to the new path?",
		run: func(m *mover.Mover, cmd *cobra.Command, oldPath, newPath string, opts mover.Options) (*mover.Result, error) {
			return m.Remap(cmd.Context(), oldPath, newPath, opts)
		},
	}
	cmd := &cobra.Command{
		Use:   "remap <old-path> <new-path>",
		Short: "Update Claude Code references after moving a project yourself",
		Long: `Update all Claude Code references from <old-path> to <new-path> for a
project that has already been moved. <new-path> must exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOperation(cmd, op, flags, args[0], args[1])
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) runOperation(cmd *cobra.Command, op operation, flags opFlags, oldArg, newArg string) error {
	cfg, err := a.loadConfig(flags.noBackup)
	if err != nil {
		return err
	}
	obs := a.observer(cmd.ErrOrStderr())
	defer obs.Close()

	oldPath, err := fsutil.Resolve(expandHome(oldArg))
	if err != nil {
		return err
	}
	newPath, err := fsutil.Resolve(expandHome(newArg))
	if err != nil {
		return err
	}

	m := mover.New(cfg, obs)

	if flags.dryRun {
		ui.Warn("%s", ui.Bold("DRY RUN: no files will be modified"))
		ui.BlankLine()
	}
	ui.Field(op.fromLabel, oldPath)
	ui.Field("To:", newPath)
	if a.verbose {
		ui.DimMsg("Claude dir: %s (%s)", cfg.ClaudeDir, cfg.Source)
	}
	ui.BlankLine()

	if !flags.dryRun && !flags.yes {
		if err := a.preview(cmd, m, oldPath, cfg.NoBackup); err != nil {
			return err
		}
		if !ui.AskYesNo(op.prompt, false) {
			ui.DimMsg("Aborted.")
			return nil
		}
	}

	res, err := op.run(m, cmd, oldPath, newPath, mover.Options{
		DryRun:   flags.dryRun,
		NoBackup: cfg.NoBackup,
		Merge:    flags.merge,
	})
	if err != nil {
		reportOperationError(op, err)
		return errReported
	}

	ui.Success("%s", ui.Bold("Done!"))
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())

	checked := newPath
	if flags.dryRun {
		checked = oldPath
	}
	worktreeAdvice(checked)
	return nil
}

// worktreeAdvice warns when the moved directory takes part in linked Git
// worktrees, whose absolute gitdir pointers Git must repair.
func worktreeAdvice(path string) {
	layout, err := git.Inspect(path)
	if err != nil || !layout.NeedsRepair() {
		return
	}
	ui.BlankLine()
	if layout.Kind == git.LinkedWorktree {
		ui.Warn("This project is a linked Git worktree; its repository still points at the old path.")
	} else {
		ui.Warn("This repository has %d linked worktree(s) that still point at the old path.", len(layout.Worktrees))
	}
	ui.DimMsg("Run: %s", layout.RepairCommand())
}

// preview prints what a run will touch and warns about live sessions.
func (a *app) preview(cmd *cobra.Command, m *mover.Mover, oldPath string, noBackup bool) error {
	p, err := m.Preview(oldPath)
	if err != nil {
		return err
	}

	if p.ProjectFound {
		ui.DimMsg("Will update:")
		ui.Bullet("Project directory (rename)")
		if p.SessionCount > 0 {
			ui.Bullet("%d session file(s)", p.SessionCount)
		}
		if p.HasHistory {
			ui.Bullet("history.jsonl")
		}
		if !noBackup {
			ui.Bullet("Backup will be created")
		}
	} else {
		ui.Warn("Project not found in Claude data.")
		ui.DimMsg("Tip: run 'claudepath list' to see tracked projects.")
	}
	ui.BlankLine()

	report := activity.New().Check(cmd.Context(), oldPath)
	if report.Active() {
		ui.Warn("%s", ui.Yellow(ui.Bold("Claude Code may be using this project.")))
		for _, proc := range report.Processes {
			if proc.Command == "" {
				ui.Bullet("process %d", proc.PID)
				continue
			}
			ui.Bullet("process %d %s", proc.PID, proc.Command)
		}
		for _, c := range report.Containers {
			ui.Bullet("container %s (%s) mounts %s", c.Name, c.Image, c.MountSource)
		}
		ui.DimMsg("Close it first to avoid data corruption.")
		ui.BlankLine()
	}
	return nil
}

func reportOperationError(op operation, err error) {
	ui.Fail("Error: %v", err)

	switch {
	case errors.Is(err, mover.ErrDestinationNotEmpty):
		ui.DimMsg("If you already moved the files manually, use 'claudepath remap' instead.")
	case errors.Is(err, mover.ErrDestinationMissing):
		ui.DimMsg("The directory must already exist for 'remap'. Use 'claudepath mv' if you haven't moved it yet.")
	case errors.Is(err, mover.ErrStoredDirConflict):
		ui.DimMsg("Use --merge to combine sessions from both directories.")
	}

	var rbErr *mover.RollbackError
	if !errors.As(err, &rbErr) || rbErr.BackupPath == "" {
		return
	}
	ui.Field("Backup:", rbErr.BackupPath)
	if rbErr.Outcome != mover.RolledBack {
		ui.DimMsg("Run 'claudepath restore %s' to retry the restore.", filepath.Base(rbErr.BackupPath))
	}
}

func (a *app) newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <path>",
		Short: "Print the Claude Code directory name for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := fsutil.Resolve(expandHome(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pathenc.Encode(abs))
			return nil
		},
	}
}
