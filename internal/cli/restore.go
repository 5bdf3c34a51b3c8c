package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rickgorman/claudepath/internal/backup"
	"github.com/rickgorman/claudepath/internal/fsutil"
	"github.com/rickgorman/claudepath/internal/ui"
)

func (a *app) newRestoreCmd() *cobra.Command {
	var (
		list bool
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "restore [timestamp]",
		Short: "Restore Claude Code data from a backup",
		Long: `Restore the Claude Code data saved by a previous mv or remap.

Without a timestamp the most recent backup is restored. Use --list to see
the available backups.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(false)
			if err != nil {
				return err
			}
			root := cfg.BackupRoot()

			if list {
				return listBackups(cmd, root)
			}

			var dir string
			if len(args) == 1 {
				dir = filepath.Join(root, args[0])
				if filepath.Base(args[0]) != args[0] || !fsutil.Exists(dir) {
					ui.Fail("Error: backup not found: %s", args[0])
					ui.DimMsg("Run 'claudepath restore --list' to see available backups.")
					return errReported
				}
			} else {
				latest, ok := backup.FindLatest(root)
				if !ok {
					ui.Fail("Error: no backups found.")
					ui.DimMsg("Backups are created automatically when running 'mv' or 'remap'.")
					return errReported
				}
				dir = latest
			}

			ui.Field("Backup:", filepath.Base(dir))
			if m, err := backup.ReadManifest(dir); err == nil {
				ui.DimMsg("  project_dir: %s", m.ProjectDir)
				ui.DimMsg("  history_path: %s", m.HistoryPath)
				if m.MergeTargetDir != "" {
					ui.DimMsg("  merge_target_dir: %s", m.MergeTargetDir)
				}
			}
			ui.BlankLine()

			if !yes && !ui.AskYesNo("Restore from this backup?", false) {
				ui.DimMsg("Aborted.")
				return nil
			}

			if err := backup.Restore(dir); err != nil {
				ui.Fail("Error: restore completed with errors. Some files may not have been restored.")
				ui.DimMsg("%v", err)
				return errReported
			}
			ui.Success("%s", ui.Bold("Restored successfully!"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List available backups")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func listBackups(cmd *cobra.Command, root string) error {
	infos, err := backup.List(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No backups found.")
		return nil
	}

	fmt.Fprintln(out, ui.Bold(fmt.Sprintf("Available backups in %s/", root)))
	fmt.Fprintln(out)
	for _, b := range infos {
		tag := ""
		if b.HasMergeTarget {
			tag = ui.Dim(" (merge)")
		}
		fmt.Fprintf(out, "  %s%s\n", ui.Bold(b.Timestamp), tag)
		if b.ProjectDir != "" {
			fmt.Fprintf(out, "    %s %s\n", ui.Dim("project:"), b.ProjectDir)
		}
		fmt.Fprintln(out)
	}
	return nil
}
