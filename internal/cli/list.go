package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickgorman/claudepath/internal/session"
	"github.com/rickgorman/claudepath/internal/ui"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects tracked by Claude Code",
		Long: `List every project Claude Code has data for, with its session count,
last activity, and whether the project directory still exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(false)
			if err != nil {
				return err
			}

			projects, err := session.ListProjects(cfg.ProjectsDir())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No Claude Code projects found.")
				return nil
			}

			fmt.Fprintln(out, ui.Bold(fmt.Sprintf("Claude Code projects in %s/", cfg.ProjectsDir())))
			fmt.Fprintln(out)
			for _, p := range projects {
				writeProject(out, p)
			}
			return nil
		},
	}
}

func writeProject(out io.Writer, p session.Project) {
	status := ui.Green(" ✓")
	if _, err := os.Stat(p.Path); err != nil {
		status = ui.Red(ui.Dim(" ✗ orphaned"))
	}
	source := ""
	if p.PathSource == session.SourceProbe || p.PathSource == session.SourceGuess {
		source = ui.Dim(" (path guessed from directory name)")
	}

	modified := "unknown"
	if !p.LastModified.IsZero() {
		modified = p.LastModified.Local().Format("2006-01-02 15:04")
	}

	fmt.Fprintf(out, "  %s%s%s\n", ui.Bold(p.Path), status, source)
	fmt.Fprintf(out, "    %s %d  %s %s\n", ui.Dim("sessions:"), p.SessionCount, ui.Dim("last active:"), modified)
	fmt.Fprintln(out)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
