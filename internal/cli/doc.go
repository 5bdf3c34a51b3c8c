// Package cli wires claudepath's commands together.
//
// Commands:
//   - mv <old-path> <new-path>: move a project and update Claude Code data
//   - remap <old-path> <new-path>: update Claude Code data after a manual move
//   - list: show every project Claude Code has data for
//   - restore [timestamp]: restore a backup (latest by default), or --list them
//   - encode <path>: print the directory name Claude Code uses for a path
//   - version: print the build version
//
// Global flags:
//   - --claude-dir: Claude data directory (default ~/.claude, or $CLAUDE_CONFIG_DIR)
//   - --verbose, -v: log per-file detail
//   - --log-json: write logs as JSON
//
// mv and remap accept --dry-run, --no-backup, --merge and --yes/-y.
// Without --yes they show what will change, warn when Claude Code appears to
// be running in the project, and ask for confirmation.
//
// Status output goes to stderr through package ui; results (summaries,
// listings, encoded names) go to stdout.
//
// Example usage:
//
//	os.Exit(cli.Execute(version))
package cli
