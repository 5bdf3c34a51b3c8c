// Package git inspects how a project directory is wired into Git.
//
// Git records absolute paths between a repository and its linked
// worktrees: a worktree's .git file names its gitdir, and the repository's
// .git/worktrees/<name>/gitdir names the worktree. Moving either side
// leaves these pointers stale until `git worktree repair` is run.
//
// This package handles:
//   - Detecting whether a directory is a plain repository or a linked worktree
//   - Listing the linked worktrees a repository knows about
//   - Reporting which of those links a move would break
//
// Example usage:
//
//	layout, err := git.Inspect(newPath)
//	if err == nil && layout.NeedsRepair() {
//	    fmt.Println("run:", layout.RepairCommand())
//	}
package git
