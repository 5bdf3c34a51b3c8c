package git

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a directory's relationship to Git.
type Kind int

const (
	// NotRepository means the directory has no .git entry.
	NotRepository Kind = iota
	// Repository is a regular checkout with a .git directory.
	Repository
	// LinkedWorktree has a .git file pointing into another repository.
	LinkedWorktree
)

// Layout describes the Git wiring of one directory.
type Layout struct {
	Path string
	Kind Kind
	// GitDir is the .git directory, or the per-worktree gitdir for a
	// linked worktree.
	GitDir string
	// Worktrees lists linked worktree paths recorded by a repository.
	Worktrees []string
}

// Inspect reads the Git layout of path without running git.
func Inspect(path string) (Layout, error) {
	l := Layout{Path: path}

	gitDir, isFile, err := getGitDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return l, err
	}
	l.GitDir = gitDir

	if isFile {
		l.Kind = LinkedWorktree
		return l, nil
	}

	l.Kind = Repository
	l.Worktrees = linkedWorktrees(gitDir)
	return l, nil
}

// NeedsRepair reports whether moving this directory leaves Git links
// stale: it is a linked worktree, or a repository with linked worktrees.
func (l Layout) NeedsRepair() bool {
	return l.Kind == LinkedWorktree || len(l.Worktrees) > 0
}

// RepairCommand returns the command that fixes the links after a move.
func (l Layout) RepairCommand() string {
	if l.Kind == LinkedWorktree {
		return "git -C " + quote(l.Path) + " worktree repair"
	}
	return "git -C " + quote(l.Path) + " worktree repair " + strings.Join(quoteAll(l.Worktrees), " ")
}

// getGitDir returns the git directory for worktreePath and whether it came
// from a .git file (linked worktree) rather than a .git directory.
func getGitDir(worktreePath string) (string, bool, error) {
	gitFile := filepath.Join(worktreePath, ".git")

	// Check if .git is a file (worktree) or directory (regular repo)
	info, err := os.Stat(gitFile)
	if err != nil {
		return "", false, err
	}

	if info.IsDir() {
		return gitFile, false, nil
	}

	data, err := os.ReadFile(gitFile)
	if err != nil {
		return "", false, err
	}

	// Format: "gitdir: /path/to/main/repo/.git/worktrees/branch-name"
	content := strings.TrimSpace(string(data))
	gitdir, ok := strings.CutPrefix(content, "gitdir: ")
	if !ok {
		return gitFile, true, nil
	}
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(worktreePath, gitdir)
	}
	return filepath.Clean(gitdir), true, nil
}

// linkedWorktrees reads .git/worktrees/*/gitdir and returns the worktree
// directories they point to.
func linkedWorktrees(gitDir string) []string {
	entries, err := os.ReadDir(filepath.Join(gitDir, "worktrees"))
	if err != nil {
		return nil
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(gitDir, "worktrees", e.Name(), "gitdir"))
		if err != nil {
			continue
		}
		// gitdir holds "<worktree>/.git".
		pointer := strings.TrimSpace(string(data))
		if pointer == "" {
			continue
		}
		paths = append(paths, filepath.Dir(pointer))
	}
	sort.Strings(paths)
	return paths
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t'\"$\\") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = quote(s)
	}
	return out
}
