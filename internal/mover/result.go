package mover

import (
	"fmt"
	"strings"
)

// Result reports what a run changed, or would change in a dry run.
type Result struct {
	DirRenamed          bool
	SessionsMerged      int
	SkippedSessions     []string
	IndexUpdated        bool
	LogFilesChanged     int
	LogLinesChanged     int
	HistoryLinesChanged int
	BackupPath          string
	DryRun              bool
	OperationID         string
}

// Summary renders the result as an indented bullet list.
func (r *Result) Summary() string {
	prefix := ""
	if r.DryRun {
		prefix = "[DRY RUN] Would have: "
	}

	var lines []string
	if r.DirRenamed {
		lines = append(lines, prefix+"renamed project directory in ~/.claude/projects/")
	}
	if r.SessionsMerged > 0 {
		lines = append(lines, fmt.Sprintf("%smerged %d session(s) from old directory into new", prefix, r.SessionsMerged))
	}
	if r.IndexUpdated {
		lines = append(lines, prefix+"updated sessions-index.json")
	}
	if r.LogFilesChanged > 0 {
		lines = append(lines, fmt.Sprintf("%supdated %d session file(s) (%d line(s) changed)", prefix, r.LogFilesChanged, r.LogLinesChanged))
	}
	if r.HistoryLinesChanged > 0 {
		lines = append(lines, fmt.Sprintf("%supdated %d line(s) in history.jsonl", prefix, r.HistoryLinesChanged))
	}
	if r.BackupPath != "" {
		lines = append(lines, "backup saved to: "+r.BackupPath)
	}
	if len(lines) == 0 {
		lines = append(lines, "nothing to update (project may not be tracked by Claude Code)\n"+
			"  Tip: run 'claudepath list' to see tracked projects.")
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  - ")
		b.WriteString(l)
	}
	return b.String()
}

// Changed reports whether the run touched (or would touch) anything.
func (r *Result) Changed() bool {
	return r.DirRenamed || r.SessionsMerged > 0 || r.IndexUpdated ||
		r.LogFilesChanged > 0 || r.HistoryLinesChanged > 0
}
