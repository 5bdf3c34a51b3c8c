// Package rewrite updates project path references inside Claude Code data files.
//
// Three kinds of files embed a project's absolute path:
//   - sessions-index.json: originalPath, entries[].projectPath, entries[].fullPath
//   - session logs ({sessionId}.jsonl, {sessionId}/subagents/*.jsonl)
//   - the global history.jsonl
//
// All rewrites share one primitive, RewriteStrings, which walks a JSON value
// and hands every string value (never object keys) to a Replacer. Bytes
// outside replaced strings are kept exactly, so key order, spacing and
// unknown fields survive a rewrite untouched.
//
// Path values are replaced only when they equal the old path or start with
// the old path followed by "/". Replacing /tmp/foo therefore leaves
// /tmp/foobar alone but turns /tmp/foo/src into /tmp/bar/src.
//
// Line-oriented files are processed one line at a time and written through
// a temporary file in the same directory that is renamed over the original.
// Files with nothing to change are never rewritten. Every operation accepts
// a dry-run flag that computes the same counts without writing.
//
// Example usage:
//
//	rw := rewrite.New(obs)
//	files, lines, err := rw.Logs(projectDir, "/old/project", "/new/project", false)
//	changed, err := rw.History(historyFile, "/old/project", "/new/project", false)
package rewrite
