// Package session locates Claude Code's stored project directories.
//
// Claude Code keeps per-project session data in
//
//	~/.claude/projects/<encoded-path>/
//
// where <encoded-path> is the project's absolute path with every "/"
// replaced by "-" (see pkg/pathenc). Each directory usually holds a
// sessions-index.json whose originalPath names the project, one
// {sessionId}.jsonl log per session, and {sessionId}/subagents/ logs.
//
// This package handles:
//   - Finding the stored directory for a project path, by encoded name
//     first and by scanning session indexes second
//   - Listing every stored project with its best-known real path
//   - Decoding an encoded name back to a path by probing the filesystem
//
// Encoding is lossy, so decoding is only a display aid: "-a-b-c" may be
// /a/b/c, /a-b/c, /a/b-c or /a-b-c. Lookups never rely on it.
//
// Example usage:
//
//	dir, ok := session.FindProjectDir(cfg.ProjectsDir(), "/Users/me/code/app")
//
//	projects, err := session.ListProjects(cfg.ProjectsDir())
//	for _, p := range projects {
//	    fmt.Println(p.EncodedName, p.Path, p.SessionCount)
//	}
package session
