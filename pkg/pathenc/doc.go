// Package pathenc maps absolute project paths to the directory names
// Claude Code uses under ~/.claude/projects/.
//
// Claude Code stores per-project data in a directory whose name is the
// project's absolute path with every "/" replaced by "-":
//
//	/Users/foo/my-project  ->  -Users-foo-my-project
//	/home/me/site.io       ->  -home-me-site.io
//
// Only separators change. Dots, existing hyphens and every other character
// are kept as-is, so the output matches the names the tool itself creates.
//
// The mapping is not reversible: a "-" in the encoded name may come from a
// separator or from a hyphen in a directory name. Code that needs the
// original path reads it from the project's sessions-index.json instead of
// decoding the name.
//
// Example usage:
//
//	name := pathenc.Encode("/home/user/project")
//	// Returns: "-home-user-project"
package pathenc
