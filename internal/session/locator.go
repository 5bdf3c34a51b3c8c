package session

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/rickgorman/claudepath/internal/fsutil"
	"github.com/rickgorman/claudepath/internal/rewrite"
	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// StoredDir returns where Claude Code stores data for projectPath. The
// directory may not exist.
func StoredDir(projectsDir, projectPath string) string {
	return filepath.Join(projectsDir, pathenc.Encode(projectPath))
}

// FindProjectDir returns the stored directory for projectPath.
//
// The directory named by the encoded path wins, trying the path as given
// and then with symlinks resolved. Otherwise every stored
// directory's sessions-index.json is checked for an originalPath, or a
// first entry projectPath, equal to projectPath after normalization.
// Unreadable or malformed indexes are skipped.
func FindProjectDir(projectsDir, projectPath string) (string, bool) {
	if !isDir(projectsDir) {
		return "", false
	}

	want := normalize(projectPath)
	for _, p := range []string{projectPath, want} {
		if candidate := StoredDir(projectsDir, p); isDir(candidate) {
			return candidate, true
		}
	}

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return "", false
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(projectsDir, e.Name())
		data, err := os.ReadFile(filepath.Join(dir, rewrite.IndexFile))
		if err != nil || !gjson.ValidBytes(data) {
			continue
		}

		for _, key := range []string{"originalPath", "entries.0.projectPath"} {
			v := gjson.GetBytes(data, key)
			if v.Type == gjson.String && v.Str != "" && normalize(v.Str) == want {
				return dir, true
			}
		}
	}
	return "", false
}

// normalize returns an absolute, cleaned form of path with symlinks
// resolved, including those in the existing ancestors of a missing path.
func normalize(path string) string {
	resolved, err := fsutil.Resolve(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
