package session

import (
	"path/filepath"
	"strings"

	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// dirExists is swapped in tests.
var dirExists = isDir

// DecodeName recovers a real path from an encoded directory name by probing
// which candidate directories exist. Every "-" may have been a "/" or a
// literal hyphen; shorter components are tried first and the search
// backtracks on dead ends. It reports false when no existing path matches.
func DecodeName(encoded string) (string, bool) {
	trimmed := strings.TrimLeft(encoded, pathenc.Replacement)
	if trimmed == "" {
		return "", false
	}
	parts := strings.Split(trimmed, pathenc.Replacement)
	return decodeFrom(string(filepath.Separator), parts)
}

func decodeFrom(current string, remaining []string) (string, bool) {
	if len(remaining) == 0 {
		return current, true
	}
	for i := 1; i <= len(remaining); i++ {
		candidate := filepath.Join(current, strings.Join(remaining[:i], pathenc.Replacement))
		if !dirExists(candidate) {
			continue
		}
		if found, ok := decodeFrom(candidate, remaining[i:]); ok {
			return found, true
		}
	}
	return "", false
}
