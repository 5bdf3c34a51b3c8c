// Package pathenc provides the Claude Code project directory name encoding.
package pathenc

import "strings"

const (
	// Separator is the path separator used in the absolute paths Claude Code records.
	Separator = "/"

	// Replacement is the character every separator becomes in an encoded name.
	Replacement = "-"
)

// Encode converts an absolute path to the encoded directory name.
// It replaces every separator and nothing else.
func Encode(absPath string) string {
	return strings.ReplaceAll(absPath, Separator, Replacement)
}
