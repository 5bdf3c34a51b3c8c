package rewrite

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// Replacer returns the replacement for s and whether a replacement applies.
type Replacer func(s string) (string, bool)

// PathPrefix replaces values equal to oldPath or starting with oldPath + "/".
func PathPrefix(oldPath, newPath string) Replacer {
	prefix := oldPath + pathenc.Separator
	return func(s string) (string, bool) {
		if s == oldPath {
			return newPath, true
		}
		if strings.HasPrefix(s, prefix) {
			return newPath + s[len(oldPath):], true
		}
		return s, false
	}
}

// Exact replaces values equal to oldValue.
func Exact(oldValue, newValue string) Replacer {
	return func(s string) (string, bool) {
		if s == oldValue {
			return newValue, true
		}
		return s, false
	}
}

// FirstSubstring replaces the first occurrence of oldSub inside a value.
func FirstSubstring(oldSub, newSub string) Replacer {
	return func(s string) (string, bool) {
		if oldSub == "" || !strings.Contains(s, oldSub) {
			return s, false
		}
		return strings.Replace(s, oldSub, newSub, 1), true
	}
}

// RewriteStrings applies fn to every string value in the JSON document data,
// at any depth, and returns the rewritten document. Object keys are never
// passed to fn. data must be valid JSON; the second result reports whether
// any value changed. When nothing changes, data is returned as-is.
func RewriteStrings(data []byte, fn Replacer) ([]byte, bool) {
	var out []byte
	last := 0
	changed := false

	for i := 0; i < len(data); {
		if data[i] != '"' {
			i++
			continue
		}

		end := stringEnd(data, i)
		if end < 0 {
			break
		}
		if isKey(data, end) {
			i = end
			continue
		}

		var s string
		if err := json.Unmarshal(data[i:end], &s); err != nil {
			i = end
			continue
		}

		if repl, ok := fn(s); ok && repl != s {
			enc, err := encodeString(repl)
			if err == nil {
				out = append(out, data[last:i]...)
				out = append(out, enc...)
				last = end
				changed = true
			}
		}
		i = end
	}

	if !changed {
		return data, false
	}
	out = append(out, data[last:]...)
	return out, true
}

// stringEnd returns the index just past the closing quote of the string
// literal starting at data[start], or -1 if it is unterminated.
func stringEnd(data []byte, start int) int {
	for j := start + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return -1
}

// isKey reports whether the string literal ending at end is an object key.
func isKey(data []byte, end int) bool {
	for j := end; j < len(data); j++ {
		switch data[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

// encodeString encodes s as a JSON string literal without HTML escaping.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
