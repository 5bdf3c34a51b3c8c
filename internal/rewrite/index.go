package rewrite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// IndexFile is the name of the per-project session index.
const IndexFile = "sessions-index.json"

const (
	keyOriginalPath = "originalPath"
	keyEntries      = "entries"
	keySessionID    = "sessionId"
	keyProjectPath  = "projectPath"
	keyFullPath     = "fullPath"
)

// sessionIndex is a decoded sessions-index.json.
type sessionIndex struct {
	root    object
	entries []*object
	// hasEntries is set when entries decoded as an array.
	hasEntries bool
	perm       os.FileMode
}

// loadIndex reads an index file. A missing or unparseable file yields nil
// and no error; the caller treats it as "nothing to update".
func loadIndex(path string) (*sessionIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	ix := &sessionIndex{perm: info.Mode().Perm()}
	if err := json.Unmarshal(data, &ix.root); err != nil {
		return nil, nil
	}
	if raw, ok := ix.root.values[keyEntries]; ok {
		// Non-array entries are left alone.
		ix.hasEntries = json.Unmarshal(raw, &ix.entries) == nil
	}
	return ix, nil
}

func (ix *sessionIndex) sessionIDs() map[string]bool {
	ids := make(map[string]bool, len(ix.entries))
	for _, e := range ix.entries {
		if e == nil {
			continue
		}
		id, _ := e.str(keySessionID)
		ids[id] = true
	}
	return ids
}

// rewritePaths updates originalPath and every entry's projectPath and
// fullPath. It returns the number of fields changed.
func (ix *sessionIndex) rewritePaths(oldPath, newPath, oldEncoded, newEncoded string) int {
	changed := 0
	if ix.root.rewrite(keyOriginalPath, Exact(oldPath, newPath)) {
		changed++
	}
	for _, e := range ix.entries {
		if e != nil {
			changed += rewriteEntry(e, oldPath, newPath, oldEncoded, newEncoded)
		}
	}
	return changed
}

// rewriteEntry updates one session entry and returns the number of fields
// changed. fullPath holds the encoded directory as a path segment, so only
// the first "/<encoded>/" occurrence is replaced.
func rewriteEntry(e *object, oldPath, newPath, oldEncoded, newEncoded string) int {
	changed := 0
	if e.rewrite(keyProjectPath, Exact(oldPath, newPath)) {
		changed++
	}
	sep := pathenc.Separator
	if e.rewrite(keyFullPath, FirstSubstring(sep+oldEncoded+sep, sep+newEncoded+sep)) {
		changed++
	}
	return changed
}

// save writes the index back through a temporary file.
func (ix *sessionIndex) save(path string) error {
	if ix.hasEntries {
		raw, err := encodeEntries(ix.entries)
		if err != nil {
			return err
		}
		ix.root.set(keyEntries, raw)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ix.root); err != nil {
		return err
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	perm := ix.perm
	if perm == 0 {
		perm = 0o644
	}
	return writeAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func encodeEntries(entries []*object) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if e == nil {
			buf.WriteString("null")
			continue
		}
		raw, err := e.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MergeResult reports the outcome of merging two session indexes.
type MergeResult struct {
	// Merged is the number of entries appended to the destination.
	Merged int
	// Skipped lists session IDs already present in the destination.
	Skipped []string
}

func wrapIndexErr(path string, err error) error {
	return fmt.Errorf("failed to update %s: %w", path, err)
}
