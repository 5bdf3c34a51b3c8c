package rewrite

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// lineStats reports the outcome of a line rewrite pass.
type lineStats struct {
	total   int
	changed int
}

// rewriteLine applies the line rule to a single line (including its line ending).
func rewriteLine(line, oldPath, newPath []byte, fn Replacer) ([]byte, bool) {
	body, eol := splitEOL(line)
	if !bytes.Contains(body, oldPath) {
		return line, false
	}

	if gjson.ValidBytes(body) {
		rewritten, changed := RewriteStrings(body, fn)
		if !changed {
			return line, false
		}
		return append(rewritten, eol...), true
	}

	// Not a JSON record: plain substring replacement.
	rewritten := bytes.ReplaceAll(body, oldPath, newPath)
	return append(rewritten, eol...), true
}

func splitEOL(line []byte) ([]byte, []byte) {
	body := line
	if bytes.HasSuffix(body, []byte("\n")) {
		body = body[:len(body)-1]
		if bytes.HasSuffix(body, []byte("\r")) {
			body = body[:len(body)-1]
		}
	}
	return body, line[len(body):]
}

// rewriteStream copies r to w line by line, rewriting references to oldPath.
func rewriteStream(r io.Reader, w io.Writer, oldPath, newPath string) (lineStats, error) {
	var stats lineStats
	fn := PathPrefix(oldPath, newPath)
	oldB, newB := []byte(oldPath), []byte(newPath)

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			stats.total++
			out, changed := rewriteLine(line, oldB, newB, fn)
			if changed {
				stats.changed++
			}
			if _, werr := w.Write(out); werr != nil {
				return stats, werr
			}
		}
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
	}
}

// RewriteFile rewrites references to oldPath in a line-oriented file and
// returns the number of lines changed. A missing file changes nothing. The
// file is only replaced when at least one line changed and dryRun is false.
func RewriteFile(path, oldPath, newPath string, dryRun bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	stats, err := rewriteStream(f, io.Discard, oldPath, newPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if stats.changed == 0 || dryRun {
		return stats.changed, nil
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	err = writeAtomic(path, info.Mode().Perm(), func(w io.Writer) error {
		_, err := rewriteStream(f, w, oldPath, newPath)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	return stats.changed, nil
}

// writeAtomic writes a file through a temporary sibling that is renamed over
// path once fully written. On any failure the temporary file is removed and
// path is left untouched.
func writeAtomic(path string, perm os.FileMode, fill func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
