package rewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rickgorman/claudepath/internal/observe"
	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// logPattern matches session logs at the top level and in any nested
// directory such as {sessionId}/subagents/.
const logPattern = "**/*.jsonl"

// Rewriter updates path references and logs per-file detail to an Observer.
type Rewriter struct {
	obs *observe.Observer
}

// New returns a Rewriter. A nil Observer discards all logging.
func New(obs *observe.Observer) *Rewriter {
	if obs == nil {
		obs = observe.Discard()
	}
	return &Rewriter{obs: obs}
}

// Index updates originalPath, entries[].projectPath and entries[].fullPath
// in indexFile and returns the number of fields changed. A missing or
// unparseable index changes nothing.
func (r *Rewriter) Index(indexFile, oldPath, newPath string, dryRun bool) (int, error) {
	ix, err := loadIndex(indexFile)
	if err != nil {
		return 0, wrapIndexErr(indexFile, err)
	}
	if ix == nil {
		return 0, nil
	}

	changed := ix.rewritePaths(oldPath, newPath, pathenc.Encode(oldPath), pathenc.Encode(newPath))
	if changed == 0 {
		return 0, nil
	}

	r.obs.Log().Info().
		Str("file", indexFile).
		Int("fields", changed).
		Bool("dry_run", dryRun).
		Msg("updated session index")

	if dryRun {
		return changed, nil
	}
	if err := ix.save(indexFile); err != nil {
		return 0, wrapIndexErr(indexFile, err)
	}
	return changed, nil
}

// MergeIndex appends the entries of srcFile to dstFile, rewriting each
// appended entry's paths from oldPath to newPath. Entries whose sessionId
// already exists in the destination are skipped with a warning. The
// destination is only written when at least one entry was appended.
//
// When the destination has no index yet, one is created from the source.
func (r *Rewriter) MergeIndex(dstFile, srcFile, oldPath, newPath string, dryRun bool) (MergeResult, error) {
	var res MergeResult

	src, err := loadIndex(srcFile)
	if err != nil {
		return res, wrapIndexErr(srcFile, err)
	}
	if src == nil {
		return res, nil
	}

	dst, err := loadIndex(dstFile)
	if err != nil {
		return res, wrapIndexErr(dstFile, err)
	}
	if dst == nil {
		dst = &sessionIndex{hasEntries: true, perm: src.perm}
		if raw, err := encodeString(newPath); err == nil {
			dst.root.set(keyOriginalPath, raw)
		}
	}
	if _, ok := dst.root.values[keyEntries]; !ok {
		dst.hasEntries = true
	}
	if !dst.hasEntries {
		return res, fmt.Errorf("failed to merge into %s: entries is not a list", dstFile)
	}

	oldEncoded, newEncoded := pathenc.Encode(oldPath), pathenc.Encode(newPath)
	ids := dst.sessionIDs()
	for _, e := range src.entries {
		if e == nil {
			continue
		}
		id, _ := e.str(keySessionID)
		if ids[id] {
			res.Skipped = append(res.Skipped, id)
			r.obs.Log().Warn().
				Str("session_id", id).
				Str("index", dstFile).
				Msg("session already exists in destination, skipping")
			continue
		}
		rewriteEntry(e, oldPath, newPath, oldEncoded, newEncoded)
		dst.entries = append(dst.entries, e)
		ids[id] = true
		res.Merged++
	}
	dst.root.rewrite(keyOriginalPath, Exact(oldPath, newPath))

	if res.Merged == 0 || dryRun {
		return res, nil
	}
	if err := dst.save(dstFile); err != nil {
		return MergeResult{}, wrapIndexErr(dstFile, err)
	}

	r.obs.Log().Info().
		Str("index", dstFile).
		Int("merged", res.Merged).
		Msg("merged session index")
	return res, nil
}

// Logs rewrites every .jsonl file under projectDir and returns the number
// of files changed and the total number of lines changed.
func (r *Rewriter) Logs(projectDir, oldPath, newPath string, dryRun bool) (int, int, error) {
	files, err := LogFiles(projectDir)
	if err != nil {
		return 0, 0, err
	}

	changedFiles, changedLines := 0, 0
	for _, path := range files {
		n, err := RewriteFile(path, oldPath, newPath, dryRun)
		if err != nil {
			return changedFiles, changedLines, err
		}
		if n == 0 {
			continue
		}
		changedFiles++
		changedLines += n
		r.obs.Log().Info().
			Str("file", path).
			Int("lines", n).
			Bool("dry_run", dryRun).
			Msg("rewrote session log")
	}
	return changedFiles, changedLines, nil
}

// History rewrites the global history file and returns the number of
// lines changed. A missing history file changes nothing.
func (r *Rewriter) History(historyFile, oldPath, newPath string, dryRun bool) (int, error) {
	n, err := RewriteFile(historyFile, oldPath, newPath, dryRun)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.obs.Log().Info().
			Str("file", historyFile).
			Int("lines", n).
			Bool("dry_run", dryRun).
			Msg("rewrote history")
	}
	return n, nil
}

// LogFiles returns the session logs under projectDir in lexical order.
// A missing directory has no logs.
func LogFiles(projectDir string) ([]string, error) {
	if _, err := os.Stat(projectDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(projectDir), logPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list session logs in %s: %w", projectDir, err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(projectDir, filepath.FromSlash(m)))
	}
	return files, nil
}
