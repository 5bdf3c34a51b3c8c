// Package backup snapshots Claude Code data before a move and restores it.
//
// A backup is a timestamped directory under the backup root:
//
//	<root>/20260227_145300/
//	    project_dir/        copy of the stored project directory
//	    merge_target_dir/   copy of the destination directory (merges only)
//	    history.jsonl       copy of the global history
//	    manifest.txt        key=value lines naming where each item came from
//
// Timestamps sort lexically in creation order. Two backups created within
// the same second get a numeric suffix (20260227_145300_01).
package backup

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rickgorman/claudepath/internal/fsutil"
)

const (
	// ManifestFile names the manifest inside a backup directory.
	ManifestFile = "manifest.txt"

	projectDirName     = "project_dir"
	mergeTargetDirName = "merge_target_dir"
	historyName        = "history.jsonl"

	timestampLayout = "20060102_150405"
	maxSuffix       = 99
)

// Manifest keys.
const (
	keyProjectDir     = "project_dir"
	keyHistoryPath    = "history_path"
	keyMergeTargetDir = "merge_target_dir"
	keyOperationID    = "operation_id"
)

// ErrNoManifest is returned when a backup directory has no manifest.
var ErrNoManifest = errors.New("backup has no manifest")

var (
	now = time.Now

	// copyTree is swapped in tests to simulate copy failures.
	copyTree = fsutil.CopyTree
	copyFile = fsutil.CopyFile
)

// Manifest records where each backed-up item is restored to.
type Manifest struct {
	ProjectDir     string
	HistoryPath    string
	MergeTargetDir string
	OperationID    string
}

// Options describes what to back up.
type Options struct {
	// ProjectDir is the stored project directory to snapshot.
	ProjectDir string
	// HistoryPath is the global history file.
	HistoryPath string
	// ExtraDir is the merge destination, if any.
	ExtraDir string
	// OperationID tags the backup with the move that created it.
	OperationID string
}

// Info describes an existing backup.
type Info struct {
	Timestamp      string
	Path           string
	ProjectDir     string
	HasMergeTarget bool
	OperationID    string
}

// Create snapshots the items named in opts into a new directory under root
// and returns its path. Items that do not exist are skipped but still
// recorded in the manifest.
func Create(root string, opts Options) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup root: %w", err)
	}

	dir, err := newBackupDir(root, now().Format(timestampLayout))
	if err != nil {
		return "", err
	}

	if opts.ProjectDir != "" && fsutil.Exists(opts.ProjectDir) {
		if err := copyTree(opts.ProjectDir, filepath.Join(dir, projectDirName)); err != nil {
			return dir, fmt.Errorf("failed to back up %s: %w", opts.ProjectDir, err)
		}
	}
	if opts.ExtraDir != "" && fsutil.Exists(opts.ExtraDir) {
		if err := copyTree(opts.ExtraDir, filepath.Join(dir, mergeTargetDirName)); err != nil {
			return dir, fmt.Errorf("failed to back up %s: %w", opts.ExtraDir, err)
		}
	}
	if opts.HistoryPath != "" && fsutil.Exists(opts.HistoryPath) {
		if err := copyFile(opts.HistoryPath, filepath.Join(dir, historyName)); err != nil {
			return dir, fmt.Errorf("failed to back up %s: %w", opts.HistoryPath, err)
		}
	}

	m := Manifest{
		ProjectDir:     opts.ProjectDir,
		HistoryPath:    opts.HistoryPath,
		MergeTargetDir: opts.ExtraDir,
		OperationID:    opts.OperationID,
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), m.encode(), 0o644); err != nil {
		return dir, fmt.Errorf("failed to write backup manifest: %w", err)
	}
	return dir, nil
}

// newBackupDir creates root/stamp, or root/stamp_NN if that is taken.
func newBackupDir(root, stamp string) (string, error) {
	name := stamp
	for i := 1; ; i++ {
		dir := filepath.Join(root, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		if i > maxSuffix {
			return "", fmt.Errorf("too many backups for %s", stamp)
		}
		name = fmt.Sprintf("%s_%02d", stamp, i)
	}
}

func (m Manifest) encode() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", keyProjectDir, m.ProjectDir)
	fmt.Fprintf(&b, "%s=%s\n", keyHistoryPath, m.HistoryPath)
	if m.MergeTargetDir != "" {
		fmt.Fprintf(&b, "%s=%s\n", keyMergeTargetDir, m.MergeTargetDir)
	}
	if m.OperationID != "" {
		fmt.Fprintf(&b, "%s=%s\n", keyOperationID, m.OperationID)
	}
	return []byte(b.String())
}

// ReadManifest parses the manifest of the backup at dir.
func ReadManifest(dir string) (Manifest, error) {
	f, err := os.Open(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, ErrNoManifest
		}
		return Manifest{}, err
	}
	defer f.Close()

	var m Manifest
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case keyProjectDir:
			m.ProjectDir = value
		case keyHistoryPath:
			m.HistoryPath = value
		case keyMergeTargetDir:
			m.MergeTargetDir = value
		case keyOperationID:
			m.OperationID = value
		}
	}
	return m, scanner.Err()
}

// FindLatest returns the newest backup directory under root.
func FindLatest(root string) (string, bool) {
	dirs, err := backupDirs(root)
	if err != nil || len(dirs) == 0 {
		return "", false
	}
	return filepath.Join(root, dirs[0]), true
}

// List returns every backup under root, newest first. A missing root has
// no backups.
func List(root string) ([]Info, error) {
	dirs, err := backupDirs(root)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(dirs))
	for _, name := range dirs {
		path := filepath.Join(root, name)
		info := Info{Timestamp: name, Path: path}
		if m, err := ReadManifest(path); err == nil {
			info.ProjectDir = m.ProjectDir
			info.HasMergeTarget = m.MergeTargetDir != ""
			info.OperationID = m.OperationID
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// backupDirs returns the names of directories under root, newest first.
func backupDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
