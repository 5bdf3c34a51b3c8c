package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rickgorman/claudepath/internal/fsutil"
)

const (
	stagedSuffix = ".claudepath-new"
	asideSuffix  = ".claudepath-old"
)

// Restore puts every item of the backup at dir back where the manifest says
// it came from. It keeps going after a failed item and returns all failures
// joined; a nil error means everything was restored. A backup without a
// manifest returns ErrNoManifest and touches nothing.
func Restore(dir string) error {
	m, err := ReadManifest(dir)
	if err != nil {
		return err
	}

	var errs []error

	if src := filepath.Join(dir, projectDirName); fsutil.Exists(src) && m.ProjectDir != "" {
		if err := restoreDir(src, m.ProjectDir); err != nil {
			errs = append(errs, err)
		}
	}

	if src := filepath.Join(dir, mergeTargetDirName); fsutil.Exists(src) && m.MergeTargetDir != "" && m.MergeTargetDir != "." {
		if err := restoreDir(src, m.MergeTargetDir); err != nil {
			errs = append(errs, err)
		}
	}

	if src := filepath.Join(dir, historyName); fsutil.Exists(src) && m.HistoryPath != "" {
		if err := copyFile(src, m.HistoryPath); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", m.HistoryPath, err))
		}
	}

	return errors.Join(errs...)
}

// restoreDir replaces target with a copy of src. The copy is staged next to
// target first, so a failed copy leaves target as it was.
func restoreDir(src, target string) error {
	staged := target + stagedSuffix
	aside := target + asideSuffix

	// Leftovers from an interrupted restore.
	for _, stale := range []string{staged, aside} {
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("failed to remove stale %s: %w", stale, err)
		}
	}

	if err := copyTree(src, staged); err != nil {
		_ = os.RemoveAll(staged)
		return fmt.Errorf("failed to restore %s: %w", target, err)
	}

	hadTarget := fsutil.Exists(target)
	if hadTarget {
		if err := os.Rename(target, aside); err != nil {
			_ = os.RemoveAll(staged)
			return fmt.Errorf("failed to restore %s: %w", target, err)
		}
	}

	if err := os.Rename(staged, target); err != nil {
		if hadTarget {
			_ = os.Rename(aside, target)
		}
		_ = os.RemoveAll(staged)
		return fmt.Errorf("failed to restore %s: %w", target, err)
	}

	if hadTarget {
		_ = os.RemoveAll(aside)
	}
	return nil
}
