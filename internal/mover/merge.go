package mover

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rickgorman/claudepath/internal/fsutil"
	"github.com/rickgorman/claudepath/internal/rewrite"
)

// mergeDirs copies everything in src into dst, except session indexes which
// MergeIndex has already combined, and then removes src. Files that exist in
// both are overwritten by the src copy.
func mergeDirs(src, dst string) error {
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() == rewrite.IndexFile && !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			return fsutil.CopyFile(path, target)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			_ = os.Remove(target)
			return os.Symlink(link, target)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return os.RemoveAll(src)
}
