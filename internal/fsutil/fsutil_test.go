package fsutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyFile_PreservesModeAndTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyTree(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(src, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "top.jsonl"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a", "b", "deep.jsonl"), []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("top.jsonl", filepath.Join(src, "link")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "dst")
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	if data, err := os.ReadFile(filepath.Join(dst, "a", "b", "deep.jsonl")); err != nil || string(data) != "2" {
		t.Errorf("deep file = (%q, %v)", data, err)
	}
	link, err := os.Readlink(filepath.Join(dst, "link"))
	if err != nil || link != "top.jsonl" {
		t.Errorf("symlink = (%q, %v), want top.jsonl", link, err)
	}
}

func TestCopyTree_DestinationExists(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	if err := CopyTree(src, dst); err == nil {
		t.Error("CopyTree() into existing destination should fail")
	}
}

func TestMoveDir(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "old")
	dst := filepath.Join(base, "new")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveDir(src, dst); err != nil {
		t.Fatalf("MoveDir() error = %v", err)
	}
	if Exists(src) {
		t.Error("source still exists after move")
	}
	if !Exists(filepath.Join(dst, "f")) {
		t.Error("file missing at destination")
	}
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	empty, err := IsEmptyDir(dir)
	if err != nil || !empty {
		t.Errorf("IsEmptyDir(empty) = (%v, %v), want (true, nil)", empty, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	empty, err = IsEmptyDir(dir)
	if err != nil || empty {
		t.Errorf("IsEmptyDir(non-empty) = (%v, %v), want (false, nil)", empty, err)
	}
}

func TestResolve(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	realDir := filepath.Join(base, "real")
	if err := os.MkdirAll(filepath.Join(realDir, "proj"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain", filepath.Join(realDir, "proj"), filepath.Join(realDir, "proj")},
		{"through symlink", filepath.Join(link, "proj"), filepath.Join(realDir, "proj")},
		{"missing leaf under symlink", filepath.Join(link, "proj2"), filepath.Join(realDir, "proj2")},
		{"missing subtree under symlink", filepath.Join(link, "a", "b"), filepath.Join(realDir, "a", "b")},
		{"trailing slash", filepath.Join(link, "proj") + "/", filepath.Join(realDir, "proj")},
		{"dot segments", filepath.Join(link, "proj", "..", "proj"), filepath.Join(realDir, "proj")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
