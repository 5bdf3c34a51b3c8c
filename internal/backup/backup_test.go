package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fixture struct {
	root    string
	project string
	target  string
	history string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		root:    filepath.Join(base, "backups"),
		project: filepath.Join(base, "projects", "-tmp-old"),
		target:  filepath.Join(base, "projects", "-tmp-new"),
		history: filepath.Join(base, "history.jsonl"),
	}
	write(t, filepath.Join(f.project, "s1.jsonl"), `{"cwd":"/tmp/old"}`+"\n")
	write(t, filepath.Join(f.project, "s1", "subagents", "a.jsonl"), `{"cwd":"/tmp/old"}`+"\n")
	write(t, filepath.Join(f.target, "s2.jsonl"), `{"cwd":"/tmp/new"}`+"\n")
	write(t, f.history, `{"project":"/tmp/old"}`+"\n")
	return f
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func fixedClock(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	fixedClock(t, time.Date(2026, 2, 27, 14, 53, 0, 0, time.Local))

	dir, err := Create(f.root, Options{
		ProjectDir:  f.project,
		HistoryPath: f.history,
		ExtraDir:    f.target,
		OperationID: "op-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(dir) != "20260227_145300" {
		t.Errorf("backup dir = %s, want 20260227_145300", filepath.Base(dir))
	}

	for _, rel := range []string{
		"project_dir/s1.jsonl",
		"project_dir/s1/subagents/a.jsonl",
		"merge_target_dir/s2.jsonl",
		"history.jsonl",
		ManifestFile,
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s in backup: %v", rel, err)
		}
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	want := Manifest{ProjectDir: f.project, HistoryPath: f.history, MergeTargetDir: f.target, OperationID: "op-1"}
	if m != want {
		t.Errorf("manifest = %+v, want %+v", m, want)
	}
}

func TestCreate_SameSecond(t *testing.T) {
	f := newFixture(t)
	fixedClock(t, time.Date(2026, 2, 27, 14, 53, 0, 0, time.Local))

	first, err := Create(f.root, Options{ProjectDir: f.project, HistoryPath: f.history})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Create(f.root, Options{ProjectDir: f.project, HistoryPath: f.history})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(second) != "20260227_145300_01" {
		t.Errorf("second backup = %s, want 20260227_145300_01", filepath.Base(second))
	}

	latest, ok := FindLatest(f.root)
	if !ok || latest != second {
		t.Errorf("FindLatest() = (%s, %v), want %s (first was %s)", latest, ok, second, first)
	}
}

func TestCreate_MissingItems(t *testing.T) {
	base := t.TempDir()
	dir, err := Create(filepath.Join(base, "b"), Options{
		ProjectDir:  filepath.Join(base, "nope"),
		HistoryPath: filepath.Join(base, "history.jsonl"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ManifestFile {
		t.Errorf("backup contents = %v, want only the manifest", entries)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	f := newFixture(t)

	dir, err := Create(f.root, Options{ProjectDir: f.project, HistoryPath: f.history, ExtraDir: f.target})
	if err != nil {
		t.Fatal(err)
	}

	// Mutate everything the backup covers.
	write(t, filepath.Join(f.project, "s1.jsonl"), "changed\n")
	write(t, filepath.Join(f.project, "extra.jsonl"), "new file\n")
	if err := os.RemoveAll(f.target); err != nil {
		t.Fatal(err)
	}
	write(t, f.history, "changed\n")

	if err := Restore(dir); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if got := read(t, filepath.Join(f.project, "s1.jsonl")); got != `{"cwd":"/tmp/old"}`+"\n" {
		t.Errorf("project log = %q", got)
	}
	if _, err := os.Stat(filepath.Join(f.project, "extra.jsonl")); !os.IsNotExist(err) {
		t.Error("file added after backup survived restore")
	}
	if got := read(t, filepath.Join(f.target, "s2.jsonl")); got != `{"cwd":"/tmp/new"}`+"\n" {
		t.Errorf("merge target log = %q", got)
	}
	if got := read(t, f.history); got != `{"project":"/tmp/old"}`+"\n" {
		t.Errorf("history = %q", got)
	}

	for _, leftover := range []string{f.project + stagedSuffix, f.project + asideSuffix} {
		if _, err := os.Stat(leftover); !os.IsNotExist(err) {
			t.Errorf("leftover %s after restore", leftover)
		}
	}
}

func TestRestore_CopyFailureKeepsTarget(t *testing.T) {
	f := newFixture(t)

	dir, err := Create(f.root, Options{ProjectDir: f.project, HistoryPath: f.history})
	if err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(f.project, "s1.jsonl"), "live\n")

	orig := copyTree
	copyTree = func(src, dst string) error { return errors.New("disk full") }
	t.Cleanup(func() { copyTree = orig })

	err = Restore(dir)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Restore() error = %v, want disk full", err)
	}
	if got := read(t, filepath.Join(f.project, "s1.jsonl")); got != "live\n" {
		t.Errorf("target changed after failed restore: %q", got)
	}
	// History is still restored.
	if got := read(t, f.history); got != `{"project":"/tmp/old"}`+"\n" {
		t.Errorf("history = %q", got)
	}
}

func TestRestore_StaleLeftovers(t *testing.T) {
	f := newFixture(t)
	dir, err := Create(f.root, Options{ProjectDir: f.project, HistoryPath: f.history})
	if err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(f.project+asideSuffix, "junk"), "x")
	write(t, filepath.Join(f.project+stagedSuffix, "junk"), "x")

	if err := Restore(dir); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.project, "junk")); !os.IsNotExist(err) {
		t.Error("stale staged content ended up in target")
	}
}

func TestRestore_NoManifest(t *testing.T) {
	dir := t.TempDir()
	if err := Restore(dir); !errors.Is(err, ErrNoManifest) {
		t.Errorf("Restore() error = %v, want ErrNoManifest", err)
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"20260101_100000", "20260301_090000", "20260201_120000"} {
		write(t, filepath.Join(root, name, ManifestFile), "project_dir=/p/"+name+"\nhistory_path=/h\n")
	}
	write(t, filepath.Join(root, "20260301_090000", ManifestFile), "project_dir=/p/x\nhistory_path=/h\nmerge_target_dir=/p/y\n")
	write(t, filepath.Join(root, "stray.txt"), "")

	infos, err := List(root)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, i := range infos {
		got = append(got, i.Timestamp)
	}
	want := "20260301_090000,20260201_120000,20260101_100000"
	if strings.Join(got, ",") != want {
		t.Errorf("List() order = %v, want %s", got, want)
	}
	if !infos[0].HasMergeTarget || infos[0].ProjectDir != "/p/x" {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].HasMergeTarget {
		t.Errorf("infos[1] should not have a merge target")
	}
}

func TestList_MissingRoot(t *testing.T) {
	infos, err := List(filepath.Join(t.TempDir(), "missing"))
	if err != nil || len(infos) != 0 {
		t.Errorf("List(missing) = (%v, %v), want empty", infos, err)
	}
	if _, ok := FindLatest(filepath.Join(t.TempDir(), "missing")); ok {
		t.Error("FindLatest(missing) found a backup")
	}
}

func TestReadManifest_IgnoresJunk(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, ManifestFile), "garbage line\n project_dir = /a=b \nhistory_path=/h\n")
	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.ProjectDir != "/a=b" || m.HistoryPath != "/h" {
		t.Errorf("manifest = %+v", m)
	}
}
