package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := "/home/tester"

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"home dir", "~", home},
		{"home subdir", "~/.claude", filepath.Join(home, ".claude")},
		{"absolute path", "/tmp/claude", "/tmp/claude"},
		{"relative path", "claude", "claude"},
		{"tilde in middle", "/tmp/~/x", "/tmp/~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input, home)
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := New("/data/.claude")

	if got, want := cfg.ProjectsDir(), "/data/.claude/projects"; got != want {
		t.Errorf("ProjectsDir() = %q, want %q", got, want)
	}
	if got, want := cfg.HistoryFile(), "/data/.claude/history.jsonl"; got != want {
		t.Errorf("HistoryFile() = %q, want %q", got, want)
	}
	if got, want := cfg.BackupRoot(), "/data/.claude/backups/claudepath"; got != want {
		t.Errorf("BackupRoot() = %q, want %q", got, want)
	}

	cfg.BackupDir = "/elsewhere/backups"
	if got := cfg.BackupRoot(); got != "/elsewhere/backups" {
		t.Errorf("BackupRoot() with BackupDir = %q, want %q", got, "/elsewhere/backups")
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		f, path, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if path != "" || f != (File{}) {
			t.Errorf("LoadFile() = %+v, %q, want zero values", f, path)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		content := "claude_dir: /custom/.claude\nbackup_dir: /custom/backups\nno_backup: true\n"
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		f, path, err := LoadFile(p)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if path != p {
			t.Errorf("LoadFile() path = %q, want %q", path, p)
		}
		want := File{ClaudeDir: "/custom/.claude", BackupDir: "/custom/backups", NoBackup: true}
		if f != want {
			t.Errorf("LoadFile() = %+v, want %+v", f, want)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(p, []byte("claude_dir: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, _, err := LoadFile(p); err == nil {
			t.Error("LoadFile() expected error for invalid yaml")
		}
	})
}

func TestLoad(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvClaudeDir, "")

	t.Run("file sets claude dir", func(t *testing.T) {
		dir := filepath.Join(xdg, ToolName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("claude_dir: /from/file\n"), 0644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(filepath.Join(dir, "config.yaml"))

		cfg, err := Load(Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ClaudeDir != "/from/file" {
			t.Errorf("Load() ClaudeDir = %q, want %q", cfg.ClaudeDir, "/from/file")
		}
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv(EnvClaudeDir, "/from/env")

		cfg, err := Load(Overrides{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ClaudeDir != "/from/env" {
			t.Errorf("Load() ClaudeDir = %q, want %q", cfg.ClaudeDir, "/from/env")
		}
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(EnvClaudeDir, "/from/env")

		cfg, err := Load(Overrides{ClaudeDir: "/from/flag", NoBackup: true})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ClaudeDir != "/from/flag" {
			t.Errorf("Load() ClaudeDir = %q, want %q", cfg.ClaudeDir, "/from/flag")
		}
		if !cfg.NoBackup {
			t.Error("Load() NoBackup = false, want true")
		}
	})
}
