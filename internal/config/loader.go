// Package config handles claudepath configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ToolName names the backup namespace under {claude_dir}/backups/.
	ToolName = "claudepath"

	// EnvClaudeDir is the environment variable Claude Code itself honors.
	EnvClaudeDir = "CLAUDE_CONFIG_DIR"

	projectsDirName = "projects"
	historyFileName = "history.jsonl"
	backupsDirName  = "backups"
)

// File is the on-disk shape of config.yaml.
type File struct {
	ClaudeDir string `yaml:"claude_dir"`
	BackupDir string `yaml:"backup_dir"`
	NoBackup  bool   `yaml:"no_backup"`
}

// Config is the resolved configuration passed to every component.
type Config struct {
	ClaudeDir string
	BackupDir string
	NoBackup  bool

	// Source describes where ClaudeDir came from, for verbose output.
	Source string
}

// Overrides holds values given explicitly on the command line.
type Overrides struct {
	ClaudeDir string
	NoBackup  bool
}

// New returns a Config rooted at claudeDir with default derived paths.
func New(claudeDir string) Config {
	return Config{
		ClaudeDir: claudeDir,
		Source:    "explicit",
	}
}

// Load resolves the configuration from defaults, the config file, the
// environment, and overrides.
func Load(overrides Overrides) (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to determine home directory: %w", err)
	}

	cfg := Config{
		ClaudeDir: filepath.Join(homeDir, ".claude"),
		Source:    "default",
	}

	fileCfg, path, err := LoadFile(configFilePath(homeDir))
	if err != nil {
		return Config{}, err
	}
	if fileCfg.ClaudeDir != "" {
		cfg.ClaudeDir = expandPath(fileCfg.ClaudeDir, homeDir)
		cfg.Source = path
	}
	if fileCfg.BackupDir != "" {
		cfg.BackupDir = expandPath(fileCfg.BackupDir, homeDir)
	}
	cfg.NoBackup = fileCfg.NoBackup

	if dir := os.Getenv(EnvClaudeDir); dir != "" {
		cfg.ClaudeDir = expandPath(dir, homeDir)
		cfg.Source = EnvClaudeDir + " env var"
	}

	if overrides.ClaudeDir != "" {
		cfg.ClaudeDir = expandPath(overrides.ClaudeDir, homeDir)
		cfg.Source = "--claude-dir flag"
	}
	if overrides.NoBackup {
		cfg.NoBackup = true
	}

	return cfg, nil
}

// LoadFile reads a config.yaml. A missing file yields a zero File and no error.
func LoadFile(path string) (File, string, error) {
	if path == "" || !fileExists(path) {
		return File{}, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, "", err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return f, path, nil
}

// ProjectsDir returns the directory holding stored project directories.
func (c Config) ProjectsDir() string {
	return filepath.Join(c.ClaudeDir, projectsDirName)
}

// HistoryFile returns the global history log path.
func (c Config) HistoryFile() string {
	return filepath.Join(c.ClaudeDir, historyFileName)
}

// BackupRoot returns the directory under which backups are created.
func (c Config) BackupRoot() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Join(c.ClaudeDir, backupsDirName, ToolName)
}

// configFilePath returns $XDG_CONFIG_HOME/claudepath/config.yaml or
// ~/.config/claudepath/config.yaml.
func configFilePath(homeDir string) string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, ToolName, "config.yaml")
	}
	if homeDir == "" {
		return ""
	}
	return filepath.Join(homeDir, ".config", ToolName, "config.yaml")
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
