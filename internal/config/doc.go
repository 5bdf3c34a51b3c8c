// Package config resolves where claudepath reads and writes Claude Code data.
//
// Every component receives a Config value instead of reading the home
// directory on its own, so tests can point the whole pipeline at a
// temporary directory.
//
// Resolution order (later wins):
//  1. Defaults: ~/.claude, backups enabled
//  2. $XDG_CONFIG_HOME/claudepath/config.yaml (or ~/.config/claudepath/config.yaml)
//  3. CLAUDE_CONFIG_DIR environment variable
//  4. Explicit overrides (the --claude-dir flag)
//
// Example config.yaml:
//
//	claude_dir: ~/.claude
//	backup_dir: ~/claudepath-backups
//	no_backup: false
//
// Derived locations:
//
//	{claude_dir}/projects/                 stored project directories
//	{claude_dir}/history.jsonl             global prompt history
//	{claude_dir}/backups/claudepath/       backups (unless backup_dir is set)
package config
