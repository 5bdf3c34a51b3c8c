// Package mover moves projects and keeps Claude Code's data pointing at them.
//
// Move relocates a project directory and then updates Claude Code's stored
// data. Remap performs only the data update, for projects that were already
// moved by hand. Both run in phases:
//
//  1. Validate paths (nothing changes if this fails)
//  2. Back up the stored project directory and history
//  3. Move the project directory on disk (Move only)
//  4. Rename the stored directory, or merge it into an existing one
//  5. Rewrite sessions-index.json, session logs and history.jsonl
//
// A failure in phases 3 to 5 restores the backup and moves the project
// directory back, and is reported as a *RollbackError.
package mover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rickgorman/claudepath/internal/backup"
	"github.com/rickgorman/claudepath/internal/config"
	"github.com/rickgorman/claudepath/internal/fsutil"
	"github.com/rickgorman/claudepath/internal/observe"
	"github.com/rickgorman/claudepath/internal/rewrite"
	"github.com/rickgorman/claudepath/internal/session"
)

const (
	opMove  = "move"
	opRemap = "remap"
)

// Options controls a single run.
type Options struct {
	// DryRun computes the result without changing anything.
	DryRun bool
	// NoBackup skips the backup. Failures then cannot restore Claude data.
	NoBackup bool
	// Merge combines the stored directory into an existing one for the
	// destination instead of failing.
	Merge bool
}

// Preview summarizes what a run would touch, for confirmation prompts.
type Preview struct {
	ProjectFound bool
	SessionCount int
	HasHistory   bool
}

// Mover runs moves and remaps against one Claude data directory.
type Mover struct {
	cfg     config.Config
	obs     *observe.Observer
	rw      *rewrite.Rewriter
	newOpID func() string

	// stepHook runs after each successful step; tests use it to inject failures.
	stepHook func(name string) error
}

// New returns a Mover for cfg. A nil Observer discards logging.
func New(cfg config.Config, obs *observe.Observer) *Mover {
	if obs == nil {
		obs = observe.Discard()
	}
	return &Mover{
		cfg:     cfg,
		obs:     obs,
		rw:      rewrite.New(obs),
		newOpID: uuid.NewString,
	}
}

// run carries the state of one operation, including what has been done so
// far so a failure knows what to undo.
type run struct {
	op      string
	oldPath string
	newPath string
	opts    Options

	storedOld string
	found     bool
	storedNew string
	merging   bool

	movedDir   bool
	renamedDir bool

	result *Result
}

// Move moves the project at oldPath to newPath and updates every Claude Code
// reference to it. newPath must not exist or be an empty directory.
func (m *Mover) Move(ctx context.Context, oldPath, newPath string, opts Options) (*Result, error) {
	r, err := m.prepare(opMove, oldPath, newPath, opts)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(r.oldPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, r.oldPath)
	}
	if fsutil.Exists(r.newPath) {
		empty, err := fsutil.IsEmptyDir(r.newPath)
		if err != nil || !empty {
			return nil, fmt.Errorf("%w: %s", ErrDestinationNotEmpty, r.newPath)
		}
	}

	return m.execute(ctx, r)
}

// Remap updates every Claude Code reference from oldPath to newPath for a
// project that has already been moved. newPath must exist.
func (m *Mover) Remap(ctx context.Context, oldPath, newPath string, opts Options) (*Result, error) {
	r, err := m.prepare(opRemap, oldPath, newPath, opts)
	if err != nil {
		return nil, err
	}

	if !fsutil.Exists(r.newPath) {
		return nil, fmt.Errorf("%w: %s", ErrDestinationMissing, r.newPath)
	}

	return m.execute(ctx, r)
}

// Preview reports whether oldPath is tracked, how many session logs it has
// and whether a history file exists.
func (m *Mover) Preview(oldPath string) (Preview, error) {
	abs, err := absPath(oldPath)
	if err != nil {
		return Preview{}, err
	}

	var p Preview
	p.HasHistory = fsutil.Exists(m.cfg.HistoryFile())

	dir, ok := session.FindProjectDir(m.cfg.ProjectsDir(), abs)
	if !ok {
		return p, nil
	}
	p.ProjectFound = true

	logs, err := rewrite.LogFiles(dir)
	if err != nil {
		return p, err
	}
	p.SessionCount = len(logs)
	return p, nil
}

// prepare normalizes paths, locates the stored directories and checks the
// conflicts that apply to both operations.
func (m *Mover) prepare(op, oldPath, newPath string, opts Options) (*run, error) {
	oldAbs, err := absPath(oldPath)
	if err != nil {
		return nil, err
	}
	newAbs, err := absPath(newPath)
	if err != nil {
		return nil, err
	}
	if oldAbs == newAbs {
		return nil, ErrSamePath
	}

	r := &run{
		op:        op,
		oldPath:   oldAbs,
		newPath:   newAbs,
		opts:      opts,
		storedNew: session.StoredDir(m.cfg.ProjectsDir(), newAbs),
		result: &Result{
			DryRun:      opts.DryRun,
			OperationID: m.newOpID(),
		},
	}
	r.storedOld, r.found = session.FindProjectDir(m.cfg.ProjectsDir(), oldAbs)

	if r.found && r.storedOld != r.storedNew && fsutil.Exists(r.storedNew) {
		if !opts.Merge {
			return nil, fmt.Errorf("%w: %s", ErrStoredDirConflict, r.storedNew)
		}
		r.merging = true
	}

	m.obs.Log().Info().
		Str("op", op).
		Str("op_id", r.result.OperationID).
		Str("claude_dir", m.cfg.ClaudeDir).
		Str("stored_dir", r.storedOld).
		Bool("found", r.found).
		Msg("resolved project")
	return r, nil
}

func (m *Mover) execute(ctx context.Context, r *run) (res *Result, err error) {
	ctx, span := m.obs.StartSpan(ctx, "mover."+r.op,
		attribute.String("op_id", r.result.OperationID),
		attribute.String("old_path", r.oldPath),
		attribute.String("new_path", r.newPath),
		attribute.Bool("dry_run", r.opts.DryRun),
	)
	defer func() { observe.EndSpan(span, err) }()

	// Phase 2: backup.
	if !r.opts.DryRun && !r.opts.NoBackup && !m.cfg.NoBackup {
		if err := m.backup(ctx, r); err != nil {
			return nil, err
		}
	}

	if err := m.apply(ctx, r); err != nil {
		return nil, m.rollback(ctx, r, err)
	}
	return r.result, nil
}

func (m *Mover) backup(ctx context.Context, r *run) (err error) {
	_, span := m.obs.StartSpan(ctx, "mover.backup")
	defer func() { observe.EndSpan(span, err) }()

	opts := backup.Options{
		HistoryPath: m.cfg.HistoryFile(),
		OperationID: r.result.OperationID,
	}
	if r.found {
		opts.ProjectDir = r.storedOld
	}
	if r.merging {
		opts.ExtraDir = r.storedNew
	}

	path, err := backup.Create(m.cfg.BackupRoot(), opts)
	if err != nil {
		if path != "" {
			_ = os.RemoveAll(path)
		}
		return fmt.Errorf("failed to create backup: %w", err)
	}
	r.result.BackupPath = path

	m.obs.Log().Info().Str("backup", path).Msg("backup created")
	return nil
}

// apply runs phases 3 to 5.
func (m *Mover) apply(ctx context.Context, r *run) error {
	dry := r.opts.DryRun

	// Phase 3: physical move.
	if r.op == opMove && !dry {
		if err := m.step(ctx, "mover.move_dir", func() error { return moveProjectDir(r) }); err != nil {
			return err
		}
	}

	// Phase 4: stored directory.
	var workDirs []string
	if r.found {
		if err := m.step(ctx, "mover.stored_dir", func() error { return m.relocateStored(r) }); err != nil {
			return err
		}
		switch {
		case !dry:
			workDirs = append(workDirs, r.storedNew)
		case r.merging:
			workDirs = append(workDirs, r.storedNew, r.storedOld)
		default:
			workDirs = append(workDirs, r.storedOld)
		}
	}

	// Phase 5: rewrite references.
	if len(workDirs) > 0 {
		err := m.step(ctx, "mover.rewrite_index", func() error {
			n, err := m.rw.Index(filepath.Join(workDirs[0], rewrite.IndexFile), r.oldPath, r.newPath, dry)
			r.result.IndexUpdated = n > 0
			return err
		})
		if err != nil {
			return err
		}

		err = m.step(ctx, "mover.rewrite_logs", func() error {
			for _, dir := range workDirs {
				files, lines, err := m.rw.Logs(dir, r.oldPath, r.newPath, dry)
				r.result.LogFilesChanged += files
				r.result.LogLinesChanged += lines
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return m.step(ctx, "mover.rewrite_history", func() error {
		n, err := m.rw.History(m.cfg.HistoryFile(), r.oldPath, r.newPath, dry)
		r.result.HistoryLinesChanged = n
		return err
	})
}

// step runs fn in its own span and stops early on a cancelled context.
func (m *Mover) step(ctx context.Context, name string, fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := m.obs.StartSpan(ctx, name)
	defer func() { observe.EndSpan(span, err) }()
	if err := fn(); err != nil {
		return err
	}
	if m.stepHook != nil {
		return m.stepHook(name)
	}
	return nil
}

func moveProjectDir(r *run) error {
	if fsutil.Exists(r.newPath) {
		// Validated empty; os.Rename cannot replace a directory on every platform.
		if err := os.Remove(r.newPath); err != nil {
			return fmt.Errorf("failed to remove empty destination %s: %w", r.newPath, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(r.newPath), 0o755); err != nil {
		return err
	}
	if err := fsutil.MoveDir(r.oldPath, r.newPath); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", r.oldPath, r.newPath, err)
	}
	r.movedDir = true
	return nil
}

// relocateStored renames the stored directory to its new encoded name, or
// merges it into the existing directory for the destination.
func (m *Mover) relocateStored(r *run) error {
	if r.storedOld == r.storedNew {
		return nil
	}
	r.result.DirRenamed = true

	if r.merging {
		res, err := m.rw.MergeIndex(
			filepath.Join(r.storedNew, rewrite.IndexFile),
			filepath.Join(r.storedOld, rewrite.IndexFile),
			r.oldPath, r.newPath, r.opts.DryRun,
		)
		r.result.SessionsMerged = res.Merged
		r.result.SkippedSessions = res.Skipped
		if err != nil {
			return err
		}
		if r.opts.DryRun {
			return nil
		}
		return mergeDirs(r.storedOld, r.storedNew)
	}

	if r.opts.DryRun {
		return nil
	}
	if err := os.Rename(r.storedOld, r.storedNew); err != nil {
		return fmt.Errorf("failed to rename %s: %w", r.storedOld, err)
	}
	r.renamedDir = true
	return nil
}

// rollback undoes a failed run and wraps cause in a *RollbackError.
func (m *Mover) rollback(ctx context.Context, r *run, cause error) error {
	_, span := m.obs.StartSpan(ctx, "mover.rollback")
	defer span.End()

	rbErr := &RollbackError{
		Op:         r.op,
		Cause:      cause,
		BackupPath: r.result.BackupPath,
		Outcome:    RollbackUnavailable,
	}

	if r.result.BackupPath != "" {
		restoreErr := backup.Restore(r.result.BackupPath)
		switch {
		case restoreErr == nil:
			rbErr.Outcome = RolledBack
			if r.renamedDir {
				// The restored copy is back under the old name.
				if err := os.RemoveAll(r.storedNew); err != nil {
					rbErr.Outcome = RollbackPartial
					rbErr.RestoreErr = err
				}
			}
		case errors.Is(restoreErr, backup.ErrNoManifest):
			rbErr.Outcome = RollbackFailed
			rbErr.RestoreErr = restoreErr
		default:
			rbErr.Outcome = RollbackPartial
			rbErr.RestoreErr = restoreErr
		}
	} else if r.renamedDir && !fsutil.Exists(r.storedOld) {
		_ = os.Rename(r.storedNew, r.storedOld)
	}

	if r.movedDir && fsutil.Exists(r.newPath) && !fsutil.Exists(r.oldPath) {
		if err := fsutil.MoveDir(r.newPath, r.oldPath); err != nil {
			rbErr.RestoreErr = errors.Join(rbErr.RestoreErr, err)
			if rbErr.Outcome == RolledBack {
				rbErr.Outcome = RollbackPartial
			}
		}
	}

	m.obs.Log().Error().
		Err(cause).
		Str("op_id", r.result.OperationID).
		Str("outcome", rbErr.Outcome.String()).
		Msg("operation failed")
	return rbErr
}

// absPath resolves path the way Claude Code records project paths:
// absolute, with symlinks resolved.
func absPath(path string) (string, error) {
	abs, err := fsutil.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
