package mover

import (
	"errors"
	"fmt"
)

// Validation failures. Nothing has been changed when one of these is returned.
var (
	ErrSamePath            = errors.New("source and destination are the same path")
	ErrSourceMissing       = errors.New("source directory does not exist")
	ErrDestinationNotEmpty = errors.New("destination directory already exists and is not empty")
	ErrDestinationMissing  = errors.New("destination directory does not exist")
	ErrStoredDirConflict   = errors.New("destination Claude data directory already exists")
)

// RollbackOutcome describes what happened to the changes of a failed run.
type RollbackOutcome int

const (
	// RolledBack means every change was undone.
	RolledBack RollbackOutcome = iota
	// RollbackPartial means the backup was restored with some failures.
	RollbackPartial
	// RollbackFailed means the backup could not be read at all.
	RollbackFailed
	// RollbackUnavailable means no backup existed; only the project
	// directory move was undone.
	RollbackUnavailable
)

func (o RollbackOutcome) String() string {
	switch o {
	case RolledBack:
		return "changes have been rolled back"
	case RollbackPartial:
		return "rollback was incomplete"
	case RollbackFailed:
		return "rollback failed"
	case RollbackUnavailable:
		return "no backup was taken, Claude data may be partially updated"
	default:
		return "unknown rollback outcome"
	}
}

// RollbackError is returned when a run fails after it started changing
// things.
type RollbackError struct {
	Op         string
	Cause      error
	BackupPath string
	Outcome    RollbackOutcome
	// RestoreErr holds restore failures for RollbackPartial and RollbackFailed.
	RestoreErr error
}

func (e *RollbackError) Error() string {
	msg := fmt.Sprintf("%s failed: %v; %s", e.Op, e.Cause, e.Outcome)
	if e.BackupPath != "" {
		msg += fmt.Sprintf(" (backup: %s)", e.BackupPath)
	}
	return msg
}

func (e *RollbackError) Unwrap() error {
	return e.Cause
}
