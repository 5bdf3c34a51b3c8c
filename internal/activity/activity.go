// Package activity looks for signs that Claude Code is using a project.
//
// The check is advisory: it never blocks a move. It looks for local
// processes whose command line mentions claude and the project path, and
// for running Docker containers with the project mounted. Either probe may
// be unavailable (no pgrep, no Docker daemon); that is not an error.
package activity

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rickgorman/claudepath/internal/container"
)

// probeTimeout bounds each probe.
const probeTimeout = 2 * time.Second

// Process is a local process that may be Claude Code working in the project.
type Process struct {
	PID     int
	Command string
}

// Report is the outcome of a check.
type Report struct {
	Processes  []Process
	Containers []container.Container
}

// Active reports whether anything appears to be using the project.
func (r Report) Active() bool {
	return len(r.Processes) > 0 || len(r.Containers) > 0
}

// Checker runs the probes. The zero value is not usable; use New.
type Checker struct {
	listProcesses  func(ctx context.Context, pattern string) ([]byte, error)
	listContainers func(ctx context.Context, projectPath string) ([]container.Container, error)
}

// New returns a Checker using pgrep and the local Docker daemon.
func New() *Checker {
	return &Checker{
		listProcesses:  pgrep,
		listContainers: dockerContainers,
	}
}

// Check probes for activity in projectPath.
func (c *Checker) Check(ctx context.Context, projectPath string) Report {
	var r Report

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	out, err := c.listProcesses(pctx, processPattern(projectPath))
	cancel()
	if err == nil {
		r.Processes = parsePgrep(out)
	}

	dctx, cancel := context.WithTimeout(ctx, probeTimeout)
	containers, err := c.listContainers(dctx, projectPath)
	cancel()
	if err == nil {
		r.Containers = containers
	}
	return r
}

// processPattern matches command lines that run claude with the project
// path somewhere after it.
func processPattern(projectPath string) string {
	return "claude.*" + regexp.QuoteMeta(projectPath)
}

// pgrepArgs returns the flags that print "<pid> <command line>". BSD and
// macOS pgrep use -a for "include ancestors" and print the full command
// line with -l -f instead.
func pgrepArgs(goos, pattern string) []string {
	switch goos {
	case "linux":
		return []string{"-a", "-f", pattern}
	default:
		return []string{"-l", "-f", pattern}
	}
}

func pgrep(ctx context.Context, pattern string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "pgrep", pgrepArgs(runtime.GOOS, pattern)...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// No matching processes.
		return nil, nil
	}
	return out, err
}

func dockerContainers(ctx context.Context, projectPath string) ([]container.Container, error) {
	cli, err := container.NewClient()
	if err != nil {
		return nil, err
	}
	defer cli.Close()
	return cli.FindProjectContainers(ctx, projectPath)
}

// parsePgrep parses pgrep output: one "<pid> <command line>" per line.
// Lines with only a PID keep an empty command.
func parsePgrep(out []byte) []Process {
	var procs []Process
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pidStr, cmd, _ := strings.Cut(line, " ")
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		procs = append(procs, Process{PID: pid, Command: strings.TrimSpace(cmd)})
	}
	return procs
}
