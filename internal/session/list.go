package session

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"

	"github.com/rickgorman/claudepath/internal/rewrite"
	"github.com/rickgorman/claudepath/pkg/pathenc"
)

// PathSource says where a listed project's path came from.
type PathSource string

const (
	SourceIndex   PathSource = "index"
	SourceSession PathSource = "session"
	SourceProbe   PathSource = "probe"
	SourceGuess   PathSource = "guess"
)

// Project is one stored project directory.
type Project struct {
	EncodedName  string
	Dir          string
	Path         string
	PathSource   PathSource
	SessionCount int
	LastModified time.Time
}

// ListProjects returns every stored project directory, sorted by name.
// A missing projects directory has no projects.
func ListProjects(projectsDir string) ([]Project, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var projects []Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		projects = append(projects, describe(filepath.Join(projectsDir, e.Name())))
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].EncodedName < projects[j].EncodedName
	})
	return projects, nil
}

func describe(dir string) Project {
	p := Project{EncodedName: filepath.Base(dir), Dir: dir}

	if data, err := os.ReadFile(filepath.Join(dir, rewrite.IndexFile)); err == nil && gjson.ValidBytes(data) {
		if path := gjson.GetBytes(data, "originalPath").String(); path != "" {
			p.Path, p.PathSource = path, SourceIndex
		} else if path := gjson.GetBytes(data, "entries.0.projectPath").String(); path != "" {
			p.Path, p.PathSource = path, SourceIndex
		}
		p.SessionCount = int(gjson.GetBytes(data, "entries.#").Int())
		gjson.GetBytes(data, "entries.#.modified").ForEach(func(_, v gjson.Result) bool {
			if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil && t.After(p.LastModified) {
				p.LastModified = t
			}
			return true
		})
	}

	logs, _ := doublestar.Glob(os.DirFS(dir), "*.jsonl", doublestar.WithFilesOnly())
	sort.Strings(logs)
	if p.SessionCount == 0 {
		p.SessionCount = len(logs)
		if p.LastModified.IsZero() {
			for _, name := range logs {
				if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.ModTime().After(p.LastModified) {
					p.LastModified = info.ModTime()
				}
			}
		}
	}

	if p.Path == "" && len(logs) > 0 {
		if cwd, ok := readCwd(filepath.Join(dir, logs[0])); ok {
			p.Path, p.PathSource = cwd, SourceSession
		}
	}
	if p.Path == "" {
		if path, ok := DecodeName(p.EncodedName); ok {
			p.Path, p.PathSource = path, SourceProbe
		}
	}
	if p.Path == "" {
		p.Path = strings.Replace(p.EncodedName, pathenc.Replacement, pathenc.Separator, 1)
		p.PathSource = SourceGuess
	}
	return p
}

// readCwd returns the first non-empty cwd recorded in a session log.
func readCwd(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if gjson.ValidBytes(line) {
			if cwd := gjson.GetBytes(line, "cwd").String(); cwd != "" {
				return cwd, true
			}
		}
		if err != nil {
			return "", false
		}
	}
}
