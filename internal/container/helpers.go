package container

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/go-connections/nat"
)

// runningFilter selects containers that are currently running.
func runningFilter() filters.Args {
	return filters.NewArgs(filters.Arg("status", "running"))
}

// mountCovers reports whether a mount of source exposes projectPath: the
// source is the project, is inside it, or contains it.
func mountCovers(source, projectPath string) bool {
	if source == "" || projectPath == "" {
		return false
	}
	source = filepath.Clean(source)
	projectPath = filepath.Clean(projectPath)
	return source == projectPath || isWithin(source, projectPath) || isWithin(projectPath, source)
}

func isWithin(path, dir string) bool {
	if dir == string(filepath.Separator) {
		return strings.HasPrefix(path, dir) && path != dir
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// containerName returns the first name without Docker's leading "/".
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	name := names[0]
	// Docker container names start with "/"
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	return name
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// formatPort renders a port the way `docker ps` does, for example
// "0.0.0.0:3000->3000/tcp" or "8080/tcp" when unpublished.
func formatPort(ip string, private, public uint16, proto string) (string, bool) {
	if proto == "" {
		proto = "tcp"
	}
	port, err := nat.NewPort(proto, strconv.Itoa(int(private)))
	if err != nil {
		return "", false
	}
	if public == 0 {
		return string(port), true
	}
	host := ip
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d->%s", host, public, port), true
}
