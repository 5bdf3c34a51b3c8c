// Package container finds Docker containers that have a project mounted.
//
// Claude Code is often run inside a container with the project bind-mounted
// from the host. Moving the project out from under such a container breaks
// the running session, so callers check for these containers before a move.
//
// A container uses a project when one of its mount sources is the project
// path, lies inside it, or contains it.
//
// Basic usage:
//
//	client, err := container.NewClient()
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	found, err := client.FindProjectContainers(ctx, "/Users/me/code/app")
//	for _, c := range found {
//	    fmt.Println(c.Name, c.MountSource, strings.Join(c.Ports, ", "))
//	}
//
// Docker is optional. NewClient succeeds without a daemon; the first API
// call returns the connection error.
package container
