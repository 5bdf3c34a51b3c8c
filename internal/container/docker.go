package container

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Client wraps the Docker client with our operations.
type Client struct {
	cli *client.Client
}

// Container is a running container with a mount that covers a project.
type Container struct {
	ID          string
	Name        string
	Image       string
	MountSource string
	MountTarget string
	Ports       []string
}

// NewClient creates a new Docker client wrapper.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli}, nil
}

// Close closes the underlying Docker client.
func (c *Client) Close() error {
	return c.cli.Close()
}

// FindProjectContainers lists running containers with a mount that covers
// projectPath.
func (c *Client) FindProjectContainers(ctx context.Context, projectPath string) ([]Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		Filters: runningFilter(),
	})
	if err != nil {
		return nil, err
	}

	var found []Container
	for _, ctr := range containers {
		for _, mp := range ctr.Mounts {
			if !mountCovers(mp.Source, projectPath) {
				continue
			}

			match := Container{
				ID:          shortID(ctr.ID),
				Name:        containerName(ctr.Names),
				Image:       ctr.Image,
				MountSource: mp.Source,
				MountTarget: mp.Destination,
			}
			for _, p := range ctr.Ports {
				if s, ok := formatPort(p.IP, p.PrivatePort, p.PublicPort, p.Type); ok {
					match.Ports = append(match.Ports, s)
				}
			}
			found = append(found, match)
			break
		}
	}
	return found, nil
}
