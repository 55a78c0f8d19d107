// Package docker runs environment commands in docker containers.
package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// Client is a docker client
type Client struct {
	clt        *client.Client
	debugLogFn func(string, ...any)
}

var defLogFn = func(string, ...any) {}

// NewClient initializes a new docker client.
// The following environment variables are respected:
// DOCKER_TLS_VERIFY
// DOCKER_CERT_PATH
// DOCKER_HOST to set the url to the docker server.
// DOCKER_API_VERSION to set the version of the API to reach, leave empty for latest.
func NewClient(debugLogFn func(string, ...any)) (*Client, error) {
	logFn := defLogFn
	if debugLogFn != nil {
		logFn = debugLogFn
	}

	dockerClt, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &Client{
		clt:        dockerClt,
		debugLogFn: logFn,
	}, nil
}

// Exists return true if the image with the given reference exists locally,
// otherwise false.
func (c *Client) Exists(ctx context.Context, imageRef string) (bool, error) {
	_, err := c.clt.ImageInspect(ctx, imageRef)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PullIfNotExist pulls the image from its registry when it is not available
// locally.
func (c *Client) PullIfNotExist(ctx context.Context, imageRef string) error {
	exists, err := c.Exists(ctx, imageRef)
	if err != nil {
		return err
	}

	if exists {
		c.debugLogFn("docker: image %q exists locally, skipping pull", imageRef)
		return nil
	}

	c.debugLogFn("docker: pulling image %q", imageRef)

	resp, err := c.clt.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pulling image %q failed: %w", imageRef, err)
	}
	defer resp.Close()

	// the pull happens while the response is consumed
	if _, err := io.Copy(io.Discard, resp); err != nil {
		return fmt.Errorf("pulling image %q failed: %w", imageRef, err)
	}

	return nil
}

// RunOptions describe a single command execution in a container.
type RunOptions struct {
	Image   string
	Command []string
	Env     []string
	// Mounts are host directories that are bind-mounted into the container
	// at the same path.
	Mounts []string
	// WorkDir is the working directory of the command in the container.
	WorkDir string
	// Stdout receives the combined stdout and stderr output of the
	// command.
	Stdout io.Writer
}

// Run creates a container, runs a single command in it and waits until it
// terminated.
// The container is removed afterwards.
// It returns the exit code of the command.
func (c *Client) Run(ctx context.Context, opts *RunOptions) (int, error) {
	containerCfg := &container.Config{
		Image:      opts.Image,
		Cmd:        opts.Command,
		Env:        opts.Env,
		WorkingDir: opts.WorkDir,
	}

	hostCfg := &container.HostConfig{}
	for _, dir := range opts.Mounts {
		hostCfg.Mounts = append(hostCfg.Mounts, mount.Mount{
			Type:   mount.TypeBind,
			Source: dir,
			Target: dir,
		})
	}

	res, err := c.clt.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "")
	if err != nil {
		return -1, fmt.Errorf("creating container failed: %w", err)
	}

	defer func() {
		err := c.clt.ContainerRemove(context.WithoutCancel(ctx), res.ID, container.RemoveOptions{Force: true})
		if err != nil {
			c.debugLogFn("docker: removing container %q failed: %s", res.ID, err)
		}
	}()

	for _, warning := range res.Warnings {
		c.debugLogFn("docker: %s", warning)
	}

	if err := c.clt.ContainerStart(ctx, res.ID, container.StartOptions{}); err != nil {
		return -1, fmt.Errorf("starting container failed: %w", err)
	}

	logs, err := c.clt.ContainerLogs(ctx, res.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return -1, fmt.Errorf("reading container logs failed: %w", err)
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(opts.Stdout, opts.Stdout, logs); err != nil {
		return -1, fmt.Errorf("reading container logs failed: %w", err)
	}

	waitCh, errCh := c.clt.ContainerWait(ctx, res.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, fmt.Errorf("waiting for container failed: %w", err)
	case status := <-waitCh:
		if status.Error != nil {
			return -1, fmt.Errorf("container terminated abnormally: %s", status.Error.Message)
		}

		return int(status.StatusCode), nil
	}
}
