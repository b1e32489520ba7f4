package container

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"
)

// Docker runs containers with the local docker engine
type Docker struct {
	client *client.Client
	logger *zap.Logger
}

// NewDocker connects to the docker engine configured by the environment (DOCKER_HOST, ...)
func NewDocker(logger *zap.Logger) (*Docker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, ErrRuntime.Wrap(err)
	}
	return &Docker{client: cli, logger: logger}, nil
}

// Close the engine connection
func (d *Docker) Close() error {
	return d.client.Close()
}

// Run a container to completion. The container is removed afterwards.
func (d *Docker) Run(ctx context.Context, spec Spec, out io.Writer) (int, error) {
	name := Name(spec.Purpose)
	id, err := d.create(ctx, name, spec)
	if err != nil {
		return -1, err
	}
	logger := d.logger.With(zap.String("container", name), zap.String("image", spec.Image))
	defer func() {
		// the run context may be done already
		if err := d.client.ContainerRemove(context.Background(), id, containertypes.RemoveOptions{Force: true}); err != nil {
			logger.Warn("could not remove container", zap.Error(err))
		}
	}()

	if err := d.client.ContainerStart(ctx, id, containertypes.StartOptions{}); err != nil {
		return -1, ErrRuntime.Wrap(fmt.Errorf("start %s: %w", name, err))
	}
	logger.Debug("container started")

	logs, err := d.client.ContainerLogs(ctx, id, containertypes.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return -1, ErrRuntime.Wrap(fmt.Errorf("logs %s: %w", name, err))
	}
	lines := NewLineWriter(out)
	_, err = stdcopy.StdCopy(lines, lines, logs)
	_ = logs.Close()
	if ferr := lines.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return -1, ErrRuntime.Wrap(fmt.Errorf("streaming output of %s: %w", name, err))
	}

	statusC, errC := d.client.ContainerWait(ctx, id, containertypes.WaitConditionNotRunning)
	select {
	case err := <-errC:
		return -1, ErrRuntime.Wrap(fmt.Errorf("wait %s: %w", name, err))
	case status := <-statusC:
		if status.Error != nil {
			return -1, ErrRuntime.Wrapf("wait %s: %s", name, status.Error.Message)
		}
		logger.Debug("container exited", zap.Int64("status", status.StatusCode))
		return int(status.StatusCode), nil
	}
}

func (d *Docker) create(ctx context.Context, name string, spec Spec) (string, error) {
	config := &containertypes.Config{
		Image:      spec.Image,
		Cmd:        spec.Cmd,
		Env:        spec.Env,
		WorkingDir: spec.WorkingDir,
		User:       spec.User,
		Labels:     map[string]string{"dcosdev.purpose": spec.Purpose},
	}
	hostConfig := &containertypes.HostConfig{Binds: spec.Binds()}

	resp, err := d.client.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	if errdefs.IsNotFound(err) {
		if err = d.pull(ctx, spec.Image); err != nil {
			return "", err
		}
		resp, err = d.client.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	}
	if err != nil {
		return "", ErrRuntime.Wrap(fmt.Errorf("create %s: %w", name, err))
	}
	for _, w := range resp.Warnings {
		d.logger.Warn("docker", zap.String("container", name), zap.String("warning", w))
	}
	return resp.ID, nil
}

func (d *Docker) pull(ctx context.Context, ref string) error {
	d.logger.Info("pulling image", zap.String("image", ref))
	progress, err := d.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return ErrRuntime.Wrap(fmt.Errorf("pull %s: %w", ref, err))
	}
	defer progress.Close()
	if _, err := io.Copy(ioutil.Discard, progress); err != nil {
		return ErrRuntime.Wrap(fmt.Errorf("pull %s: %w", ref, err))
	}
	return nil
}
