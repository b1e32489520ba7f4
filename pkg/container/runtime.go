// Package container runs one-shot build and test containers
package container

import (
	"context"
	"io"
	"strings"

	"github.com/portworx/dcosdev/pkg/errors"
	"github.com/segmentio/ksuid"
)

// ErrRuntime is returned when the container runtime fails to run a container
var ErrRuntime = errors.New("container runtime error")

// Mount binds a host directory into a container
type Mount struct {
	Source string
	Target string
}

// Spec describes a container to run to completion
type Spec struct {
	// Purpose shows in the container name, e.g. "build" or "test"
	Purpose    string
	Image      string
	Cmd        []string
	Env        []string
	WorkingDir string
	User       string
	Mounts     []Mount
}

// Binds in the docker "source:target" notation
func (s Spec) Binds() []string {
	binds := make([]string, 0, len(s.Mounts))
	for _, m := range s.Mounts {
		binds = append(binds, m.Source+":"+m.Target)
	}
	return binds
}

// Runtime runs a container to completion, streaming its combined output to out line by line.
// It returns the exit code of the container.
type Runtime interface {
	Run(ctx context.Context, spec Spec, out io.Writer) (int, error)
}

// Name makes a unique container name for a purpose
func Name(purpose string) string {
	if purpose == "" {
		purpose = "run"
	}
	return "dcosdev-" + strings.ToLower(purpose) + "-" + ksuid.New().String()
}
