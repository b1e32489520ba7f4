// Package workflow chains the components of the up and release commands
package workflow

import (
	"context"
	"time"

	"github.com/portworx/dcosdev/pkg/artifacts"
	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/errors"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/publish"
	"github.com/portworx/dcosdev/pkg/repository"
	"github.com/portworx/dcosdev/pkg/storage"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrReleaseOptions is returned when release coordinates are incomplete
var ErrReleaseOptions = errors.New("invalid release options")

// Deps are the collaborators of a workflow
type Deps struct {
	Fs        afero.Fs
	Project   *model.Project
	Endpoints model.Endpoints
	Store     storage.Store
	Logger    *zap.Logger
	// Clock defaults to time.Now
	Clock func() time.Time
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Deps) builder(opts ...repository.Option) *repository.Builder {
	opts = append([]repository.Option{
		repository.WithEndpoints(d.Endpoints),
		repository.WithLogger(d.logger()),
	}, opts...)
	if d.Clock != nil {
		opts = append(opts, repository.WithClock(d.Clock))
	}
	return repository.NewBuilder(d.Fs, d.Project, opts...)
}

// Result of a workflow
type Result struct {
	// Repository is the path of the repository document, removed once published
	Repository string
	Artifacts  []string
	Report     publish.Report
	// Split is the universe release directory, if any
	Split string
}

// Up publishes a development snapshot of the project to the store
func Up(ctx context.Context, deps Deps) (*Result, error) {
	b := deps.builder()
	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	return stage(ctx, deps, b, doc, publish.Internal(deps.Store, deps.Project.Name))
}

// ReleaseOptions are the coordinates of a release
type ReleaseOptions struct {
	Version        string
	ReleaseVersion int
	Bucket         string
	// UniversePath is an optional clone of a universe repository to add the release to
	UniversePath string
}

// Release publishes a versioned release of the project to a public bucket, with
// artifact URIs pointing at the bucket. When a universe clone is given and every
// artifact got published, the release is added to it.
func Release(ctx context.Context, deps Deps, opts ReleaseOptions) (*Result, error) {
	if opts.Version == "" {
		return nil, ErrReleaseOptions.Wrapf("missing package version")
	}
	if opts.Bucket == "" {
		return nil, ErrReleaseOptions.Wrapf("missing bucket")
	}
	if opts.ReleaseVersion < 0 {
		return nil, ErrReleaseOptions.Wrapf("release version must not be negative, got %d", opts.ReleaseVersion)
	}

	b := deps.builder(repository.WithVersion(opts.Version), repository.WithReleaseVersion(opts.ReleaseVersion))
	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	name := deps.Project.Name
	from := deps.Endpoints.InternalPrefix(name)
	to := model.PublicPrefix(opts.Bucket, name, opts.Version)
	n := repository.RewriteURIs(doc, from, to)
	deps.logger().Debug("rewrote artifact URIs", zap.Int("count", n), zap.String("from", from), zap.String("to", to))

	res, err := stage(ctx, deps, b, doc, publish.External(deps.Store, name, opts.Version))
	if err != nil || opts.UniversePath == "" {
		return res, err
	}
	dir, err := repository.Split(deps.Fs, doc, opts.UniversePath, opts.ReleaseVersion)
	if err != nil {
		return res, err
	}
	res.Split = dir
	return res, nil
}

// stage writes the repository document, publishes every artifact then removes the document
func stage(ctx context.Context, deps Deps, b *repository.Builder, doc *document.Object, target publish.Target) (_ *Result, err error) {
	res := &Result{Repository: b.Path()}
	defer func() {
		if rerr := b.Remove(); rerr != nil {
			deps.logger().Error("could not remove repository document", zap.String("path", res.Repository), zap.Error(rerr))
			err = multierr.Append(err, rerr)
		}
	}()

	if _, err = b.Write(doc); err != nil {
		return res, err
	}

	set, err := artifacts.NewCollector(deps.Fs, deps.Project, deps.logger()).Collect()
	if err != nil {
		return res, err
	}
	res.Artifacts = set.Paths()
	deps.logger().Debug("collected artifacts", zap.Strings("artifacts", res.Artifacts))

	res.Report, err = publish.New(deps.Fs, deps.logger()).Publish(ctx, target, res.Artifacts)
	return res, err
}
