// Package repository assembles the package repository document served to the
// cluster, and splits released documents into a universe repository layout.
package repository

import (
	"encoding/base64"
	"os"
	"time"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/errors"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/templates"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// SnapshotVersion is the package version of development builds
	SnapshotVersion = "snapshot"

	launchKey = "v2AppMustacheTemplate"
)

var (
	// ErrInvalidRepository is returned when a repository document does not hold exactly one package
	ErrInvalidRepository = errors.New("invalid repository document")

	// ErrUniverseLayout is returned when a universe clone cannot receive a release
	ErrUniverseLayout = errors.New("unexpected universe layout")
)

// Builder assembles the repository document of a project
type Builder struct {
	fs             afero.Fs
	project        *model.Project
	logger         *zap.Logger
	endpoints      model.Endpoints
	version        string
	releaseVersion int
	now            func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithVersion sets the package version. Defaults to "snapshot".
func WithVersion(v string) Option {
	return func(b *Builder) {
		b.version = v
	}
}

// WithReleaseVersion sets the release counter. Defaults to 0.
func WithReleaseVersion(n int) Option {
	return func(b *Builder) {
		b.releaseVersion = n
	}
}

// WithClock sets the source of the build time
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithEndpoints sets where the cluster fetches artifacts from
func WithEndpoints(e model.Endpoints) Option {
	return func(b *Builder) {
		b.endpoints = e
	}
}

// NewBuilder for a project
func NewBuilder(fs afero.Fs, project *model.Project, opts ...Option) *Builder {
	b := &Builder{
		fs:        fs,
		project:   project,
		logger:    zap.NewNop(),
		endpoints: model.DefaultEndpoints(""),
		version:   SnapshotVersion,
		now:       time.Now,
	}
	for _, apply := range opts {
		apply(b)
	}
	return b
}

// Build a repository document with a single package, from the project descriptors
func (b *Builder) Build() (*document.Object, error) {
	layout := b.project.Layout

	pkg, err := model.ReadDescriptor(b.fs, layout.PackageDescriptor())
	if err != nil {
		return nil, err
	}
	config, err := model.ReadDescriptor(b.fs, layout.ConfigDescriptor())
	if err != nil {
		return nil, err
	}
	resource, err := model.ReadDescriptor(b.fs, layout.ResourceDescriptor())
	if err != nil {
		return nil, err
	}
	body, err := afero.ReadFile(b.fs, layout.MarathonTemplate())
	if err != nil {
		return nil, model.ErrDescriptor.Wrap(err)
	}
	launch := templates.RenderLaunch(body, templates.NewLaunchValues(b.now()))

	hasScheduler, err := afero.Exists(b.fs, layout.SchedulerDistribution())
	if err != nil {
		return nil, err
	}
	if hasScheduler {
		u := b.endpoints.InternalURL(b.project.Name, model.SchedulerDistribution)
		if err := resource.SetPath(u, "assets", "uris", "scheduler-zip"); err != nil {
			return nil, err
		}
		b.logger.Debug("using prebuilt scheduler", zap.String("uri", u))
	}

	marathon := document.NewObject()
	marathon.Set(launchKey, base64.StdEncoding.EncodeToString(launch))

	pkg.Set("version", b.version)
	pkg.Set("releaseVersion", b.releaseVersion)
	pkg.Set("config", config)
	pkg.Set("resource", resource)
	pkg.Set("marathon", marathon)

	repo := document.NewObject()
	repo.Set("packages", []interface{}{pkg})
	return repo, nil
}

// Path of the repository document
func (b *Builder) Path() string {
	return b.project.Layout.RepositoryDocument(b.project.Name)
}

// Write the repository document
func (b *Builder) Write(repo *document.Object) (string, error) {
	p := b.Path()
	if err := model.WriteDescriptor(b.fs, p, repo); err != nil {
		return "", err
	}
	b.logger.Debug("wrote repository document", zap.String("path", p))
	return p, nil
}

// Remove the repository document. A missing document is not an error.
func (b *Builder) Remove() error {
	err := b.fs.Remove(b.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Package returns the single package of a repository document
func Package(repo *document.Object) (*document.Object, error) {
	v, ok := repo.Get("packages")
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("no packages")
	}
	list, ok := v.([]interface{})
	if !ok || len(list) != 1 {
		return nil, ErrInvalidRepository.Wrapf("expected exactly one package")
	}
	pkg, ok := list[0].(*document.Object)
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("package is not an object")
	}
	return pkg, nil
}
