package scaffold

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/portworx/dcosdev/pkg/checksum"
	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/errors"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/templates"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrInvalidDescriptor is returned when a rendered descriptor is not a JSON object
var ErrInvalidDescriptor = errors.New("rendered descriptor is not a valid JSON object")

// Scaffolder writes template sets into a project
type Scaffolder struct {
	fs          afero.Fs
	layout      model.Layout
	logger      *zap.Logger
	versions    model.SupportedVersions
	checksums   checksum.Source
	checksumURL string
	endpoints   model.Endpoints
}

// Option configures a Scaffolder
type Option func(*Scaffolder)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scaffolder) {
		s.logger = l
	}
}

// WithSupportedVersions overrides the SDK version allow-list
func WithSupportedVersions(v model.SupportedVersions) Option {
	return func(s *Scaffolder) {
		s.versions = v
	}
}

// WithChecksumSource sets where checksum manifests come from
func WithChecksumSource(src checksum.Source) Option {
	return func(s *Scaffolder) {
		s.checksums = src
	}
}

// WithChecksumURL sets the base URL of SDK artifacts
func WithChecksumURL(u string) Option {
	return func(s *Scaffolder) {
		s.checksumURL = u
	}
}

// WithEndpoints sets the object store endpoints artifacts are referenced from
func WithEndpoints(e model.Endpoints) Option {
	return func(s *Scaffolder) {
		s.endpoints = e
	}
}

// New scaffolder for the project rooted at layout
func New(fs afero.Fs, layout model.Layout, opts ...Option) *Scaffolder {
	s := &Scaffolder{
		fs:          fs,
		layout:      layout,
		logger:      zap.NewNop(),
		versions:    model.SDKVersions,
		checksumURL: model.DefaultChecksumURL,
		endpoints:   model.DefaultEndpoints(""),
	}
	for _, apply := range opts {
		apply(s)
	}
	if s.checksums == nil {
		s.checksums = checksum.NewHTTPSource()
	}
	return s
}

// NewOperator creates an SDK operator package named name, built against sdkVersion.
//
// The version is checked against the allow-list before anything else happens.
func (s *Scaffolder) NewOperator(ctx context.Context, name, sdkVersion string) ([]string, error) {
	if err := s.versions.Check(sdkVersion); err != nil {
		return nil, err
	}
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}

	manifestURL := model.ChecksumManifestURL(s.checksumURL, sdkVersion)
	s.logger.Debug("fetching cli checksums", zap.String("url", manifestURL))
	manifest, err := s.checksums.Manifest(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	sums, err := manifest.Lookup(checksum.CLINames()...)
	if err != nil {
		return nil, fmt.Errorf("sdk %s: %w", sdkVersion, err)
	}

	return s.scaffold(templates.Operator, templates.Values{
		Name:         name,
		Version:      sdkVersion,
		CLIDarwin:    sums[checksum.CLIDarwin],
		CLILinux:     sums[checksum.CLILinux],
		CLIWindows:   sums[checksum.CLIWindows],
		ArtifactsURL: model.SDKArtifactsURL(s.checksumURL, sdkVersion),
		InternalURL:  s.endpoints.InternalPrefix(name),
	})
}

// NewBasic creates a plain marathon package named name
func (s *Scaffolder) NewBasic(_ context.Context, name string) ([]string, error) {
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	return s.scaffold(templates.Basic, templates.Values{
		Name:        name,
		InternalURL: s.endpoints.InternalPrefix(name),
	})
}

// AddJavaScheduler adds a custom java scheduler sub-project, built against the project's SDK version
func (s *Scaffolder) AddJavaScheduler(_ context.Context) ([]string, error) {
	project, err := model.LoadProject(s.fs, s.layout)
	if err != nil {
		return nil, err
	}
	if project.SDKVersion == "" {
		return nil, model.ErrDescriptor.Wrapf("%s: no sdk version tag, is this an operator package?", s.layout.PackageDescriptor())
	}
	return s.scaffold(templates.JavaScheduler, templates.Values{
		Name:    project.Name,
		Version: project.SDKVersion,
	})
}

// AddTests adds the integration test suite
func (s *Scaffolder) AddTests(_ context.Context) ([]string, error) {
	project, err := model.LoadProject(s.fs, s.layout)
	if err != nil {
		return nil, err
	}
	return s.scaffold(templates.Tests, templates.Values{
		Name:    project.Name,
		Version: project.SDKVersion,
	})
}

func (s *Scaffolder) scaffold(kind templates.Kind, values templates.Values) ([]string, error) {
	set, err := templates.Set(kind)
	if err != nil {
		return nil, err
	}
	files := make([]file, 0, len(set))
	for _, tpl := range set {
		data, err := tpl.Render(values)
		if err != nil {
			return nil, err
		}
		if !tpl.Raw && strings.HasSuffix(tpl.Path, ".json") {
			if _, err := document.ParseObject(data); err != nil {
				return nil, ErrInvalidDescriptor.Wrap(fmt.Errorf("%s: %w", tpl.Name, err))
			}
		}
		f := file{
			path: s.layout.Path(filepath.FromSlash(tpl.Path)),
			data: data,
			mode: fileMode,
		}
		if tpl.Executable {
			f.mode = execMode
		}
		files = append(files, f)
	}

	if err := s.write(files); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		s.logger.Info("created", zap.String("file", f.path))
		written = append(written, f.path)
	}
	return written, nil
}
