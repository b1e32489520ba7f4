// Package runner builds java sub-projects and runs the integration test suite in containers
package runner

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/portworx/dcosdev/pkg/container"
	"github.com/portworx/dcosdev/pkg/errors"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultBuildImage is the gradle toolchain image
	DefaultBuildImage = "gradle:4.8.0-jdk8"

	// DefaultTestImage is the test harness image repository. Tags are SDK versions.
	DefaultTestImage = "realmbgl/dcos-commons"

	// DefaultUsername is the cluster login used by tests
	DefaultUsername = "bootstrapuser"

	// DefaultPassword is the cluster password used by tests
	DefaultPassword = "deleteme"

	gradleProject = "/home/gradle/project"
	testWorkdir   = "/build"
	testSuite     = "/dcos-commons-dist/tests"
	gradleCache   = "/root/.gradle"
	pytestArgs    = `-m "sanity and not azure"`
)

var (
	// ErrContainerFailed is returned when a build or test container exits with a non-zero status
	ErrContainerFailed = errors.New("container exited with a non-zero status")

	// ErrNoProjects is returned when there is nothing to build
	ErrNoProjects = errors.New("no java projects")
)

// Runner runs project containers
type Runner struct {
	fs         afero.Fs
	runtime    container.Runtime
	project    *model.Project
	hostPath   string
	buildImage string
	testImage  string
	logger     *zap.Logger
	out        io.Writer
	progress   func(string)
}

// Option configures a Runner
type Option func(*Runner)

// WithHostPath sets the project path as seen by the container engine, when it differs from the project root
func WithHostPath(p string) Option {
	return func(r *Runner) {
		if p != "" {
			r.hostPath = p
		}
	}
}

// WithBuildImage overrides the build image
func WithBuildImage(image string) Option {
	return func(r *Runner) {
		if image != "" {
			r.buildImage = image
		}
	}
}

// WithTestImage overrides the test image repository
func WithTestImage(image string) Option {
	return func(r *Runner) {
		if image != "" {
			r.testImage = image
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithOutput sets where container output goes
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithProgress sets a callback announcing each container run
func WithProgress(fn func(string)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// New runner for a project
func New(fs afero.Fs, runtime container.Runtime, project *model.Project, opts ...Option) *Runner {
	r := &Runner{
		fs:         fs,
		runtime:    runtime,
		project:    project,
		hostPath:   project.Layout.Root,
		buildImage: DefaultBuildImage,
		testImage:  DefaultTestImage,
		logger:     zap.NewNop(),
		out:        ioutil.Discard,
		progress:   func(string) {},
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// BuildSpec is the gradle container of a java sub-project
func (r *Runner) BuildSpec(project string) container.Spec {
	return container.Spec{
		Purpose:    "build",
		Image:      r.buildImage,
		Cmd:        []string{"gradle", "-s", "check", "distZip"},
		User:       "root",
		WorkingDir: gradleProject,
		Mounts: []container.Mount{
			{Source: filepath.Join(r.hostPath, model.JavaDir, project), Target: gradleProject},
		},
	}
}

// BuildJava builds every java sub-project, in name order. It stops at the first failure.
func (r *Runner) BuildJava(ctx context.Context) ([]string, error) {
	projects, err := r.javaProjects()
	if err != nil {
		return nil, err
	}
	built := make([]string, 0, len(projects))
	for _, p := range projects {
		r.progress(fmt.Sprintf("gradle build starting for %s", p))
		if err := r.run(ctx, r.BuildSpec(p)); err != nil {
			return built, fmt.Errorf("building %s: %w", p, err)
		}
		built = append(built, p)
	}
	return built, nil
}

func (r *Runner) javaProjects() ([]string, error) {
	infos, err := afero.ReadDir(r.fs, r.project.Layout.Java())
	if err != nil {
		return nil, ErrNoProjects.Wrap(err)
	}
	var projects []string
	for _, info := range infos {
		if info.IsDir() {
			projects = append(projects, info.Name())
		}
	}
	if len(projects) == 0 {
		return nil, ErrNoProjects.Wrapf("%s is empty", r.project.Layout.Java())
	}
	return projects, nil
}

// TestOptions tell which cluster to test against
type TestOptions struct {
	ClusterURL      string
	Strict          bool
	Username        string
	Password        string
	StubUniverseURL string
}

// TestSpec is the test harness container
func (r *Runner) TestSpec(opts TestOptions) (container.Spec, error) {
	if r.project.SDKVersion == "" {
		return container.Spec{}, model.ErrDescriptor.Wrapf("%s: no sdk version tag, cannot pick a test image", r.project.Layout.PackageDescriptor())
	}
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	security := ""
	if opts.Strict {
		security = "strict"
	}
	host := filepath.Clean(r.hostPath)
	return container.Spec{
		Purpose:    "test",
		Image:      r.testImage + ":" + r.project.SDKVersion,
		Cmd:        []string{"bash", "/build-tools/test_runner.sh", "/dcos-commons-dist"},
		WorkingDir: testWorkdir,
		Mounts: []container.Mount{
			{Source: host, Target: testWorkdir},
			{Source: filepath.Join(host, model.TestsDir), Target: testSuite},
			{Source: host + ".gradle_cache", Target: gradleCache},
		},
		Env: []string{
			"DCOS_ENTERPRISE=true",
			"SECURITY=" + security,
			"DCOS_LOGIN_USERNAME=" + opts.Username,
			"DCOS_LOGIN_PASSWORD=" + opts.Password,
			"CLUSTER_URL=" + opts.ClusterURL,
			"STUB_UNIVERSE_URL=" + opts.StubUniverseURL,
			"FRAMEWORK=" + r.project.Name,
			"PYTEST_ARGS=" + pytestArgs,
		},
	}, nil
}

// Test runs the integration test suite against a cluster
func (r *Runner) Test(ctx context.Context, opts TestOptions) error {
	spec, err := r.TestSpec(opts)
	if err != nil {
		return err
	}
	r.progress("tests starting ...")
	return r.run(ctx, spec)
}

func (r *Runner) run(ctx context.Context, spec container.Spec) error {
	r.logger.Debug("running container",
		zap.String("image", spec.Image),
		zap.Strings("cmd", spec.Cmd),
		zap.Strings("binds", spec.Binds()))

	code, err := r.runtime.Run(ctx, spec, r.out)
	if err != nil {
		return err
	}
	if code != 0 {
		return ErrContainerFailed.Wrapf("%s exited with status %d", spec.Image, code)
	}
	return nil
}
