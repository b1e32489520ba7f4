package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portworx/dcosdev/pkg/checksum"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRoot    = "/work/foo"
	testVersion = "0.40.5-1.3.3"
)

var testSums = checksum.StaticSource{
	checksum.CLIDarwin:  "d4rw1n",
	checksum.CLILinux:   "l1nux",
	checksum.CLIWindows: "w1nd0ws",
	"bootstrap.zip":     "b00t",
}

type spySource struct {
	urls []string
	src  checksum.Source
}

func (s *spySource) Manifest(ctx context.Context, url string) (checksum.Manifest, error) {
	s.urls = append(s.urls, url)
	return s.src.Manifest(ctx, url)
}

// failingFs fails to open files with a given base name
type failingFs struct {
	afero.Fs
	failOn string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if filepath.Base(name) == f.failOn {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("disk full")}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func newScaffolder(fs afero.Fs, src checksum.Source) *Scaffolder {
	return New(fs, model.NewLayout(testRoot), WithChecksumSource(src), WithChecksumURL("https://example.com/artifacts"))
}

func listFiles(t testing.TB, fs afero.Fs) []string {
	t.Helper()
	var res []string
	require.NoError(t, afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			res = append(res, filepath.ToSlash(path))
		}
		return nil
	}))
	return res
}

func TestNewOperator(t *testing.T) {
	fs := afero.NewMemMapFs()
	spy := &spySource{src: testSums}

	written, err := newScaffolder(fs, spy).NewOperator(context.Background(), "foo", testVersion)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/artifacts/0.40.5-1.3.3/SHA256SUMS"}, spy.urls)

	expected := []string{
		"/work/foo/svc.yml",
		"/work/foo/universe/config.json",
		"/work/foo/universe/marathon.json.mustache",
		"/work/foo/universe/package.json",
		"/work/foo/universe/resource.json",
	}
	assert.ElementsMatch(t, expected, listFiles(t, fs))
	assert.Len(t, written, len(expected))

	project, err := model.LoadProject(fs, model.NewLayout(testRoot))
	require.NoError(t, err)
	assert.Equal(t, "foo", project.Name)
	assert.Equal(t, testVersion, project.SDKVersion)

	resource, err := afero.ReadFile(fs, "/work/foo/universe/resource.json")
	require.NoError(t, err)
	for _, sum := range []string{"d4rw1n", "l1nux", "w1nd0ws"} {
		assert.Contains(t, string(resource), sum)
	}
	assert.Contains(t, string(resource), "http://minio.marathon.l4lb.thisdcos.directory:9000/artifacts/foo/svc.yml")
	assert.Contains(t, string(resource), "https://example.com/artifacts/0.40.5-1.3.3/dcos-service-cli-darwin")

	marathon, err := afero.ReadFile(fs, "/work/foo/universe/marathon.json.mustache")
	require.NoError(t, err)
	assert.Contains(t, string(marathon), "[[ .TimeEpochMs ]]", "launch descriptor is rendered at build time")
}

func TestNewOperatorUnsupportedVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	spy := &spySource{src: testSums}

	_, err := newScaffolder(fs, spy).NewOperator(context.Background(), "foo", "0.30.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedSDKVersion))
	assert.Contains(t, err.Error(), "0.40.5-1.3.3")

	assert.Empty(t, spy.urls)
	assert.Empty(t, listFiles(t, fs))
	exists, _ := afero.DirExists(fs, testRoot)
	assert.False(t, exists)
}

func TestNewOperatorMissingChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := checksum.StaticSource{checksum.CLILinux: "l1nux"}

	_, err := newScaffolder(fs, src).NewOperator(context.Background(), "foo", testVersion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, checksum.ErrChecksumNotFound))
	assert.Empty(t, listFiles(t, fs))
}

func TestNewOperatorInvalidName(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := newScaffolder(fs, testSums).NewOperator(context.Background(), "foo/bar", testVersion)
	assert.True(t, errors.Is(err, model.ErrInvalidName))
	assert.Empty(t, listFiles(t, fs))
}

func TestNewOperatorRefusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/foo/svc.yml", []byte("mine"), 0644))

	_, err := newScaffolder(fs, testSums).NewOperator(context.Background(), "foo", testVersion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	assert.Equal(t, []string{"/work/foo/svc.yml"}, listFiles(t, fs))
	data, _ := afero.ReadFile(fs, "/work/foo/svc.yml")
	assert.Equal(t, "mine", string(data))
}

func TestNewOperatorRollback(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/work", 0755))
	fs := failingFs{Fs: mem, failOn: "resource.json"}

	_, err := newScaffolder(fs, testSums).NewOperator(context.Background(), "foo", testVersion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Empty(t, listFiles(t, mem))
	exists, _ := afero.DirExists(mem, testRoot)
	assert.False(t, exists, "directories created by the failed operation are removed")
	exists, _ = afero.DirExists(mem, "/work")
	assert.True(t, exists, "pre-existing directories are kept")
}

func TestNewBasic(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := newScaffolder(fs, nil).NewBasic(context.Background(), "bar")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/work/foo/cmd.sh",
		"/work/foo/universe/config.json",
		"/work/foo/universe/marathon.json.mustache",
		"/work/foo/universe/package.json",
		"/work/foo/universe/resource.json",
	}, listFiles(t, fs))

	info, err := fs.Stat("/work/foo/cmd.sh")
	require.NoError(t, err)
	assert.Equal(t, execMode, info.Mode().Perm())

	project, err := model.LoadProject(fs, model.NewLayout(testRoot))
	require.NoError(t, err)
	assert.Equal(t, "bar", project.Name)
	assert.Empty(t, project.SDKVersion)

	resource, _ := afero.ReadFile(fs, "/work/foo/universe/resource.json")
	assert.Contains(t, string(resource), "http://minio.marathon.l4lb.thisdcos.directory:9000/artifacts/bar/cmd.sh")
}

func TestAddJavaScheduler(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newScaffolder(fs, testSums)

	_, err := s.AddJavaScheduler(context.Background())
	assert.True(t, errors.Is(err, model.ErrDescriptor), "needs a project")

	_, err = s.NewOperator(context.Background(), "foo", testVersion)
	require.NoError(t, err)

	written, err := s.AddJavaScheduler(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work/foo/java/scheduler/build.gradle",
		"/work/foo/java/scheduler/settings.gradle",
		"/work/foo/java/scheduler/src/main/java/com/mesosphere/sdk/operator/scheduler/Main.java",
	}, written)

	gradle, err := afero.ReadFile(fs, model.NewLayout(testRoot).BuildGradle())
	require.NoError(t, err)
	assert.Contains(t, string(gradle), `dcosSDKVer = "0.40.5-1.3.3"`)

	_, err = s.AddJavaScheduler(context.Background())
	assert.True(t, errors.Is(err, status.ErrExists))
}

func TestAddJavaSchedulerToBasic(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newScaffolder(fs, nil)
	_, err := s.NewBasic(context.Background(), "bar")
	require.NoError(t, err)

	_, err = s.AddJavaScheduler(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDescriptor))
	for _, f := range listFiles(t, fs) {
		assert.False(t, strings.Contains(f, "/java/"))
	}
}

func TestAddTests(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newScaffolder(fs, testSums)
	_, err := s.NewOperator(context.Background(), "foo", testVersion)
	require.NoError(t, err)

	written, err := s.AddTests(context.Background())
	require.NoError(t, err)
	assert.Len(t, written, 5)

	cfg, err := afero.ReadFile(fs, "/work/foo/tests/config.py")
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "PACKAGE_NAME = 'foo'")

	initPy, err := afero.ReadFile(fs, "/work/foo/tests/__init__.py")
	require.NoError(t, err)
	assert.Empty(t, initPy)
}
