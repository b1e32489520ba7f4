package repository

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	internalPrefix = "http://minio.marathon.l4lb.thisdcos.directory:9000/artifacts/foo/"
	publicPrefix   = "https://my-bucket.s3.amazonaws.com/foo/artifacts/1.0.0/"
)

var buildTime = time.Date(2018, 7, 1, 12, 30, 15, 123456000, time.UTC)

func setupProject(t testing.TB, fs afero.Fs) *model.Project {
	t.Helper()
	layout := model.NewLayout("/work/foo")
	files := map[string]string{
		layout.PackageDescriptor():  `{"packagingVersion": "4.0", "name": "foo", "version": "snapshot", "tags": ["0.40.5-1.3.3"]}`,
		layout.ConfigDescriptor():   `{"type": "object", "properties": {"service": {"type": "object"}}}`,
		layout.ResourceDescriptor(): `{"assets": {"uris": {"svc-yml": "` + internalPrefix + `svc.yml", "jre-tar-gz": "https://downloads.mesosphere.com/java/jre.tgz"}}}`,
		layout.MarathonTemplate():   `{"id": "{{service.name}}", "env": {"T": "[[ .TimeEpochMs ]]", "S": "[[ .TimeStr ]]"}}`,
	}
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
	project, err := model.LoadProject(fs, layout)
	require.NoError(t, err)
	return project
}

func clock() time.Time { return buildTime }

func TestBuildSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)

	repo, err := NewBuilder(fs, project, WithClock(clock)).Build()
	require.NoError(t, err)

	pkg, err := Package(repo)
	require.NoError(t, err)
	version, _ := pkg.GetString("version")
	assert.Equal(t, SnapshotVersion, version)
	release, _ := pkg.Get("releaseVersion")
	assert.Equal(t, 0, release)
	assert.Equal(t, []string{
		"packagingVersion", "name", "version", "tags", "releaseVersion", "config", "resource", "marathon",
	}, pkg.Keys())

	marathon, ok := pkg.GetObject("marathon")
	require.True(t, ok)
	encoded, ok := marathon.GetString("v2AppMustacheTemplate")
	require.True(t, ok)
	launch, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, `{"id": "{{service.name}}", "env": {"T": "1530448215123", "S": "2018-07-01T12:30:15.123456"}}`, string(launch))

	resource, _ := pkg.GetObject("resource")
	assets, _ := resource.GetObject("assets")
	uris, _ := assets.GetObject("uris")
	_, hasScheduler := uris.Get("scheduler-zip")
	assert.False(t, hasScheduler)
}

// a launch descriptor as users write them: marathon JSON is opaque apart from the build time
const marathonLaunch = `{
  "id": "{{service.name}}",
  "cmd": "export JAVA_HOME=$(ls -d $MESOS_SANDBOX/jdk*/jre/); export JAVA_HOME=${JAVA_HOME%/}; ./bootstrap",
  "constraints": [["hostname", "UNIQUE"], ["rack", "GROUP_BY", "2"]],
  "container": {"docker": {"parameters": [{"key": "label", "value": "[[x]]"}]}},
  {{#service.secret}}
  "secrets": {"s": {"source": "{{service.secret}}"}},
  {{/service.secret}}
  "env": {"PACKAGE_BUILD_TIME_EPOCH_MS": "[[ .TimeEpochMs ]]", "PACKAGE_BUILD_TIME_STR": "[[ .TimeStr ]]"}
}`

func TestBuildMarathonLaunch(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	require.NoError(t, afero.WriteFile(fs, project.Layout.MarathonTemplate(), []byte(marathonLaunch), 0644))

	repo, err := NewBuilder(fs, project, WithVersion("1.0.0"), WithReleaseVersion(1), WithClock(clock)).Build()
	require.NoError(t, err)

	expected := strings.NewReplacer(
		"[[ .TimeEpochMs ]]", "1530448215123",
		"[[ .TimeStr ]]", "2018-07-01T12:30:15.123456",
	).Replace(marathonLaunch)

	pkg, err := Package(repo)
	require.NoError(t, err)
	marathon, _ := pkg.GetObject("marathon")
	encoded, _ := marathon.GetString("v2AppMustacheTemplate")
	launch, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, expected, string(launch))

	require.NoError(t, fs.MkdirAll("/src/universe/repo/packages/F/foo", 0755))
	dir, err := Split(fs, repo, "/src/universe", 1)
	require.NoError(t, err)
	actual, err := ReadSplit(fs, dir)
	require.NoError(t, err)
	assert.Equal(t, expected, string(actual.Launch))
}

func TestBuildRelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)

	repo, err := NewBuilder(fs, project, WithVersion("1.0.0"), WithReleaseVersion(3)).Build()
	require.NoError(t, err)

	packages, _ := repo.Get("packages")
	require.Len(t, packages, 1)
	pkg, err := Package(repo)
	require.NoError(t, err)
	version, _ := pkg.GetString("version")
	assert.Equal(t, "1.0.0", version)
	release, _ := pkg.Get("releaseVersion")
	assert.Equal(t, 3, release)
}

func TestBuildWithScheduler(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	require.NoError(t, afero.WriteFile(fs, project.Layout.SchedulerDistribution(), []byte("zip"), 0644))

	repo, err := NewBuilder(fs, project).Build()
	require.NoError(t, err)
	pkg, _ := Package(repo)
	resource, _ := pkg.GetObject("resource")
	assets, _ := resource.GetObject("assets")
	uris, _ := assets.GetObject("uris")
	u, ok := uris.GetString("scheduler-zip")
	require.True(t, ok)
	assert.Equal(t, internalPrefix+"operator-scheduler.zip", u)
}

func TestBuildMissingDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	require.NoError(t, fs.Remove(project.Layout.ConfigDescriptor()))

	_, err := NewBuilder(fs, project).Build()
	assert.True(t, errors.Is(err, model.ErrDescriptor))
}

func TestWriteAndRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	b := NewBuilder(fs, project, WithClock(clock))

	repo, err := b.Build()
	require.NoError(t, err)
	p, err := b.Write(repo)
	require.NoError(t, err)
	assert.Equal(t, "/work/foo/universe/foo-repo.json", p)

	data, err := afero.ReadFile(fs, p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n    \"packages\": [\n        {\n"))
	back, err := document.ParseObject(data)
	require.NoError(t, err)
	_, err = Package(back)
	require.NoError(t, err)

	require.NoError(t, b.Remove())
	exists, _ := afero.Exists(fs, p)
	assert.False(t, exists)
	require.NoError(t, b.Remove(), "removing a missing document is fine")
}

func TestPackageShape(t *testing.T) {
	for _, input := range []string{`{}`, `{"packages": []}`, `{"packages": [{}, {}]}`, `{"packages": ["x"]}`} {
		repo, err := document.ParseObject([]byte(input))
		require.NoError(t, err)
		_, err = Package(repo)
		assert.True(t, errors.Is(err, ErrInvalidRepository), input)
	}
}

func TestRewriteURIs(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	repo, err := NewBuilder(fs, project).Build()
	require.NoError(t, err)

	n := RewriteURIs(repo, internalPrefix, publicPrefix)
	assert.Equal(t, 1, n)

	var internal, public int
	for _, s := range document.Strings(repo) {
		internal += strings.Count(s, internalPrefix)
		if strings.HasPrefix(s, publicPrefix) {
			public++
		}
	}
	assert.Zero(t, internal)
	assert.Equal(t, 1, public)
	assert.Contains(t, document.Strings(repo), publicPrefix+"svc.yml")

	assert.Zero(t, RewriteURIs(repo, "", publicPrefix))
}

func TestRewriteURIsOnlyPrefixes(t *testing.T) {
	repo, err := document.ParseObject([]byte(`{
		"` + internalPrefix + `": "x",
		"notes": "see ` + internalPrefix + `svc.yml",
		"list": ["` + internalPrefix + `a.zip"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, 1, RewriteURIs(repo, internalPrefix, publicPrefix))
	notes, _ := repo.GetString("notes")
	assert.Equal(t, "see "+internalPrefix+"svc.yml", notes)
	assert.Equal(t, internalPrefix, repo.Keys()[0])
}

func TestSplitRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	repo, err := NewBuilder(fs, project, WithVersion("1.0.0"), WithReleaseVersion(2), WithClock(clock)).Build()
	require.NoError(t, err)
	RewriteURIs(repo, internalPrefix, publicPrefix)

	universe := "/src/universe"
	require.NoError(t, fs.MkdirAll("/src/universe/repo/packages/F/foo/0", 0755))

	dir, err := Split(fs, repo, universe, 2)
	require.NoError(t, err)
	assert.Equal(t, "/src/universe/repo/packages/F/foo/2", dir)

	expected, err := Unpack(repo)
	require.NoError(t, err)
	actual, err := ReadSplit(fs, dir)
	require.NoError(t, err)

	assert.Equal(t, expected.Config, actual.Config)
	assert.Equal(t, expected.Resource, actual.Resource)
	assert.Equal(t, expected.Launch, actual.Launch)
	assert.Equal(t, expected.Package, actual.Package)
	assert.Equal(t, []string{"packagingVersion", "name", "version", "tags"}, actual.Package.Keys())

	// the source document is untouched
	pkg, _ := Package(repo)
	_, ok := pkg.Get("config")
	assert.True(t, ok)
}

func TestSplitLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := setupProject(t, fs)
	repo, err := NewBuilder(fs, project).Build()
	require.NoError(t, err)

	_, err = Split(fs, repo, "/src/universe", 1)
	assert.True(t, errors.Is(err, ErrUniverseLayout), "package folder must exist")

	require.NoError(t, fs.MkdirAll("/src/universe/repo/packages/F/foo/1", 0755))
	_, err = Split(fs, repo, "/src/universe", 1)
	assert.True(t, errors.Is(err, ErrUniverseLayout), "release folder must not exist")

	files, _ := afero.ReadDir(fs, "/src/universe/repo/packages/F/foo/1")
	assert.Empty(t, files)
}
