package templates

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testValues = Values{
	Name:         "foo",
	Version:      "0.40.5-1.3.3",
	CLIDarwin:    "1111",
	CLILinux:     "2222",
	CLIWindows:   "3333",
	ArtifactsURL: "https://example.com/artifacts/0.40.5-1.3.3",
	InternalURL:  "http://minio.marathon.l4lb.thisdcos.directory:9000/artifacts/foo/",
}

func TestSets(t *testing.T) {
	expected := map[Kind][]string{
		Operator: {
			"svc.yml", "universe/package.json", "universe/marathon.json.mustache",
			"universe/config.json", "universe/resource.json",
		},
		Basic: {
			"cmd.sh", "universe/package.json", "universe/marathon.json.mustache",
			"universe/config.json", "universe/resource.json",
		},
		JavaScheduler: {
			"java/scheduler/build.gradle", "java/scheduler/settings.gradle",
			"java/scheduler/src/main/java/com/mesosphere/sdk/operator/scheduler/Main.java",
		},
		Tests: {
			"tests/__init__.py", "tests/config.py", "tests/conftest.py",
			"tests/test_overlay.py", "tests/test_sanity.py",
		},
	}
	assert.Equal(t, []Kind{Basic, JavaScheduler, Operator, Tests}, Kinds())

	for kind, paths := range expected {
		set, err := Set(kind)
		require.NoError(t, err)
		actual := make([]string, 0, len(set))
		for _, tpl := range set {
			actual = append(actual, tpl.Path)
		}
		assert.Equal(t, paths, actual, "kind %s", kind)
	}

	_, err := Set(Kind("cassandra"))
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestRenderAll(t *testing.T) {
	for _, kind := range Kinds() {
		set, err := Set(kind)
		require.NoError(t, err)
		for _, tpl := range set {
			out, err := tpl.Render(testValues)
			require.NoError(t, err, tpl.Name)

			if tpl.Raw {
				assert.Equal(t, tpl.Body, string(out), "%s is written verbatim", tpl.Name)
				continue
			}
			assert.NotContains(t, string(out), leftDelim+" ", "%s has unrendered actions", tpl.Name)
			if strings.HasSuffix(tpl.Path, ".json") {
				_, err := document.ParseObject(out)
				assert.NoError(t, err, "%s renders to a JSON object", tpl.Name)
			}
		}
	}
}

func TestOperatorPackage(t *testing.T) {
	out, err := Render("operator/package.json", testValues)
	require.NoError(t, err)
	pkg, err := document.ParseObject(out)
	require.NoError(t, err)

	name, _ := pkg.GetString("name")
	assert.Equal(t, "foo", name)
	tags, _ := pkg.Get("tags")
	assert.Equal(t, []interface{}{"0.40.5-1.3.3"}, tags)

	out, err = Render("basic/package.json", testValues)
	require.NoError(t, err)
	pkg, err = document.ParseObject(out)
	require.NoError(t, err)
	tags, _ = pkg.Get("tags")
	assert.Empty(t, tags)
}

func TestOperatorResource(t *testing.T) {
	out, err := Render("operator/resource.json", testValues)
	require.NoError(t, err)
	s := string(out)
	for _, sum := range []string{"1111", "2222", "3333"} {
		assert.Contains(t, s, `"value": "`+sum+`"`)
	}
	assert.Contains(t, s, `"svc-yml": "http://minio.marathon.l4lb.thisdcos.directory:9000/artifacts/foo/svc.yml"`)
	assert.Contains(t, s, `"url": "https://example.com/artifacts/0.40.5-1.3.3/dcos-service-cli-linux"`)
}

func TestJavaAndTests(t *testing.T) {
	out, err := Render("java-scheduler/build.gradle", testValues)
	require.NoError(t, err)
	assert.Contains(t, string(out), `dcosSDKVer = "0.40.5-1.3.3"`)
	assert.Contains(t, string(out), `"mesosphere:scheduler:${dcosSDKVer}"`)

	out, err = Render("tests/config.py", testValues)
	require.NoError(t, err)
	assert.Contains(t, string(out), "PACKAGE_NAME = 'foo'")

	out, err = Render("tests/__init__.py", testValues)
	require.NoError(t, err)
	assert.Empty(t, out)

	tpl, err := Lookup("basic/cmd.sh")
	require.NoError(t, err)
	assert.True(t, tpl.Executable)
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"operator/nope.json", "svc.yml", "", "foo/svc.yml"} {
		_, err := Lookup(name)
		assert.True(t, errors.Is(err, ErrUnknownTemplate), name)
	}
}

func TestMissingKey(t *testing.T) {
	tpl, err := Lookup("operator/svc.yml")
	require.NoError(t, err)

	_, err = tpl.Render(map[string]string{"Version": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRender))
}

func TestRenderLaunch(t *testing.T) {
	now := time.Date(2018, 7, 1, 12, 30, 15, 123456789, time.UTC)
	lv := NewLaunchValues(now)
	assert.Equal(t, "1530448215123", lv.TimeEpochMs)
	assert.Equal(t, "2018-07-01T12:30:15.123456", lv.TimeStr)

	for _, name := range []string{"operator/marathon.json.mustache", "basic/marathon.json.mustache"} {
		tpl, err := Lookup(name)
		require.NoError(t, err)
		require.True(t, tpl.Raw)

		s := string(RenderLaunch([]byte(tpl.Body), lv))
		assert.Contains(t, s, `"PACKAGE_BUILD_TIME_EPOCH_MS": "1530448215123"`)
		assert.Contains(t, s, `"PACKAGE_BUILD_TIME_STR": "2018-07-01T12:30:15.123456"`)
		assert.Contains(t, s, `"id": "{{service.name}}"`, "mustache markup passes through")
		assert.NotContains(t, s, "[[ .Time")
	}
}

func TestRenderLaunchOnlyTouchesPlaceholders(t *testing.T) {
	lv := NewLaunchValues(time.Date(2018, 7, 1, 12, 30, 15, 0, time.UTC))
	body := `{
  "id": "{{service.name}}",
  "cmd": "export JAVA_HOME=${JAVA_HOME%/}; echo 100% $PATH",
  "constraints": [["hostname", "UNIQUE"], ["zone", "GROUP_BY", "3"]],
  "labels": {"NOTE": "[[not a template]]", "EMPTY": "[[]]", "TIME": "[[.TimeStr]]"},
  "env": {"T": "[[ .TimeEpochMs ]]", "S": "[[ .TimeStr ]]", "U": "[[ .Unknown ]]"}
}`
	expected := strings.NewReplacer(
		"[[ .TimeEpochMs ]]", "1530448215000",
		"[[ .TimeStr ]]", "2018-07-01T12:30:15.000000",
	).Replace(body)

	assert.Equal(t, expected, string(RenderLaunch([]byte(body), lv)))
	assert.Equal(t, "[]", string(RenderLaunch([]byte("[]"), lv)))
}
