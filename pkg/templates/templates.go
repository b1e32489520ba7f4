// Package templates holds the file templates scaffolded into a new package project.
//
// Templates use [[ ]] as action delimiters so that the mustache {{ }} markup of
// DC/OS package descriptors passes through untouched.
package templates

import (
	"bytes"
	"embed"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/portworx/dcosdev/pkg/errors"
)

//go:embed all:files
var files embed.FS

const (
	leftDelim  = "[["
	rightDelim = "]]"

	// TimeFormat is the layout of the build time placeholder of launch descriptors
	TimeFormat = "2006-01-02T15:04:05.000000"

	// Build time placeholders of launch descriptors. Nothing else in a launch
	// descriptor is interpreted: marathon JSON may hold [[ ]] of its own.
	TimeEpochMsPlaceholder = "[[ .TimeEpochMs ]]"
	TimeStrPlaceholder     = "[[ .TimeStr ]]"
)

var (
	// ErrUnknownTemplate is returned when looking up a template or template set that does not exist
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrRender is returned when a template fails to render
	ErrRender = errors.New("cannot render template")
)

// Kind of template set
type Kind string

// Template sets
const (
	Operator      Kind = "operator"
	Basic         Kind = "basic"
	JavaScheduler Kind = "java-scheduler"
	Tests         Kind = "tests"
)

// Template is a file to scaffold
type Template struct {
	// Name is <kind>/<base name>
	Name string
	// Path is where the rendered file goes, relative to the project root, with forward slashes
	Path string
	Body string
	// Raw templates are written verbatim: they are rendered later, at build time
	Raw        bool
	Executable bool
}

// Values fill in scaffolded templates
type Values struct {
	Name         string
	Version      string
	CLIDarwin    string
	CLILinux     string
	CLIWindows   string
	ArtifactsURL string
	InternalURL  string
}

// LaunchValues fill in launch descriptors at build time
type LaunchValues struct {
	TimeEpochMs string
	TimeStr     string
}

// NewLaunchValues captures a build time
func NewLaunchValues(t time.Time) LaunchValues {
	return LaunchValues{
		TimeEpochMs: strconv.FormatInt(t.UnixNano()/int64(time.Millisecond), 10),
		TimeStr:     t.UTC().Format(TimeFormat),
	}
}

type entry struct {
	file       string
	target     string
	raw        bool
	executable bool
}

const schedulerSources = "java/scheduler/src/main/java/com/mesosphere/sdk/operator/scheduler/"

var sets = map[Kind][]entry{
	Operator: {
		{file: "svc.yml", target: "svc.yml"},
		{file: "package.json", target: "universe/package.json"},
		{file: "marathon.json.mustache", target: "universe/marathon.json.mustache", raw: true},
		{file: "config.json", target: "universe/config.json"},
		{file: "resource.json", target: "universe/resource.json"},
	},
	Basic: {
		{file: "cmd.sh", target: "cmd.sh", executable: true},
		{file: "package.json", target: "universe/package.json"},
		{file: "marathon.json.mustache", target: "universe/marathon.json.mustache", raw: true},
		{file: "config.json", target: "universe/config.json"},
		{file: "resource.json", target: "universe/resource.json"},
	},
	JavaScheduler: {
		{file: "build.gradle", target: "java/scheduler/build.gradle"},
		{file: "settings.gradle", target: "java/scheduler/settings.gradle"},
		{file: "Main.java", target: schedulerSources + "Main.java"},
	},
	Tests: {
		{file: "__init__.py", target: "tests/__init__.py"},
		{file: "config.py", target: "tests/config.py"},
		{file: "conftest.py", target: "tests/conftest.py"},
		{file: "test_overlay.py", target: "tests/test_overlay.py"},
		{file: "test_sanity.py", target: "tests/test_sanity.py"},
	},
}

// Kinds lists the template sets
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(sets))
	for k := range sets {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Set returns the templates of a set, in write order
func Set(kind Kind) ([]Template, error) {
	entries, ok := sets[kind]
	if !ok {
		return nil, ErrUnknownTemplate.Wrapf("no template set %q", kind)
	}
	res := make([]Template, 0, len(entries))
	for _, e := range entries {
		t, err := load(kind, e)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// Lookup a template by name, e.g. "operator/svc.yml"
func Lookup(name string) (Template, error) {
	kind, base := path.Split(name)
	entries := sets[Kind(path.Clean(kind))]
	for _, e := range entries {
		if e.file == base {
			return load(Kind(path.Clean(kind)), e)
		}
	}
	return Template{}, ErrUnknownTemplate.Wrapf("%q", name)
}

// Render a template by name. Raw templates are returned as is.
func Render(name string, values Values) ([]byte, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.Render(values)
}

// Render the template with values. Raw templates are returned as is.
func (t Template) Render(values interface{}) ([]byte, error) {
	if t.Raw {
		return []byte(t.Body), nil
	}
	return execute(t.Name, t.Body, values)
}

// RenderLaunch substitutes the build time placeholders of a launch descriptor
func RenderLaunch(body []byte, values LaunchValues) []byte {
	r := strings.NewReplacer(
		TimeEpochMsPlaceholder, values.TimeEpochMs,
		TimeStrPlaceholder, values.TimeStr,
	)
	return []byte(r.Replace(string(body)))
}

func execute(name, body string, values interface{}) ([]byte, error) {
	tpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Parse(body)
	if err != nil {
		return nil, ErrRender.Wrap(err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, values); err != nil {
		return nil, ErrRender.Wrap(err)
	}
	return buf.Bytes(), nil
}

func load(kind Kind, e entry) (Template, error) {
	body, err := files.ReadFile(path.Join("files", string(kind), e.file+".tmpl"))
	if err != nil {
		return Template{}, ErrUnknownTemplate.Wrap(err)
	}
	return Template{
		Name:       path.Join(string(kind), e.file),
		Path:       e.target,
		Body:       string(body),
		Raw:        e.raw,
		Executable: e.executable,
	}, nil
}
