// Package upgrade moves a project to another SDK version
package upgrade

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileResult counts the replacements made in a file
type FileResult struct {
	Path         string
	Replacements int
}

// Result of an upgrade
type Result struct {
	From  string
	To    string
	Files []FileResult
}

// Total number of replacements
func (r Result) Total() int {
	n := 0
	for _, f := range r.Files {
		n += f.Replacements
	}
	return n
}

// Upgrader rewrites the SDK version recorded in a project
type Upgrader struct {
	fs       afero.Fs
	layout   model.Layout
	versions model.SupportedVersions
	logger   *zap.Logger
}

// Option configures an Upgrader
type Option func(*Upgrader)

// WithSupportedVersions overrides the SDK version allow-list
func WithSupportedVersions(v model.SupportedVersions) Option {
	return func(u *Upgrader) {
		u.versions = v
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(u *Upgrader) {
		u.logger = l
	}
}

// New upgrader for the project at layout
func New(fs afero.Fs, layout model.Layout, opts ...Option) *Upgrader {
	u := &Upgrader{
		fs:       fs,
		layout:   layout,
		versions: model.SDKVersions,
		logger:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(u)
	}
	return u
}

type pending struct {
	path string
	data []byte
	mode os.FileMode
	n    int
}

// Upgrade replaces the current SDK version with to, in the package and resource
// descriptors and in the scheduler build file when there is one.
//
// Descriptors are edited structurally: only JSON string values change. Nothing is
// written unless every file could be rewritten.
func (u *Upgrader) Upgrade(_ context.Context, to string) (*Result, error) {
	if err := u.versions.Check(to); err != nil {
		return nil, err
	}
	project, err := model.LoadProject(u.fs, u.layout)
	if err != nil {
		return nil, err
	}
	from := project.SDKVersion
	if from == "" {
		return nil, model.ErrDescriptor.Wrapf("%s: no sdk version tag, is this an operator package?", u.layout.PackageDescriptor())
	}
	result := &Result{From: from, To: to}
	if from == to {
		u.logger.Info("already at sdk version", zap.String("version", to))
		return result, nil
	}
	if model.CompareVersions(to, from) < 0 {
		u.logger.Warn("downgrading sdk version", zap.String("from", from), zap.String("to", to))
	}

	var changes []pending
	for _, p := range []string{u.layout.PackageDescriptor(), u.layout.ResourceDescriptor()} {
		change, err := u.descriptor(p, from, to)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	gradle, ok, err := u.buildGradle(from, to)
	if err != nil {
		return nil, err
	}
	if ok {
		changes = append(changes, gradle)
	}

	for _, c := range changes {
		if err := afero.WriteFile(u.fs, c.path, c.data, c.mode); err != nil {
			return nil, err
		}
		u.logger.Debug("upgraded", zap.String("file", c.path), zap.Int("replacements", c.n))
		result.Files = append(result.Files, FileResult{Path: c.path, Replacements: c.n})
	}
	return result, nil
}

func (u *Upgrader) descriptor(path, from, to string) (pending, error) {
	obj, err := model.ReadDescriptor(u.fs, path)
	if err != nil {
		return pending{}, err
	}
	_, n := document.RewriteStrings(obj, func(s string) (string, bool) {
		if !strings.Contains(s, from) {
			return s, false
		}
		return strings.ReplaceAll(s, from, to), true
	})
	data, err := document.Encode(obj)
	if err != nil {
		return pending{}, err
	}
	return pending{path: path, data: data, mode: 0644, n: n}, nil
}

// buildGradle rewrites the dcosSDKVer assignment of the scheduler build file, if any
func (u *Upgrader) buildGradle(from, to string) (pending, bool, error) {
	path := u.layout.BuildGradle()
	data, err := afero.ReadFile(u.fs, path)
	if os.IsNotExist(err) {
		return pending{}, false, nil
	}
	if err != nil {
		return pending{}, false, err
	}
	re := regexp.MustCompile(`(dcosSDKVer\s*=\s*["'])` + regexp.QuoteMeta(from) + `(["'])`)
	n := len(re.FindAllIndex(data, -1))
	out := re.ReplaceAll(data, []byte("${1}"+strings.ReplaceAll(to, "$", "$$")+"${2}"))
	return pending{path: path, data: out, mode: 0644, n: n}, true, nil
}
