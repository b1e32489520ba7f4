// Package artifacts lists the files of a project which get published
package artifacts

import (
	"path/filepath"

	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Set is an ordered list of file paths without duplicates
type Set struct {
	paths []string
	seen  map[string]struct{}
}

// NewSet builds a set from paths, dropping duplicates
func NewSet(paths ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add a path, reporting whether it was new
func (s *Set) Add(p string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	p = filepath.Clean(p)
	if _, ok := s.seen[p]; ok {
		return false
	}
	s.seen[p] = struct{}{}
	s.paths = append(s.paths, p)
	return true
}

// Paths in insertion order
func (s *Set) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Len is the number of paths
func (s *Set) Len() int {
	return len(s.paths)
}

// Collector gathers publishable files
type Collector struct {
	fs      afero.Fs
	project *model.Project
	logger  *zap.Logger
}

// NewCollector for a project. A nil logger disables logging.
func NewCollector(fs afero.Fs, project *model.Project, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{fs: fs, project: project, logger: logger}
}

// Collect returns every regular file at the project root, the repository document,
// then the build distributions of every java sub-project.
func (c *Collector) Collect() (*Set, error) {
	layout := c.project.Layout
	set := NewSet()

	rootFiles, err := c.files(layout.Root)
	if err != nil {
		return nil, err
	}
	for _, f := range rootFiles {
		set.Add(f)
	}
	set.Add(layout.RepositoryDocument(c.project.Name))

	hasJava, err := afero.DirExists(c.fs, layout.Java())
	if err != nil {
		return nil, err
	}
	if !hasJava {
		return set, nil
	}
	projects, err := afero.ReadDir(c.fs, layout.Java())
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		dists := layout.Distributions(p.Name())
		ok, err := afero.DirExists(c.fs, dists)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.logger.Debug("no distributions, skipping", zap.String("project", p.Name()))
			continue
		}
		distFiles, err := c.files(dists)
		if err != nil {
			return nil, err
		}
		for _, f := range distFiles {
			set.Add(f)
		}
	}
	return set, nil
}

// files lists the regular files of a directory, sorted by name
func (c *Collector) files(dir string) ([]string, error) {
	infos, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		res = append(res, filepath.Join(dir, info.Name()))
	}
	return res, nil
}
