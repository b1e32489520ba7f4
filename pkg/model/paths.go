package model

import (
	"path/filepath"
)

const (
	// UniverseDir holds the package descriptors
	UniverseDir = "universe"

	// JavaDir holds gradle sub-projects
	JavaDir = "java"

	// TestsDir holds the integration test suite
	TestsDir = "tests"

	// SchedulerProject is the java sub-project created by "operator add java-scheduler"
	SchedulerProject = "scheduler"

	// SchedulerDistribution is the archive produced by building the scheduler sub-project
	SchedulerDistribution = "operator-scheduler.zip"

	// PackageFile is the package descriptor
	PackageFile = "package.json"
	// ConfigFile is the configuration schema descriptor
	ConfigFile = "config.json"
	// ResourceFile is the resource descriptor
	ResourceFile = "resource.json"
	// MarathonFile is the launch descriptor template
	MarathonFile = "marathon.json.mustache"

	repoSuffix       = "-repo.json"
	distributionsDir = "build/distributions"
)

// Layout resolves the files of a project. Every path is rooted at Root.
type Layout struct {
	Root string
}

// NewLayout builds a layout rooted at dir
func NewLayout(dir string) Layout {
	return Layout{Root: filepath.Clean(dir)}
}

// Path joins elements to the root
func (l Layout) Path(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// Universe is the directory holding package descriptors
func (l Layout) Universe() string { return l.Path(UniverseDir) }

// PackageDescriptor is universe/package.json
func (l Layout) PackageDescriptor() string { return l.Path(UniverseDir, PackageFile) }

// ConfigDescriptor is universe/config.json
func (l Layout) ConfigDescriptor() string { return l.Path(UniverseDir, ConfigFile) }

// ResourceDescriptor is universe/resource.json
func (l Layout) ResourceDescriptor() string { return l.Path(UniverseDir, ResourceFile) }

// MarathonTemplate is universe/marathon.json.mustache
func (l Layout) MarathonTemplate() string { return l.Path(UniverseDir, MarathonFile) }

// RepositoryDocument is the transient aggregate document universe/<name>-repo.json
func (l Layout) RepositoryDocument(name string) string {
	return l.Path(UniverseDir, RepositoryDocumentName(name))
}

// Java is the directory holding gradle sub-projects
func (l Layout) Java() string { return l.Path(JavaDir) }

// Distributions is the build output directory of a java sub-project
func (l Layout) Distributions(project string) string {
	return l.Path(JavaDir, project, filepath.FromSlash(distributionsDir))
}

// SchedulerDistribution is the prebuilt scheduler archive, present once "build java" ran
func (l Layout) SchedulerDistribution() string {
	return filepath.Join(l.Distributions(SchedulerProject), SchedulerDistribution)
}

// BuildGradle is the build file of the scheduler sub-project
func (l Layout) BuildGradle() string { return l.Path(JavaDir, SchedulerProject, "build.gradle") }

// Tests is the integration test directory
func (l Layout) Tests() string { return l.Path(TestsDir) }

// RepositoryDocumentName is the base name of the aggregate document for a package
func RepositoryDocumentName(name string) string {
	return name + repoSuffix
}

// UniverseDescriptorFiles are the base names written by a release split, in write order
func UniverseDescriptorFiles() []string {
	return []string{ConfigFile, ResourceFile, MarathonFile, PackageFile}
}
