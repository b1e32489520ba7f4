package repository

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/afero"
)

// Release is a package unpacked into the files of a universe release directory
type Release struct {
	Package  *document.Object
	Config   *document.Object
	Resource *document.Object
	Launch   []byte
}

// Unpack a repository document. The document is left untouched.
func Unpack(repo *document.Object) (*Release, error) {
	p, err := Package(repo)
	if err != nil {
		return nil, err
	}
	pkg := p.Clone()

	config, ok := pkg.GetObject("config")
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("package has no config")
	}
	resource, ok := pkg.GetObject("resource")
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("package has no resource")
	}
	marathon, ok := pkg.GetObject("marathon")
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("package has no marathon")
	}
	encoded, ok := marathon.GetString(launchKey)
	if !ok {
		return nil, ErrInvalidRepository.Wrapf("package has no %s", launchKey)
	}
	launch, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidRepository.Wrap(err)
	}

	for _, k := range []string{"config", "resource", "marathon", "releaseVersion"} {
		pkg.Delete(k)
	}
	return &Release{
		Package:  pkg,
		Config:   config,
		Resource: resource,
		Launch:   launch,
	}, nil
}

// Split writes a released repository document into <universe>/repo/packages/<L>/<name>/<release>/.
//
// The package directory must exist and the release directory must not.
func Split(fs afero.Fs, repo *document.Object, universe string, release int) (string, error) {
	r, err := Unpack(repo)
	if err != nil {
		return "", err
	}
	name, ok := r.Package.GetString("name")
	if !ok || name == "" {
		return "", ErrInvalidRepository.Wrapf("package has no name")
	}

	packageDir := model.UniversePackageDir(universe, name)
	isDir, err := afero.DirExists(fs, packageDir)
	if err != nil {
		return "", err
	}
	if !isDir {
		return "", ErrUniverseLayout.Wrapf("package folder %s does not exist", packageDir)
	}
	dir := filepath.Join(packageDir, strconv.Itoa(release))
	exists, err := afero.Exists(fs, dir)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUniverseLayout.Wrapf("release version folder %s exists already", dir)
	}

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	for _, f := range model.UniverseDescriptorFiles() {
		if err := r.write(fs, filepath.Join(dir, f), f); err != nil {
			return "", fmt.Errorf("writing release %d of %s: %w", release, name, err)
		}
	}
	return dir, nil
}

func (r *Release) write(fs afero.Fs, path, base string) error {
	switch base {
	case model.ConfigFile:
		return model.WriteDescriptor(fs, path, r.Config)
	case model.ResourceFile:
		return model.WriteDescriptor(fs, path, r.Resource)
	case model.MarathonFile:
		return afero.WriteFile(fs, path, r.Launch, os.FileMode(0644))
	default:
		return model.WriteDescriptor(fs, path, r.Package)
	}
}

// ReadSplit reads a universe release directory back
func ReadSplit(fs afero.Fs, dir string) (*Release, error) {
	read := func(base string) (*document.Object, error) {
		return model.ReadDescriptor(fs, filepath.Join(dir, base))
	}
	pkg, err := read(model.PackageFile)
	if err != nil {
		return nil, err
	}
	config, err := read(model.ConfigFile)
	if err != nil {
		return nil, err
	}
	resource, err := read(model.ResourceFile)
	if err != nil {
		return nil, err
	}
	launch, err := afero.ReadFile(fs, filepath.Join(dir, model.MarathonFile))
	if err != nil {
		return nil, model.ErrDescriptor.Wrap(err)
	}
	return &Release{
		Package:  pkg,
		Config:   config,
		Resource: resource,
		Launch:   launch,
	}, nil
}
