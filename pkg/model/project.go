package model

import (
	"fmt"
	"os"

	"github.com/portworx/dcosdev/pkg/document"
	"github.com/spf13/afero"
)

// Project is the explicit configuration every command works with:
// where the project lives, which package it builds and against which SDK version.
type Project struct {
	Layout     Layout
	Name       string
	SDKVersion string
}

// LoadProject reads the package name and SDK version from universe/package.json.
//
// The SDK version is the first tag of the package; basic packages have none.
func LoadProject(fs afero.Fs, layout Layout) (*Project, error) {
	pkg, err := ReadDescriptor(fs, layout.PackageDescriptor())
	if err != nil {
		return nil, err
	}
	name, ok := pkg.GetString("name")
	if !ok || name == "" {
		return nil, ErrDescriptor.Wrapf("%s: missing package name", layout.PackageDescriptor())
	}
	p := &Project{
		Layout: layout,
		Name:   name,
	}
	if tags, ok := pkg.Get("tags"); ok {
		if list, isList := tags.([]interface{}); isList && len(list) > 0 {
			if v, isString := list[0].(string); isString {
				p.SDKVersion = v
			}
		}
	}
	return p, nil
}

// ReadDescriptor reads and parses a JSON descriptor, preserving its key order
func ReadDescriptor(fs afero.Fs, path string) (*document.Object, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, ErrDescriptor.Wrap(err)
	}
	obj, err := document.ParseObject(data)
	if err != nil {
		return nil, ErrDescriptor.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	return obj, nil
}

// WriteDescriptor encodes a JSON descriptor with the repository indentation
func WriteDescriptor(fs afero.Fs, path string, v interface{}) error {
	data, err := document.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return afero.WriteFile(fs, path, data, os.FileMode(0644))
}

// ValidateName checks a package name. Allowed characters are lower case ASCII letters, digits and hyphen,
// as for packages of the DC/OS universe.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName.Wrapf("empty name")
	}
	for _, c := range name {
		if !('a' <= c && c <= 'z') && !('0' <= c && c <= '9') && c != '-' {
			return ErrInvalidName.Wrapf("package name %s contains unsupported character %q", name, string(c))
		}
	}
	return nil
}
