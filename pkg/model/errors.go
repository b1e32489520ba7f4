package model

import "github.com/portworx/dcosdev/pkg/errors"

var (
	// ErrUnsupportedSDKVersion is returned when a version is not in the allow-list
	ErrUnsupportedSDKVersion = errors.New("unsupported sdk version")

	// ErrDescriptor is returned when a project descriptor is missing or cannot be read
	ErrDescriptor = errors.New("cannot read project descriptor")

	// ErrInvalidName is returned when a package name contains unsupported characters
	ErrInvalidName = errors.New("invalid package name")
)
