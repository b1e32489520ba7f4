// Package storage defines the object store abstraction that release
// artifacts are published to.
package storage

import (
	"context"
	"io"
)

const (
	// RepoContentType is the content type the package repository mechanism expects
	// for every published object.
	RepoContentType = "application/vnd.dcos.universe.repo+json;charset=utf-8;version=v4"

	// ACLPublicRead makes an object readable by anyone
	ACLPublicRead = "public-read"
)

// Store implementations know how to write entries to a K/V object store.
//
// Typically this is something file system-like. Examples are S3, minio, local FS.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, ...PutOption) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}

// PutOptions carries the object metadata requested by a caller of Put
type PutOptions struct {
	ContentType string
	ACL         string
	Exclusive   bool
}

// PutOption is a functor to set put options
type PutOption func(*PutOptions)

// ContentType sets the content type of the stored object
func ContentType(ct string) PutOption {
	return func(o *PutOptions) {
		o.ContentType = ct
	}
}

// ACL sets a canned ACL on the stored object. Stores without ACLs ignore it.
func ACL(acl string) PutOption {
	return func(o *PutOptions) {
		o.ACL = acl
	}
}

// IfNotPresent makes Put fail when the key already exists
func IfNotPresent() PutOption {
	return func(o *PutOptions) {
		o.Exclusive = true
	}
}

// ApplyPutOptions folds put options into a PutOptions value
func ApplyPutOptions(opts ...PutOption) PutOptions {
	var o PutOptions
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
