package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultInternalHost is the in-cluster address of the minio service
	DefaultInternalHost = "minio.marathon.l4lb.thisdcos.directory:9000"

	// DefaultMinioPort is the port minio listens on
	DefaultMinioPort = 9000

	// DefaultArtifactsBucket is the minio bucket development snapshots go to
	DefaultArtifactsBucket = "artifacts"

	// DefaultChecksumURL is where the SDK publishes its artifacts and their SHA256SUMS manifest
	DefaultChecksumURL = "https://s3-us-west-1.amazonaws.com/px-dcos/dcos-commons/artifacts"
)

// Endpoints tells where artifacts are published
type Endpoints struct {
	// MinioHost is the object store host as seen from the developer machine
	MinioHost string
	// MinioPort is the object store port
	MinioPort int
	// InternalHost is the object store host:port as seen from inside the cluster
	InternalHost string
	// Bucket is the object store bucket for development snapshots
	Bucket string
}

// DefaultEndpoints for a minio host
func DefaultEndpoints(minioHost string) Endpoints {
	return Endpoints{
		MinioHost:    minioHost,
		MinioPort:    DefaultMinioPort,
		InternalHost: DefaultInternalHost,
		Bucket:       DefaultArtifactsBucket,
	}
}

// MinioEndpoint is the URL of the object store from the developer machine
func (e Endpoints) MinioEndpoint() string {
	return fmt.Sprintf("http://%s:%d", e.MinioHost, e.MinioPort)
}

// InternalPrefix is the URL prefix under which the cluster reaches a package's artifacts
func (e Endpoints) InternalPrefix(name string) string {
	return fmt.Sprintf("http://%s/%s/%s/", e.InternalHost, e.Bucket, name)
}

// InternalURL is the in-cluster URL of one artifact
func (e Endpoints) InternalURL(name, basename string) string {
	return e.InternalPrefix(name) + basename
}

// InternalRepositoryURL is the in-cluster URL of the package repository document
func (e Endpoints) InternalRepositoryURL(name string) string {
	return e.InternalURL(name, RepositoryDocumentName(name))
}

// StubRepositoryURL is the repository URL handed to integration tests
func (e Endpoints) StubRepositoryURL(name string) string {
	return fmt.Sprintf("%s/%s/%s/%s", e.MinioEndpoint(), e.Bucket, name, RepositoryDocumentName(name))
}

// ObjectKey is the object key of a development snapshot artifact
func ObjectKey(name, basename string) string {
	return name + "/" + basename
}

// ReleaseObjectKey is the object key of a released artifact
func ReleaseObjectKey(name, version, basename string) string {
	return name + "/artifacts/" + version + "/" + basename
}

// PublicPrefix is the URL prefix of released artifacts in a public bucket
func PublicPrefix(bucket, name, version string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s/artifacts/%s/", bucket, name, version)
}

// ChecksumManifestURL is the SHA256SUMS manifest of an SDK version
func ChecksumManifestURL(base, sdkVersion string) string {
	return strings.TrimSuffix(base, "/") + "/" + sdkVersion + "/SHA256SUMS"
}

// SDKArtifactsURL is the base URL of the SDK artifacts for a version
func SDKArtifactsURL(base, sdkVersion string) string {
	return strings.TrimSuffix(base, "/") + "/" + sdkVersion
}

// UniversePackageDir is the directory of a package in a clone of the community universe repository
func UniversePackageDir(universe, name string) string {
	if name == "" {
		return universe
	}
	initial, _ := utf8.DecodeRuneInString(name)
	return filepath.Join(universe, "repo", "packages", strings.ToUpper(string(initial)), name)
}
