// Package publish uploads artifacts to an object store.
//
// Every artifact of a batch is attempted. Failures are collected and returned
// together once the batch is done.
package publish

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/storage"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// KeyFunc maps an artifact path to its object key
type KeyFunc func(path string) string

// Target is a store and the naming and metadata rules of the objects put there
type Target struct {
	Store   storage.Store
	Key     KeyFunc
	Options []storage.PutOption
}

// Internal is the development object store: objects are keyed <name>/<basename>
func Internal(store storage.Store, name string) Target {
	return Target{
		Store: store,
		Key: func(p string) string {
			return model.ObjectKey(name, filepath.Base(p))
		},
		Options: []storage.PutOption{storage.ContentType(storage.RepoContentType)},
	}
}

// External is a public release bucket: objects are keyed <name>/artifacts/<version>/<basename> and world readable.
// A published version is immutable: objects already in the bucket are not overwritten.
func External(store storage.Store, name, version string) Target {
	return Target{
		Store: store,
		Key: func(p string) string {
			return model.ReleaseObjectKey(name, version, filepath.Base(p))
		},
		Options: []storage.PutOption{
			storage.ContentType(storage.RepoContentType),
			storage.ACL(storage.ACLPublicRead),
			storage.IfNotPresent(),
		},
	}
}

// Upload is a successfully published artifact
type Upload struct {
	Path string
	Key  string
	Size int64
}

// Failure is an artifact which could not be published
type Failure struct {
	Path string
	Key  string
	Err  error
}

// Report of a batch
type Report struct {
	Uploaded []Upload
	Failed   []Failure
}

// OK is true when nothing failed
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Publisher reads artifacts from a filesystem and puts them in a target store
type Publisher struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New publisher. A nil logger disables logging.
func New(fs afero.Fs, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{fs: fs, logger: logger}
}

// Publish uploads every path to the target. The returned error combines all failures.
func (p *Publisher) Publish(ctx context.Context, target Target, paths []string) (Report, error) {
	var (
		report Report
		merr   error
	)
	for _, path := range paths {
		key := target.Key(path)
		size, err := p.put(ctx, target, path, key)
		if err != nil {
			p.logger.Error("upload failed",
				zap.String("artifact", path),
				zap.String("key", key),
				zap.String("store", target.Store.String()),
				zap.Error(err))
			report.Failed = append(report.Failed, Failure{Path: path, Key: key, Err: err})
			merr = multierr.Append(merr, fmt.Errorf("%s: %w", path, err))
			continue
		}
		p.logger.Info("uploaded",
			zap.String("artifact", path),
			zap.String("key", key),
			zap.String("size", units.HumanSize(float64(size))))
		report.Uploaded = append(report.Uploaded, Upload{Path: path, Key: key, Size: size})
	}
	return report, merr
}

func (p *Publisher) put(ctx context.Context, target Target, path, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := p.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if err := target.Store.Put(ctx, key, f, target.Options...); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
