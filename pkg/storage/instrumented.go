package storage

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

// Instrument wraps a store so that every operation gets logged at debug level, with its duration
func Instrument(logger *zap.Logger, store Store) Store {
	return &instrumentedStore{
		store:  store,
		logger: logger.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store  Store
	logger *zap.Logger
}

func (i *instrumentedStore) done(op string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields, zap.Duration("took", time.Since(start)))
	if err != nil {
		i.logger.Debug("storage "+op+" failed", append(fields, zap.Error(err))...)
		return
	}
	i.logger.Debug("storage "+op, fields...)
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	has, err := i.store.Has(ctx, key)
	i.done("has", start, err, zap.String("key", key), zap.Bool("has", has))
	return has, err
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	rdr, err := i.store.Get(ctx, key)
	i.done("get", start, err, zap.String("key", key))
	return rdr, err
}

func (i *instrumentedStore) Put(ctx context.Context, key string, rdr io.Reader, opts ...PutOption) error {
	start := time.Now()
	err := i.store.Put(ctx, key, rdr, opts...)
	o := ApplyPutOptions(opts...)
	i.done("put", start, err, zap.String("key", key), zap.String("contentType", o.ContentType), zap.String("acl", o.ACL))
	return err
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.store.Delete(ctx, key)
	i.done("delete", start, err, zap.String("key", key))
	return err
}

func (i *instrumentedStore) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := i.store.Keys(ctx)
	i.done("keys", start, err, zap.Int("count", len(keys)))
	return keys, err
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}
