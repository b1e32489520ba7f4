// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - S3 (AWS, minio)
//   - local file system
//
// Stores may be wrapped with Instrument to log every operation.
package storage
