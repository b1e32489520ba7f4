// Package sthree implements the storage interface on S3 compatible object stores:
// AWS S3 for releases and minio for in-cluster iteration.
package sthree

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/portworx/dcosdev/pkg/storage"
	"github.com/portworx/dcosdev/pkg/storage/status"
)

// DefaultRegion is the region hint used when none is configured
const DefaultRegion = "us-east-1"

// Option configures the S3 store
type Option func(*s3FS)

// Bucket sets the target bucket
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig sets the AWS client configuration
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// MinioConfig returns the client configuration to reach a minio server on endpoint
// (e.g. http://minio.local:9000) with static credentials.
func MinioConfig(endpoint, accessKey, secretKey string) *aws.Config {
	return &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Region:           aws.String(DefaultRegion),
		Endpoint:         aws.String(endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(true),
	}
}

// BucketRegion resolves the region a bucket lives in, using the ambient AWS credentials.
func BucketRegion(ctx context.Context, bucket string) (string, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(DefaultRegion)})
	if err != nil {
		return "", err
	}
	region, err := s3manager.GetBucketRegion(ctx, sess, bucket, DefaultRegion)
	if err != nil {
		return "", toSentinelErrors(err)
	}
	return region, nil
}

// New builds an S3 backed store
func New(option Option, options ...Option) (storage.Store, error) {
	fs := new(s3FS)
	option(fs)
	for _, apply := range options {
		apply(fs)
	}
	if fs.bucket == "" {
		return nil, status.ErrInvalidResource.Wrapf("empty bucket name")
	}
	if fs.awsConfig == nil {
		fs.awsConfig = aws.NewConfig()
	}

	sess, err := session.NewSession(fs.awsConfig)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	fs.s3 = s3.New(sess)
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	return fs, nil
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	uploader  *s3manager.Uploader
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if rerr, ok := asRequestFailure(err); ok && rerr.StatusCode() == 404 {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader, opts ...storage.PutOption) error {
	o := storage.ApplyPutOptions(opts...)
	if o.Exclusive {
		has, err := s.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists.Wrapf("key %q in bucket %q", key, s.bucket)
		}
	}
	_, err := s.uploader.UploadWithContext(ctx, uploadInput(s.bucket, key, rdr, o))
	return toSentinelErrors(err)
}

func uploadInput(bucket, key string, rdr io.Reader, o storage.PutOptions) *s3manager.UploadInput {
	input := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   rdr,
	}
	if o.ContentType != "" {
		input.ContentType = aws.String(o.ContentType)
	}
	if o.ACL != "" {
		input.ACL = aws.String(o.ACL)
	}
	return input
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	eachPage := func(page *s3.ListObjectsOutput, more bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key != "" {
				keys = append(keys, key)
			}
		}
		return more
	}
	params := &s3.ListObjectsInput{Bucket: aws.String(s.bucket)}

	err := s.s3.ListObjectsPagesWithContext(ctx, params, eachPage)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return keys, nil
}

func (s *s3FS) String() string {
	if s.awsConfig != nil && aws.StringValue(s.awsConfig.Endpoint) != "" {
		return "s3@" + aws.StringValue(s.awsConfig.Endpoint) + "/" + s.bucket
	}
	return "s3@" + s.bucket
}
