package sthree

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws/awserr"
	dcerrors "github.com/portworx/dcosdev/pkg/errors"
	"github.com/portworx/dcosdev/pkg/storage/status"
)

// S3 error codes mapped to a sentinel regardless of the HTTP status.
// NotFound is produced by minio and by HEAD requests, it is not an official AWS code.
// See https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html#ErrorCodeList
var codeSentinels = map[string]*dcerrors.Error{
	"NoSuchKey":         status.ErrNotExists,
	"NotFound":          status.ErrNotExists,
	"NoSuchBucket":      status.ErrNotFound,
	"InvalidBucketName": status.ErrInvalidResource,
}

var statusSentinels = map[int]*dcerrors.Error{
	401: status.ErrUnauthorized,
	403: status.ErrForbidden,
	404: status.ErrNotFound,
}

func asRequestFailure(err error) (awserr.RequestFailure, bool) {
	var rerr awserr.RequestFailure
	ok := errors.As(err, &rerr)
	return rerr, ok
}

// toSentinelErrors maps S3 API failures (also when wrapped, e.g. by the uploader) to the status sentinels
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	rerr, ok := asRequestFailure(err)
	if !ok {
		return err
	}
	if sentinel, known := codeSentinels[rerr.Code()]; known {
		return sentinel.Wrap(err)
	}
	if sentinel, known := statusSentinels[rerr.StatusCode()]; known {
		return sentinel.Wrap(err)
	}
	return status.ErrStorageAPI.Wrap(err)
}
