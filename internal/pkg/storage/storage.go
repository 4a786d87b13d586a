// Package storage abstracts object storage behind a driver-selectable
// interface. NewFromDriver builds the backend named in configuration:
// AWS S3, Google Cloud Storage or MinIO.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner indicates the backend cannot mint signed URLs because
// no signing credentials were configured.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage is the object store surface the modules depend on. All methods
// take the bucket explicitly so one client can serve several buckets.
type Storage interface {
	io.Closer

	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts GetOptions) (io.ReadCloser, ObjectInfo, error)
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error)
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, bucket, key string, opts PutOptions, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the content length, negative when unknown.
	Size int64
	// ContentType is the MIME type stored with the object.
	ContentType string
	// Metadata is user-defined key/value metadata.
	Metadata map[string]string
}

// GetOptions configures a download.
type GetOptions struct {
	// Range restricts the read to a byte range when set.
	Range *ByteRange
}

// ListOptions configures a listing.
type ListOptions struct {
	// Limit caps the number of results.
	Limit int32
	// Token resumes a previous listing.
	Token string
}

// ByteRange is an inclusive byte range. A non-positive End below Start
// means read to the end of the object.
type ByteRange struct {
	Start int64
	End   int64
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
