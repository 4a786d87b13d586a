package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures the MinIO backend.
type MinIOOptions struct {
	// Client, when set, is used as-is and the remaining fields are ignored.
	Client *minio.Client

	// Endpoint is the MinIO server address without scheme.
	Endpoint string

	// AccessKey, SecretKey and SessionToken form static credentials.
	AccessKey    string
	SecretKey    string
	SessionToken string

	// Region is the bucket region.
	Region string
	// UseSSL toggles TLS.
	UseSSL bool
}

// MinIO implements Storage on MinIO.
type MinIO struct {
	client *minio.Client
}

// NewMinIO constructs the MinIO backend.
func NewMinIO(opts MinIOOptions) (*MinIO, error) {
	if opts.Client != nil {
		return &MinIO{client: opts.Client}, nil
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinIO{client: client}, nil
}

func (m *MinIO) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	info, err := m.client.PutObject(ctx, bucket, key, r, opts.Size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
	}, nil
}

func (m *MinIO) GetObject(ctx context.Context, bucket, key string, opts GetOptions) (io.ReadCloser, ObjectInfo, error) {
	getOpts := minio.GetObjectOptions{}
	if opts.Range != nil {
		end := int64(0)
		if opts.Range.End > 0 || opts.Range.End == opts.Range.Start {
			end = opts.Range.End
		}
		if err := getOpts.SetRange(opts.Range.Start, end); err != nil {
			return nil, ObjectInfo{}, err
		}
	}

	obj, err := m.client.GetObject(ctx, bucket, key, getOpts)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	stat, err := obj.Stat()
	if err != nil {
		return nil, ObjectInfo{}, errors.Join(err, obj.Close())
	}
	return obj, minioInfo(bucket, key, stat), nil
}

func (m *MinIO) StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	stat, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, err
	}
	return minioInfo(bucket, key, stat), nil
}

func (m *MinIO) DeleteObject(ctx context.Context, bucket, key string) error {
	return m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// ListObjects lists a bucket prefix recursively. The Token option is not
// supported by the MinIO listing API and is ignored.
func (m *MinIO) ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error) {
	objects := make([]ObjectInfo, 0)
	for object := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, ObjectInfo{
			Bucket:    bucket,
			Key:       object.Key,
			Size:      object.Size,
			ETag:      object.ETag,
			UpdatedAt: object.LastModified,
		})
		if opts.Limit > 0 && int32(len(objects)) >= opts.Limit {
			break
		}
	}
	return objects, nil
}

func (m *MinIO) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *MinIO) PresignPut(ctx context.Context, bucket, key string, _ PutOptions, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedPutObject(ctx, bucket, key, expiry)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

// Close is a no-op, the MinIO client needs no explicit shutdown.
func (m *MinIO) Close() error { return nil }

func minioInfo(bucket, key string, stat minio.ObjectInfo) ObjectInfo {
	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        stat.Size,
		ETag:        stat.ETag,
		ContentType: stat.ContentType,
		Metadata:    stat.UserMetadata,
		UpdatedAt:   stat.LastModified,
	}
}
