package storage

import (
	"context"
	"errors"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSOptions configures the Google Cloud Storage backend.
type GCSOptions struct {
	// Client, when set, is used as-is. Otherwise a client is built from
	// the default application credentials.
	Client *gcs.Client

	// GoogleAccessID and PrivateKey are the service account credentials
	// used to sign URLs. Presigning fails with ErrMissingSigner when
	// either is absent.
	GoogleAccessID string
	PrivateKey     []byte
}

// GCS implements Storage on Google Cloud Storage.
type GCS struct {
	client *gcs.Client

	signerID  string
	signerKey []byte
}

// NewGCS constructs the GCS backend.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}

	g := &GCS{client: client}
	if opts.GoogleAccessID != "" && len(opts.PrivateKey) > 0 {
		g.signerID = opts.GoogleAccessID
		g.signerKey = opts.PrivateKey
	}
	return g, nil
}

func (g *GCS) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	writer := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if opts.ContentType != "" {
		writer.ContentType = opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		writer.Metadata = opts.Metadata
	}

	if _, err := io.Copy(writer, r); err != nil {
		return ObjectInfo{}, errors.Join(err, writer.Close())
	}
	if err := writer.Close(); err != nil {
		return ObjectInfo{}, err
	}

	// Attrs are only populated after a successful Close.
	if attrs := writer.Attrs(); attrs != nil {
		return gcsInfo(attrs), nil
	}
	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        opts.Size,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
	}, nil
}

func (g *GCS) GetObject(ctx context.Context, bucket, key string, opts GetOptions) (io.ReadCloser, ObjectInfo, error) {
	obj := g.client.Bucket(bucket).Object(key)

	var reader *gcs.Reader
	var err error
	if opts.Range != nil {
		length := int64(-1)
		if opts.Range.End > 0 || opts.Range.End == opts.Range.Start {
			length = opts.Range.End - opts.Range.Start + 1
		}
		reader, err = obj.NewRangeReader(ctx, opts.Range.Start, length)
	} else {
		reader, err = obj.NewReader(ctx)
	}
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, ObjectInfo{}, errors.Join(err, reader.Close())
	}
	return reader, gcsInfo(attrs), nil
}

func (g *GCS) StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	attrs, err := g.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	return gcsInfo(attrs), nil
}

func (g *GCS) DeleteObject(ctx context.Context, bucket, key string) error {
	return g.client.Bucket(bucket).Object(key).Delete(ctx)
}

func (g *GCS) ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error) {
	it := g.client.Bucket(bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	if opts.Token != "" {
		it.PageInfo().Token = opts.Token
	}
	if opts.Limit > 0 {
		it.PageInfo().MaxSize = int(opts.Limit)
	}

	objects := make([]ObjectInfo, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, gcsInfo(attrs))
		if opts.Limit > 0 && int32(len(objects)) >= opts.Limit {
			break
		}
	}
	return objects, nil
}

func (g *GCS) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if g.signerID == "" {
		return "", ErrMissingSigner
	}
	return gcs.SignedURL(bucket, key, &gcs.SignedURLOptions{
		Method:         "GET",
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.signerID,
		PrivateKey:     g.signerKey,
	})
}

func (g *GCS) PresignPut(_ context.Context, bucket, key string, opts PutOptions, expiry time.Duration) (string, error) {
	if g.signerID == "" {
		return "", ErrMissingSigner
	}
	return gcs.SignedURL(bucket, key, &gcs.SignedURLOptions{
		Method:         "PUT",
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.signerID,
		PrivateKey:     g.signerKey,
		ContentType:    opts.ContentType,
	})
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func gcsInfo(attrs *gcs.ObjectAttrs) ObjectInfo {
	if attrs == nil {
		return ObjectInfo{}
	}
	return ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		UpdatedAt:   attrs.Updated,
	}
}
