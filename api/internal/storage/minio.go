// Package storage is the S3-compatible blob store for original invoice images.
package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Minio struct {
	client *minio.Client
	bucket string
}

func New(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Minio{client: client, bucket: bucket}, nil
}

func (m *Minio) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Upload stores one invoice image and returns the path persisted on the
// invoice row ("<bucket>/<objectName>").
func (m *Minio) Upload(ctx context.Context, objectName string, r io.Reader, size int64) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType:  "image/jpeg",
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", err
	}
	return m.bucket + "/" + objectName, nil
}
