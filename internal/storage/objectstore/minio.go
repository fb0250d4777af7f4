package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Uploader stores exported files under an object name.
type Uploader interface {
	UploadFile(ctx context.Context, objectName string, data io.Reader) error
}

// Options configures the MinIO client.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinIOStorage struct {
	Client     *minio.Client
	BucketName string
	logger     *zap.Logger
}

// NewMinIOStorage connects to MinIO and creates the bucket if missing.
func NewMinIOStorage(ctx context.Context, opts Options, logger *zap.Logger) (*MinIOStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
		logger.Info("bucket created", zap.String("bucket", opts.Bucket))
	}

	return &MinIOStorage{
		Client:     client,
		BucketName: opts.Bucket,
		logger:     logger,
	}, nil
}

// UploadFile uploads a CSV object to the bucket.
func (m *MinIOStorage) UploadFile(ctx context.Context, objectName string, data io.Reader) error {
	info, err := m.Client.PutObject(ctx, m.BucketName, objectName, data, -1, minio.PutObjectOptions{
		ContentType: "application/csv",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectName, err)
	}
	m.logger.Info("object uploaded",
		zap.String("bucket", m.BucketName),
		zap.String("object", objectName),
		zap.Int64("size", info.Size),
	)
	return nil
}

// ObjectName builds a timestamped object name such as
// wallet_credit_scores-20240101T120000Z.csv.
func ObjectName(base string, at time.Time) string {
	return fmt.Sprintf("%s-%s.csv", base, at.UTC().Format("20060102T150405Z"))
}
