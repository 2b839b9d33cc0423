// Package minio provides the artifact store: generated job packages are
// uploaded to an S3-compatible bucket so they can be fetched later through a
// presigned URL. The store is optional; when no endpoint is configured the
// service simply streams packages to the caller and keeps nothing.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/config"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// API is the subset of the minio client the store uses; narrowed so tests
// can substitute a fake.
type API interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// ArtifactStore uploads job packages and issues download URLs.
type ArtifactStore struct {
	api    API
	bucket string
	expiry time.Duration
	log    logging.Logger
}

// NewArtifactStore dials the configured endpoint. Callers must have checked
// cfg.Enabled() first.
func NewArtifactStore(cfg config.StorageConfig, log logging.Logger) (*ArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "connecting to object storage")
	}
	return NewArtifactStoreWithAPI(client, cfg.Bucket, cfg.PresignExpiry, log), nil
}

// NewArtifactStoreWithAPI wires an explicit API implementation; used by
// NewArtifactStore and by tests.
func NewArtifactStoreWithAPI(api API, bucket string, expiry time.Duration, log logging.Logger) *ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ArtifactStore{
		api:    api,
		bucket: bucket,
		expiry: expiry,
		log:    log.Named("artifacts"),
	}
}

// EnsureBucket creates the configured bucket if it does not exist yet.
// Called once at startup.
func (s *ArtifactStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeStorageError, "checking bucket %s", s.bucket)
	}
	if exists {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStorageError, "creating bucket %s", s.bucket)
	}
	s.log.Info("created artifact bucket", logging.String("bucket", s.bucket))
	return nil
}

// objectKey builds the storage key for a package, grouping by generation
// date so buckets stay browsable.
func objectKey(jobID string, pkg *bundle.Package, now time.Time) string {
	return fmt.Sprintf("jobs/%s/%s/%s", now.Format("2006-01-02"), jobID, pkg.Name)
}

// StorePackage uploads a generated package and returns its object key.
func (s *ArtifactStore) StorePackage(ctx context.Context, jobID string, pkg *bundle.Package) (string, error) {
	key := objectKey(jobID, pkg, time.Now())

	_, err := s.api.PutObject(ctx, s.bucket, key,
		bytes.NewReader(pkg.Data), int64(len(pkg.Data)),
		minio.PutObjectOptions{ContentType: "application/zip"})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCodeStorageError, "uploading package %s", key)
	}

	s.log.Info("package archived",
		logging.String("key", key),
		logging.Int("bytes", len(pkg.Data)))
	return key, nil
}

// DownloadURL returns a presigned URL for a stored package.
func (s *ArtifactStore) DownloadURL(ctx context.Context, key string) (string, error) {
	u, err := s.api.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCodeStorageError, "presigning %s", key)
	}
	return u.String(), nil
}
