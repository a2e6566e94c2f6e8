package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"saasgrid-backend/shared/config"
)

// Snapshot is one tenant data export: a map of section name (users,
// organizations, ...) to the exported rows.
type Snapshot struct {
	TenantID    string                 `json:"tenant_id"`
	TenantSlug  string                 `json:"tenant_slug"`
	GeneratedAt time.Time              `json:"generated_at"`
	Sections    map[string]interface{} `json:"sections"`
}

// Archiver writes tenant export snapshots to MinIO object storage.
type Archiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver builds an archiver from configuration and ensures the export
// bucket exists.
func NewArchiver() (*Archiver, error) {
	cfg := config.GetConfig()

	endpoint := cfg.MinIOServerURL
	if parsed, err := url.Parse(cfg.MinIOServerURL); err == nil && parsed.Host != "" {
		endpoint = parsed.Host
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archiver := &Archiver{
		client: client,
		bucket: cfg.MinIOExportBucket,
	}

	if err := archiver.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	log.Printf("✅ Export archiver initialized - bucket: %s", archiver.bucket)
	return archiver, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check export bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create export bucket: %w", err)
	}
	log.Printf("📦 Export bucket created: %s", a.bucket)
	return nil
}

// WriteSnapshot stores a snapshot as a timestamped JSON object and returns
// the object key.
func (a *Archiver) WriteSnapshot(ctx context.Context, snapshot Snapshot) (string, error) {
	if snapshot.GeneratedAt.IsZero() {
		snapshot.GeneratedAt = time.Now().UTC()
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json",
		snapshot.TenantSlug,
		snapshot.GeneratedAt.Format("2006-01-02T15-04-05Z"),
	)

	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	log.Printf("📤 Tenant export written: %s (%d bytes)", key, len(payload))
	return key, nil
}

// ListExports returns the object keys of all exports for a tenant slug.
func (a *Archiver) ListExports(ctx context.Context, tenantSlug string) ([]string, error) {
	prefix := fmt.Sprintf("exports/%s/", tenantSlug)

	var keys []string
	for object := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

// PresignDownload returns a time-limited download URL for an export object.
func (a *Archiver) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigned, err := a.client.PresignedGetObject(ctx, a.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign export download: %w", err)
	}
	return presigned.String(), nil
}
