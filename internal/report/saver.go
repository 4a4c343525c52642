package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yildizm/LeafScan/internal/config"
)

// Saver stores a generated report and returns where it went
type Saver interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

// NewSaver picks the saver named by cfg.Sink
func NewSaver(cfg config.ReportConfig) (Saver, error) {
	switch cfg.Sink {
	case "", "file":
		return NewFileSaver(config.ExpandPath(cfg.Dir)), nil
	case "s3":
		return NewObjectSaver(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown report sink: %s", cfg.Sink)
	}
}

// FileSaver writes reports into a local directory
type FileSaver struct {
	Dir string
}

// NewFileSaver creates a saver writing into dir
func NewFileSaver(dir string) *FileSaver {
	if dir == "" {
		dir = "."
	}
	return &FileSaver{Dir: dir}
}

// Save writes content to Dir/name
func (s *FileSaver) Save(_ context.Context, name string, content []byte) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("report name is required")
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", s.Dir, err)
	}

	target := filepath.Join(s.Dir, name)
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return target, nil
}

// ObjectSaver uploads reports to an S3 compatible bucket
type ObjectSaver struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	mu          sync.Mutex
	bucketReady bool
}

// NewObjectSaver creates a minio client for cfg
func NewObjectSaver(cfg config.S3Config) (*ObjectSaver, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &ObjectSaver{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

// ensureBucket creates the bucket on first use. A failed check is retried
// on the next save.
func (s *ObjectSaver) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.bucketReady = true
	return nil
}

// ObjectKey returns the key a report named name is stored under
func (s *ObjectSaver) ObjectKey(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Save uploads content and returns its s3:// location
func (s *ObjectSaver) Save(ctx context.Context, name string, content []byte) (string, error) {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("report name is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := s.ObjectKey(name)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
