package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/utils"
	"github.com/rs/zerolog/log"
)

// ObjectStorage stores listing images under opaque keys
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// S3Storage keeps listing images in a private S3 bucket
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Storage builds an S3 client from the application configuration
func NewS3Storage(ctx context.Context, cfg *config.Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
		prefix: "listings/",
	}, nil
}

func (s *S3Storage) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// URL returns a presigned GET URL valid for one hour
func (s *S3Storage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return request.URL, nil
}

func (s *S3Storage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// LocalStorage keeps listing images on disk and serves them from /api/v1/uploads
type LocalStorage struct {
	dir string
}

// NewLocalStorage stores images under dir
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// Dir returns the directory images are written to
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	return utils.SaveFile(s.dir, key, content)
}

func (s *LocalStorage) URL(ctx context.Context, key string) (string, error) {
	return utils.GetImageURL(key), nil
}

func (s *LocalStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" || !utils.IsSafeFilename(key) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// InitStorage picks S3 when a bucket is configured, else the local upload directory
func InitStorage(ctx context.Context, cfg *config.Config) (ObjectStorage, error) {
	if !cfg.UsesS3() {
		log.Info().Str("dir", cfg.UploadDir).Msg("Storing listing images on local disk")
		return NewLocalStorage(cfg.UploadDir), nil
	}

	storage, err := NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.AWSS3Bucket).Msg("Storing listing images in S3")
	return storage, nil
}
