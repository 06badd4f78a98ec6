// Package objectstore archives rendered documents in S3-compatible storage.
// It works against AWS S3 as well as MinIO-style endpoints with path-style
// addressing.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/quotemill/quotemill/internal/domain"
)

// api is the slice of the S3 client the store uses, extracted so tests can
// substitute a fake.
type api interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3 connection settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// UsePathStyle is required by most non-AWS S3 implementations.
	UsePathStyle bool
}

// Store implements ports.DocumentStore on S3. Folders are key prefixes
// with a zero-byte marker object, so EnsureFolder is a cheap find-or-create.
type Store struct {
	client api
	bucket string
	logger *slog.Logger
}

// New builds a store from configuration.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// newWithClient is the test constructor.
func newWithClient(client api, bucket string, logger *slog.Logger) *Store {
	return &Store{client: client, bucket: bucket, logger: logger}
}

// EnsureFolder finds or creates the owner's named folder and returns its
// key prefix.
func (s *Store) EnsureFolder(ctx context.Context, ownerID, name string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", ownerID, strings.Trim(name, "/"))

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(prefix),
	})
	if err == nil {
		return prefix, nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return "", domain.NewUnavailableError("object-store", err.Error())
	}

	s.logger.InfoContext(ctx, "creating document folder",
		slog.String("bucket", s.bucket),
		slog.String("prefix", prefix),
	)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(prefix),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return "", domain.NewUnavailableError("object-store", err.Error())
	}

	return prefix, nil
}

// Put writes a document under a folder prefix and returns its key.
func (s *Store) Put(ctx context.Context, prefix, filename, contentType string, data []byte) (string, error) {
	key := prefix + filename

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", domain.NewUnavailableError("object-store", err.Error())
	}

	s.logger.InfoContext(ctx, "document archived",
		slog.String("bucket", s.bucket),
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)

	return key, nil
}

// Name identifies the store's health check.
func (s *Store) Name() string {
	return "object-store"
}

// Check verifies the bucket is reachable.
func (s *Store) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})

	return err
}
