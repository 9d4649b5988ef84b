package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appconfig "github.com/richxcame/devcert-dashboard/pkg/config"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage archives CSV sources in a private bucket, encrypted at rest.
// Downloads go through short-lived presigned URLs only.
type S3Storage struct {
	client  putObjectAPI
	presign *s3.PresignClient
	bucket  string
}

// NewS3Storage builds the archive store. Endpoint switches to path-style
// addressing for S3-compatible stores such as MinIO.
func NewS3Storage(ctx context.Context, cfg appconfig.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Upload stores an archived source under key
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 reader,
		ContentLength:        aws.Int64(size),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		logger.Error("Failed to archive upload", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to archive %s: %w", key, err)
	}

	logger.Info("Upload archived", zap.String("key", key), zap.Int64("size", size))

	return &UploadResult{
		Key:        key,
		URL:        "s3://" + s.bucket + "/" + key,
		Size:       size,
		MimeType:   contentType,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// GetPresignedDownloadURL signs a GET for key valid for expiresIn
func (s *S3Storage) GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (*PresignedURLResult, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s: %w", key, err)
	}

	return &PresignedURLResult{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().UTC().Add(expiresIn),
	}, nil
}

var _ Storage = (*S3Storage)(nil)
