package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

const serviceName = "object_storage"

// DefaultLinkTTL is how long a presigned export link stays valid.
const DefaultLinkTTL = 15 * time.Minute

// Config holds S3-compatible storage settings
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	Region          string
	UsePathStyle    bool
	LinkTTL         time.Duration
}

// objectAPI is the subset of the S3 client used here.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads export files to S3-compatible object storage
type Client struct {
	objects objectAPI
	presign func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	bucket  string
	linkTTL time.Duration
}

// NewClient creates a storage client using the S3 SDK
func NewClient(cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = DefaultLinkTTL
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token not needed
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	s3Client := s3.New(opts)
	presignClient := s3.NewPresignClient(s3Client)

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
	)

	return &Client{
		objects: s3Client,
		presign: func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
			req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:  cfg.Bucket,
		linkTTL: cfg.LinkTTL,
	}, nil
}

// UploadExport stores data under key and returns a presigned download URL
func (c *Client) UploadExport(ctx context.Context, key, contentType string, data []byte) (string, error) {
	start := time.Now()
	operation := "uploadExport"

	_, err := c.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(c.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String("attachment"),
	})
	if err != nil {
		c.record(ctx, operation, "error", start, zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := c.presign(ctx, c.bucket, key, c.linkTTL)
	if err != nil {
		c.record(ctx, operation, "error", start, zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to presign export link: %w", err)
	}

	c.record(ctx, operation, "success", start,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return url, nil
}

func (c *Client) record(ctx context.Context, operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall(ctx, serviceName, operation, status, duration, fields...)
}
