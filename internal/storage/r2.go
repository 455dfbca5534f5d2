package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"studysync/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// R2Store keeps uploads in a Cloudflare R2 (or any S3 compatible) bucket.
type R2Store struct {
	s3Client   *s3.Client
	bucketName string
}

// NewR2Store creates a bucket-backed store from configuration.
func NewR2Store(ctx context.Context, cfg config.R2Config) (*R2Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("R2 storage is not fully configured")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		// R2 endpoint format: https://<ACCOUNT_ID>.r2.cloudflarestorage.com
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Store{s3Client: client, bucketName: cfg.Bucket}, nil
}

func (s *R2Store) Save(ctx context.Context, workspaceID uuid.UUID, filename string, content io.Reader) (string, error) {
	key := objectKey(workspaceID, filename)

	// PutObject needs a seekable body to sign the payload.
	body, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", filename, err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to R2 (key: %s): %w", key, err)
	}
	return key, nil
}

func (s *R2Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download file from R2 (key: %s): %w", key, err)
	}
	return out.Body, nil
}

func (s *R2Store) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from R2 (key: %s): %w", key, err)
	}
	return nil
}
