package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultRegion = "us-east-1"

type FileSink struct {
	Dir string
}

func (s FileSink) Write(_ context.Context, filename string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	p := filepath.Join(dir, filename)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return p, nil
}

// PutObjectAPI is the part of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3SinkFromEnv builds the S3 client from the default AWS credential chain.
func NewS3SinkFromEnv(ctx context.Context, bucket, prefix string) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithDefaultRegion(DefaultRegion))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewS3Sink(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Sink) Write(ctx context.Context, filename string, data []byte) (string, error) {
	key := path.Join(s.prefix, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export to s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
