package auditlog

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures the remote Log Sink backend, mirroring the teacher's
// payload/store/s3.Config{Bucket, KeyPrefix} shape.
type S3Config struct {
	Bucket    string
	KeyPrefix string
	Region    string

	// Endpoint overrides the default AWS endpoint resolution, for
	// localstack-backed integration tests (teacher's test/integration/s3).
	Endpoint string
}

// S3Sink persists audit records as individual objects in S3, one object per
// appended record, keyed by registry/timestamp-direction.
//
// This is grounded on the teacher's pkg/payload/store/s3 package: only its
// _test.go file survived in the snapshot this repo was built from, so the
// store.go implementation below is written fresh from that test's observed
// API (New(client, Config), WriteBlock/ReadBlock/DeleteByPrefix/ListByPrefix)
// rather than adapted from an implementation file — see DESIGN.md.
type S3Sink struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Sink builds an S3Sink from cfg, loading AWS credentials via the
// default provider chain (environment, shared config, IMDS), exactly as the
// teacher's localstack test helper does for its s3.Client.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Sink{client: client, cfg: cfg}, nil
}

// NewS3SinkWithClient wraps an already-configured client, for callers (and
// tests) that need static credentials or a localstack endpoint the default
// chain wouldn't find, matching the teacher test's credentials.
// NewStaticCredentialsProvider pattern.
func NewS3SinkWithClient(client *s3.Client, cfg S3Config) *S3Sink {
	return &S3Sink{client: client, cfg: cfg}
}

// StaticCredentialsClient builds an s3.Client from static credentials and an
// explicit endpoint, for localstack-backed integration tests.
func StaticCredentialsClient(ctx context.Context, region, endpoint, accessKey, secretKey string) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("auditlog: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *S3Sink) objectKey(rec Record) string {
	key := fmt.Sprintf("%s/%d-%s.xml", rec.RegistryID, rec.Timestamp.UnixNano(), rec.Direction)
	if s.cfg.KeyPrefix != "" {
		return s.cfg.KeyPrefix + key
	}
	return key
}

func (s *S3Sink) Append(ctx context.Context, rec Record) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(rec)),
		Body:   bytes.NewReader(rec.Raw),
	})
	if err != nil {
		return fmt.Errorf("auditlog: put object: %w", err)
	}
	return nil
}

func (s *S3Sink) Close() error { return nil }
