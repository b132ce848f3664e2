// S3-compatible object store
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"gcodetile/pkg/errors"
	"gcodetile/pkg/log"
)

// S3Scheme prefixes object locations, as in s3://bucket/key.
const S3Scheme = "s3://"

// GCodeContentType is set on uploaded objects.
const GCodeContentType = "text/x-gcode"

// Environment variables read by S3ConfigFromEnv.
const (
	EnvS3Endpoint        = "GCODETILE_S3_ENDPOINT"
	EnvS3Region          = "GCODETILE_S3_REGION"
	EnvS3AccessKeyID     = "GCODETILE_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "GCODETILE_S3_SECRET_ACCESS_KEY"
	EnvS3UseSSL          = "GCODETILE_S3_USE_SSL"
	EnvS3UsePathStyle    = "GCODETILE_S3_USE_PATH_STYLE"
)

// DefaultS3Region is used when no region is configured.
const DefaultS3Region = "us-east-1"

// S3Config selects the endpoint and credentials of the object store.
// Empty credentials fall back to the default AWS credential chain.
type S3Config struct {
	Endpoint        string // empty for AWS itself
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	UsePathStyle    bool
}

// S3ConfigFromEnv reads GCODETILE_S3_* variables. Path-style addressing
// defaults on when a custom endpoint is set, for MinIO compatibility.
func S3ConfigFromEnv() (S3Config, error) {
	cfg := S3Config{
		Endpoint:        os.Getenv(EnvS3Endpoint),
		Region:          os.Getenv(EnvS3Region),
		AccessKeyID:     os.Getenv(EnvS3AccessKeyID),
		SecretAccessKey: os.Getenv(EnvS3SecretAccessKey),
		UseSSL:          true,
	}
	if cfg.Region == "" {
		cfg.Region = DefaultS3Region
	}
	cfg.UsePathStyle = cfg.Endpoint != ""

	if v := os.Getenv(EnvS3UseSSL); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.StorageError("invalid "+EnvS3UseSSL, err)
		}
		cfg.UseSSL = b
	}
	if v := os.Getenv(EnvS3UsePathStyle); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.StorageError("invalid "+EnvS3UsePathStyle, err)
		}
		cfg.UsePathStyle = b
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return cfg, errors.StorageError(
			fmt.Sprintf("%s and %s must be set together", EnvS3AccessKeyID, EnvS3SecretAccessKey), nil)
	}
	return cfg, nil
}

// endpointURL adds a scheme to a bare host:port endpoint.
func (c S3Config) endpointURL() string {
	if c.Endpoint == "" ||
		strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://") {
		return c.Endpoint
	}
	if c.UseSSL {
		return "https://" + c.Endpoint
	}
	return "http://" + c.Endpoint
}

// NewS3Client builds an SDK client for cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.StorageError("failed to load AWS config", err)
	}

	endpoint := cfg.endpointURL()
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// ObjectAPI is the part of *s3.Client used by S3Store.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IsS3URI reports whether location names an S3 object.
func IsS3URI(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("storage: %q is not an %s URI", uri, S3Scheme)
	}
	rest := strings.TrimPrefix(uri, S3Scheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("storage: %q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// S3Store reads and writes whole objects.
type S3Store struct {
	api    ObjectAPI
	logger *log.Logger
}

// NewS3Store creates a store on api. A nil logger uses the "storage" logger.
func NewS3Store(api ObjectAPI, logger *log.Logger) *S3Store {
	if logger == nil {
		logger = log.GetLogger("storage")
	}
	return &S3Store{api: api, logger: logger}
}

// isNotFound reports whether err means the object or bucket is missing.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if stderrors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

// ReadLines downloads the object at uri and splits it into lines.
func (s *S3Store) ReadLines(ctx context.Context, uri string) ([]string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUsage, "invalid input location")
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.InputNotFoundError(uri, err)
		}
		return nil, errors.InputReadError(uri, err)
	}
	defer out.Body.Close()

	lines, err := DecodeLines(out.Body)
	if err != nil {
		return nil, errors.InputReadError(uri, err)
	}
	s.logger.WithFields(log.Fields{"bucket": bucket, "key": key, "lines": len(lines)}).Debug("fetched object")
	return lines, nil
}

// WriteLines uploads lines as the object at uri, replacing any existing
// object. S3 uploads are atomic.
func (s *S3Store) WriteLines(ctx context.Context, uri string, lines []string) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return errors.Wrap(err, errors.ErrUsage, "invalid output location")
	}

	data := EncodeLines(lines)
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(GCodeContentType),
	})
	if err != nil {
		return errors.OutputWriteError(uri, err)
	}
	s.logger.WithFields(log.Fields{"bucket": bucket, "key": key, "bytes": len(data)}).Debug("uploaded object")
	return nil
}
