// Package storage provides presigned upload/download URLs and object retrieval on S3-compatible storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// URL lifetimes handed out to clients
const (
	UploadURLTTL   = 300 * time.Second
	DownloadURLTTL = time.Hour
)

// Key prefixes for uploaded files
const (
	ResumePrefix         = "resumes"
	JobDescriptionPrefix = "job-descriptions"
)

// MaxObjectSize bounds how much of an object Download reads into memory
const MaxObjectSize = 20 << 20

// Config holds the bucket and connection settings
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for S3-compatible services such as R2 or MinIO
	AccessKeyID     string
	SecretAccessKey string
}

// Object is a downloaded file
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store wraps an S3 client and its presigner for one bucket
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds a Store from Config. Static credentials are used when both keys are set,
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *s3.Client, bucket string) *Store {
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

// Bucket returns the bucket name
func (s *Store) Bucket() string {
	return s.bucket
}

// Download fetches an object into memory
func (s *Store) Download(ctx context.Context, key string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, &Error{Op: "get", Key: key, Message: "failed to get object", Cause: err}
	}
	defer func() { _ = out.Body.Close() }()

	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Message: "failed to read object body", Cause: err}
	}
	if n > MaxObjectSize {
		return nil, &Error{Op: "get", Key: key, Message: fmt.Sprintf("object exceeds %d bytes", MaxObjectSize)}
	}

	return &Object{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		Data:        buf.Bytes(),
	}, nil
}

// PresignUpload returns a URL the client can PUT the file to
func (s *Store) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", &Error{Op: "presign-put", Key: key, Message: "failed to presign upload", Cause: err}
	}
	return req.URL, nil
}

// PresignDownload returns a URL the client can GET the file from
func (s *Store) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", &Error{Op: "presign-get", Key: key, Message: "failed to presign download", Cause: err}
	}
	return req.URL, nil
}

// UniqueKey builds "<prefix>/<uuid><ext>" for an upload.
// Files named like a résumé or uploaded as DOCX go under resumes/, everything else under job-descriptions/.
func UniqueKey(fileName, fileType string) string {
	prefix := JobDescriptionPrefix
	if strings.Contains(strings.ToLower(fileName), "resume") || strings.Contains(fileType, "wordprocessingml.document") {
		prefix = ResumePrefix
	}

	ext := ""
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if i := strings.LastIndex(base, "."); i > 0 {
		ext = strings.ToLower(base[i:])
	}
	return prefix + "/" + uuid.NewString() + ext
}
