// Package storage writes uploaded research artifacts into the platform's
// object store and resolves URLs clients can fetch them from.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore is the object-store capability handlers depend on: put a blob
// under a key inside the fixed bucket and resolve a publicly fetchable URL
// for it.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(ctx context.Context, key string) (string, error)
}

// S3Config carries the settings for an S3 or S3-compatible object store.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, for S3-compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // optional, base URL objects are publicly served from
}

// S3Store implements BlobStore on top of the AWS SDK. It works against AWS
// proper as well as any S3-compatible endpoint (set Endpoint, which also
// switches to path-style addressing).
type S3Store struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	publicBase string
}

// NewS3Store builds the store and its presign client from static
// credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket must not be empty")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put writes data under key. Keys are expected to be unique; writing an
// existing key silently overwrites the object.
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the address the object can be fetched from. With a
// configured public base the bucket is assumed publicly readable and the URL
// is built directly; otherwise a long-lived presigned GET is issued.
func (s *S3Store) PublicURL(ctx context.Context, key string) (string, error) {
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key), nil
	}
	resp, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(7*24*time.Hour))
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// NewObjectKey returns a fresh random key for an uploaded file. The original
// file's extension is kept (lower-cased) so the served object retains its
// type; the random part makes collisions with existing keys practically
// impossible.
func NewObjectKey(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}
