package s3

// Package s3 provides an S3-backed object store for recipe images.
// It works against AWS S3 and S3-compatible endpoints such as MinIO.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/isaacgyampoh/recipe-saver/config"
	"github.com/isaacgyampoh/recipe-saver/internal/ports"
)

// Client is the subset of the S3 API the store needs.
type Client interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// ObjectStore implements ports.ObjectStore on top of S3.
type ObjectStore struct {
	client        Client
	bucket        string
	region        string
	endpoint      string
	usePathStyle  bool
	publicBaseURL string
}

// NewObjectStore creates an ObjectStore from storage config and an S3 client.
func NewObjectStore(client Client, cfg config.StorageConfig) (*ObjectStore, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}
	return &ObjectStore{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
		usePathStyle:  cfg.UsePathStyle,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads an object and returns the public URL it will be served from.
func (s *ObjectStore) Put(ctx context.Context, in ports.PutObjectInput) (string, error) {
	if in.Key == "" {
		return "", errors.New("object key is required")
	}
	if in.Body == nil {
		return "", errors.New("object body is required")
	}

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(in.Key),
		Body:          in.Body,
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(in.Length),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", in.Key, err)
	}
	return s.PublicURL(in.Key), nil
}

// PublicURL returns the URL an uploaded key is reachable at. When a public base
// URL is configured (CDN or reverse proxy) it takes precedence over the raw
// bucket address.
func (s *ObjectStore) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	if s.endpoint != "" {
		// path-style is the norm for custom endpoints (MinIO et al.)
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	if s.usePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.region, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
