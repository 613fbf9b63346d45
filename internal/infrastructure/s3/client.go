package s3infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/money-tracker-api/internal/config"
	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/infrastructure/awscfg"
)

// API is the subset of the S3 client the Store uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store wraps S3 operations for avatar objects.
type Store struct {
	client   API
	bucket   string
	baseURL  string
	endpoint string
	region   string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// NewStore creates a Store for cfg.S3BucketName. Public URLs are built from
// cfg.S3PublicBaseURL when set, else from the endpoint override, else from
// the regional virtual-hosted bucket address.
func NewStore(client API, cfg *config.Config) *Store {
	return &Store{
		client:   client,
		bucket:   cfg.S3BucketName,
		baseURL:  strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		endpoint: strings.TrimRight(cfg.AWSEndpointURL, "/"),
		region:   cfg.AWSRegion,
	}
}

// Upload streams r to S3 under key and returns the object's public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.ObjectURL(key), nil
}

// Download opens the object under key. The caller closes Body.
func (s *Store) Download(ctx context.Context, key string) (*domain.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	obj := &domain.Object{Body: out.Body, ContentType: aws.ToString(out.ContentType)}
	if out.ContentLength != nil {
		obj.ContentLength = *out.ContentLength
	}
	return obj, nil
}

// Delete removes the object under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

// ObjectURL returns the public URL of key.
func (s *Store) ObjectURL(key string) string {
	switch {
	case s.baseURL != "":
		return s.baseURL + "/" + key
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

// KeyFromURL recovers the object key from a URL produced by ObjectURL. It is
// used for profiles stored before avatar_key was recorded.
func (s *Store) KeyFromURL(raw string) (string, bool) {
	if s.baseURL != "" && strings.HasPrefix(raw, s.baseURL+"/") {
		return strings.TrimPrefix(raw, s.baseURL+"/"), true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, s.bucket+".") {
		return path, path != ""
	}
	if rest, ok := strings.CutPrefix(path, s.bucket+"/"); ok && rest != "" {
		return rest, true
	}
	return "", false
}
