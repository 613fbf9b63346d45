package s3infra

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/money-tracker-api/internal/config"
	"github.com/money-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct{ mock.Mock }

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"public base", config.Config{S3BucketName: "b", S3PublicBaseURL: "https://cdn.example/", AWSRegion: "eu-central-1"}, "https://cdn.example/avatars/u/1.png"},
		{"endpoint override", config.Config{S3BucketName: "b", AWSEndpointURL: "http://localhost:4566", AWSRegion: "eu-central-1"}, "http://localhost:4566/b/avatars/u/1.png"},
		{"regional", config.Config{S3BucketName: "b", AWSRegion: "eu-central-1"}, "https://b.s3.eu-central-1.amazonaws.com/avatars/u/1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(&mockS3{}, &tt.cfg)
			assert.Equal(t, tt.want, s.ObjectURL("avatars/u/1.png"))
		})
	}
}

func TestKeyFromURL_RoundTrips(t *testing.T) {
	cfgs := []config.Config{
		{S3BucketName: "b", S3PublicBaseURL: "https://cdn.example"},
		{S3BucketName: "b", AWSEndpointURL: "http://localhost:4566"},
		{S3BucketName: "b", AWSRegion: "us-east-1"},
	}
	for _, cfg := range cfgs {
		s := NewStore(&mockS3{}, &cfg)
		key, ok := s.KeyFromURL(s.ObjectURL("avatars/u/abc.jpg"))
		require.True(t, ok)
		assert.Equal(t, "avatars/u/abc.jpg", key)
	}
}

func TestKeyFromURL_ForeignURL(t *testing.T) {
	s := NewStore(&mockS3{}, &config.Config{S3BucketName: "b", AWSRegion: "us-east-1"})
	_, ok := s.KeyFromURL("https://elsewhere.example/pic.png")
	assert.False(t, ok)
}

func TestUpload_PutsIntoBucket(t *testing.T) {
	api := &mockS3{}
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "b" &&
			aws.ToString(in.Key) == "avatars/u/1.png" &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	s := NewStore(api, &config.Config{S3BucketName: "b", S3PublicBaseURL: "https://cdn.example"})
	u, err := s.Upload(context.Background(), "avatars/u/1.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/avatars/u/1.png", u)
}

func TestDownload_MissingKeyIsNotFound(t *testing.T) {
	api := &mockS3{}
	api.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, err := NewStore(api, &config.Config{S3BucketName: "b"}).Download(context.Background(), "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDownload_ReturnsMetadata(t *testing.T) {
	api := &mockS3{}
	api.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader("img")),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(3),
	}, nil)

	obj, err := NewStore(api, &config.Config{S3BucketName: "b"}).Download(context.Background(), "k")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, int64(3), obj.ContentLength)
}
