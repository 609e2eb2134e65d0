package upload_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/upload"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func newS3Store(t *testing.T, client *mockS3Client, baseURL string) *upload.S3Store {
	t.Helper()
	store, err := upload.NewS3Store(context.Background(), upload.S3Config{
		Bucket:  "forms",
		Region:  "eu-central-1",
		BaseURL: baseURL,
	}, upload.WithS3Client(client))
	require.NoError(t, err)
	return store
}

func TestS3StoreSave(t *testing.T) {
	t.Parallel()

	t.Run("puts object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		var body string
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "forms" &&
				strings.HasPrefix(*in.Key, "avatars/") &&
				*in.ContentType == "image/png" &&
				*in.ContentLength == 3 &&
				in.Metadata["filename"] == "me.png"
		})).Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
			body = string(data)
		}).Return(&s3.PutObjectOutput{}, nil)

		store := newS3Store(t, client, "https://cdn.example.com")
		obj, err := store.Save(context.Background(), fileUpload("me.png", "image/png", "png"), "avatars")
		require.NoError(t, err)
		assert.Equal(t, "png", body)
		assert.Equal(t, "https://cdn.example.com/"+obj.Key, obj.URL)
		client.AssertExpectations(t)
	})

	t.Run("default url", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)
		store := newS3Store(t, client, "")
		obj, err := store.Save(context.Background(), fileUpload("a.txt", "", "a"), "")
		require.NoError(t, err)
		assert.Equal(t, "https://forms.s3.eu-central-1.amazonaws.com/"+obj.Key, obj.URL)
	})

	t.Run("classifies errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			err  error
			want error
		}{
			{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, upload.ErrAccessDenied},
			{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, upload.ErrServiceUnavailable},
			{"no bucket", &types.NoSuchBucket{}, upload.ErrBucketNotFound},
			{"deadline", context.DeadlineExceeded, upload.ErrOperationTimeout},
			{"canceled", context.Canceled, upload.ErrOperationCanceled},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				client := &mockS3Client{}
				client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.err)
				_, err := newS3Store(t, client, "").Save(context.Background(), fileUpload("a.txt", "", "a"), "")
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("unknown api error keeps cause", func(t *testing.T) {
		t.Parallel()
		cause := &smithy.GenericAPIError{Code: "Weird"}
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, cause)
		_, err := newS3Store(t, client, "").Save(context.Background(), fileUpload("a.txt", "", "a"), "")
		var apiErr smithy.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Weird", apiErr.ErrorCode())
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()
		_, err := newS3Store(t, &mockS3Client{}, "").Save(context.Background(), nil, "")
		assert.ErrorIs(t, err, upload.ErrNilFile)
	})
}

func TestS3StoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
		client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
			return *in.Key == "avatars/a.png"
		})).Return(&s3.DeleteObjectOutput{}, nil)

		require.NoError(t, newS3Store(t, client, "").Delete(context.Background(), "/avatars/a.png"))
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
		err := newS3Store(t, client, "").Delete(context.Background(), "a.png")
		assert.ErrorIs(t, err, upload.ErrFileNotFound)
		client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		err := newS3Store(t, &mockS3Client{}, "").Delete(context.Background(), "../a.png")
		assert.ErrorIs(t, err, upload.ErrInvalidPath)
	})
}

func TestS3StorePing(t *testing.T) {
	t.Parallel()

	client := &mockS3Client{}
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil).Once()
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, &types.NoSuchBucket{}).Once()

	store := newS3Store(t, client, "")
	assert.NoError(t, store.Ping(context.Background()))
	assert.ErrorIs(t, store.Ping(context.Background()), upload.ErrBucketNotFound)
}

func TestNewS3StoreConfig(t *testing.T) {
	t.Parallel()
	_, err := upload.NewS3Store(context.Background(), upload.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, upload.ErrInvalidConfig)
}
