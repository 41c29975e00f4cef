package seed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"batik-store/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) ([]model.Product, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

type fakeS3 struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.keys = append(f.keys, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestS3Loader_Load(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCatalog(&buf, []model.Product{{ID: 9, Name: "Batik Truntum", Price: 275000}}))

	client := &fakeS3{objects: map[string][]byte{"catalog/catalog1.gz": buf.Bytes()}}
	loader := newS3Loader(client, "batik-seed", zerolog.Nop())

	products, err := loader.Load(context.Background(), "catalog/catalog1.gz")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Batik Truntum", products[0].Name)

	_, err = loader.Load(context.Background(), "catalog/missing.gz")
	assert.Error(t, err)
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			assert.Equal(t, "catalog/catalog1.gz", path, "S3 key should have prefix")
			return []model.Product{{ID: 1, Name: "from s3"}}, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", true, zerolog.Nop())

	products, err := fallback.Load(context.Background(), "catalog1.gz")
	require.NoError(t, err)
	assert.Equal(t, "from s3", products[0].Name)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			assert.Equal(t, "catalog1.gz", path, "local path should not have prefix")
			return []model.Product{{ID: 1, Name: "from disk"}}, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", true, zerolog.Nop())

	products, err := fallback.Load(context.Background(), "catalog1.gz")
	require.NoError(t, err)
	assert.Equal(t, "from disk", products[0].Name)
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	called := false
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			called = true
			return nil, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			return []model.Product{{ID: 1, Name: "from disk"}}, nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", false, zerolog.Nop())

	_, err := fallback.Load(context.Background(), "catalog1.gz")
	require.NoError(t, err)
	assert.False(t, called)
}
