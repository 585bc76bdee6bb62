package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/ports"
)

type capturedObject struct {
	key         string
	contentType string
	data        []byte
}

// memoryObjectStore is safe for concurrent Puts; the original and its
// thumbnail are stored in parallel.
type memoryObjectStore struct {
	mu      sync.Mutex
	objects []capturedObject
	putErr  error
}

func (m *memoryObjectStore) Put(_ context.Context, in ports.PutObjectInput) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects = append(m.objects, capturedObject{key: in.Key, contentType: in.ContentType, data: data})
	m.mu.Unlock()
	return m.PublicURL(in.Key), nil
}

func (m *memoryObjectStore) original() *capturedObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.objects {
		key := m.objects[i].key
		if strings.HasPrefix(key, "recipes/") && !strings.HasPrefix(key, "recipes/thumb/") {
			return &m.objects[i]
		}
	}
	return nil
}

func (m *memoryObjectStore) thumb() *capturedObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.objects {
		if strings.HasPrefix(m.objects[i].key, "recipes/thumb/") {
			return &m.objects[i]
		}
	}
	return nil
}

func (m *memoryObjectStore) PublicURL(key string) string {
	return "https://img.test/" + key
}

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadService_UploadImage_JPEGWithThumbnail(t *testing.T) {
	store := &memoryObjectStore{}
	svc := NewUploadService(UploadServiceOptions{Store: store})

	res, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        encodeTestJPEG(t, 800, 600),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	require.Len(t, store.objects, 2)

	original := store.original()
	require.NotNil(t, original)
	assert.True(t, strings.HasSuffix(original.key, ".jpg"))
	assert.Equal(t, "image/jpeg", original.contentType)
	assert.Equal(t, "https://img.test/"+original.key, res.URL)

	thumb := store.thumb()
	require.NotNil(t, thumb)
	assert.Equal(t, "image/jpeg", thumb.contentType)
	assert.Equal(t, "https://img.test/"+thumb.key, res.ThumbURL)

	// thumbnail is downsized to the configured width
	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb.data))
	require.NoError(t, err)
	assert.Equal(t, thumbWidth, cfg.Width)
}

func TestUploadService_UploadImage_PNG(t *testing.T) {
	store := &memoryObjectStore{}
	svc := NewUploadService(UploadServiceOptions{Store: store})

	res, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        encodeTestPNG(t, 640, 480),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.Len(t, store.objects, 2)
	original := store.original()
	require.NotNil(t, original)
	assert.True(t, strings.HasSuffix(original.key, ".png"))
	assert.NotEmpty(t, res.ThumbURL)
}

func TestUploadService_UploadImage_WebPSkipsThumbnail(t *testing.T) {
	store := &memoryObjectStore{}
	svc := NewUploadService(UploadServiceOptions{Store: store})

	res, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        []byte("RIFF....WEBPVP8 fake"),
		ContentType: "image/webp",
	})
	require.NoError(t, err)
	require.Len(t, store.objects, 1)
	assert.True(t, strings.HasSuffix(store.objects[0].key, ".webp"))
	assert.Empty(t, res.ThumbURL)
}

func TestUploadService_UploadImage_RejectsUnsupportedType(t *testing.T) {
	svc := NewUploadService(UploadServiceOptions{Store: &memoryObjectStore{}})

	_, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        []byte("GIF89a"),
		ContentType: "image/gif",
	})
	require.Error(t, err)
	assert.True(t, errors.IsUpload(err))
}

func TestUploadService_UploadImage_RejectsOversize(t *testing.T) {
	svc := NewUploadService(UploadServiceOptions{Store: &memoryObjectStore{}, MaxBytes: 10})

	_, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        encodeTestJPEG(t, 64, 64),
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.True(t, errors.IsUpload(err))
}

func TestUploadService_UploadImage_RejectsEmpty(t *testing.T) {
	svc := NewUploadService(UploadServiceOptions{Store: &memoryObjectStore{}})

	_, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        nil,
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.True(t, errors.IsUpload(err))
}

func TestUploadService_UploadImage_StoreFailure(t *testing.T) {
	svc := NewUploadService(UploadServiceOptions{Store: &memoryObjectStore{putErr: io.ErrClosedPipe}})

	_, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        encodeTestJPEG(t, 32, 32),
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.True(t, errors.IsUpload(err))
}

func TestUploadService_UploadImage_CorruptImageStillStoresOriginal(t *testing.T) {
	store := &memoryObjectStore{}
	svc := NewUploadService(UploadServiceOptions{Store: store})

	// Claims to be a JPEG but can't be decoded; the original is kept, the
	// thumbnail is skipped.
	res, err := svc.UploadImage(context.Background(), UploadImageInput{
		Data:        []byte("\xff\xd8\xffgarbage"),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	require.Len(t, store.objects, 1)
	assert.Empty(t, res.ThumbURL)
	assert.NotEmpty(t, res.URL)
}
