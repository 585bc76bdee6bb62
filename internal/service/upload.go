package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder for thumbnailing

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/ports"
)

const (
	// thumbWidth is the max width of generated thumbnails in pixels.
	thumbWidth = 480
	// thumbJPEGQuality balances size against visible artifacts on food photos.
	thumbJPEGQuality = 82
)

// allowed image content types and their object key extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadServiceOptions groups dependencies for UploadService.
type UploadServiceOptions struct {
	Store    ports.ObjectStore
	MaxBytes int64
}

// UploadService validates recipe images, derives thumbnails, and stores both.
type UploadService struct {
	store    ports.ObjectStore
	maxBytes int64
}

// NewUploadService constructs a new UploadService.
func NewUploadService(opts UploadServiceOptions) *UploadService {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadService{store: opts.Store, maxBytes: maxBytes}
}

// UploadImageInput carries a fully-read image payload.
type UploadImageInput struct {
	Data        []byte
	ContentType string
}

// UploadImageResult reports where the stored image can be fetched from.
type UploadImageResult struct {
	URL      string
	ThumbURL string
}

// UploadImage stores a recipe image and, when the format supports it, a
// downsized thumbnail alongside it. The two objects are written concurrently;
// only the original is required to succeed. The returned URL is what gets
// persisted on the recipe as image_url.
func (s *UploadService) UploadImage(ctx context.Context, in UploadImageInput) (*UploadImageResult, error) {
	ext, ok := imageExtensions[in.ContentType]
	if !ok {
		return nil, apperrors.Upload("Only JPEG, PNG, and WebP images are supported.")
	}
	if len(in.Data) == 0 {
		return nil, apperrors.Upload("Image file is empty.")
	}
	if int64(len(in.Data)) > s.maxBytes {
		return nil, apperrors.Upload(fmt.Sprintf("Image exceeds the %d MiB size limit.", s.maxBytes>>20))
	}

	id := uuid.New().String()
	key := fmt.Sprintf("recipes/%s.%s", id, ext)

	var result UploadImageResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := s.store.Put(gctx, ports.PutObjectInput{
			Key:         key,
			ContentType: in.ContentType,
			Body:        bytes.NewReader(in.Data),
			Length:      int64(len(in.Data)),
		})
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeUpload, "Could not store image.")
		}
		result.URL = url
		return nil
	})

	// WebP stays as-is; the standard decoders cover JPEG and PNG only.
	if in.ContentType != "image/webp" {
		g.Go(func() error {
			thumbURL, thumbErr := s.storeThumbnail(gctx, id, in.Data)
			if thumbErr != nil {
				// A missing thumbnail is not fatal as long as the original lands.
				return nil
			}
			result.ThumbURL = thumbURL
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *UploadService) storeThumbnail(ctx context.Context, id string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if encodeErr := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbJPEGQuality}); encodeErr != nil {
		return "", fmt.Errorf("encode thumbnail: %w", encodeErr)
	}

	key := fmt.Sprintf("recipes/thumb/%s.jpg", id)
	return s.store.Put(ctx, ports.PutObjectInput{
		Key:         key,
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(buf.Bytes()),
		Length:      int64(buf.Len()),
	})
}
