package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"frietkot_server/lib"
	"frietkot_server/structs"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	_ "golang.org/x/image/webp"
)

var (
	allowedImageExtensions = []string{".jpeg", ".jpg", ".png", ".gif", ".webp"}
	allowedImageTypes      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

type ImageService struct {
	logger         *gecho.Logger
	storage        ImageStorage
	maxWidth       int
	maxHeight      int
	quality        int
	maxUploadBytes int64
	now            func() time.Time
}

func NewImageService(logger *gecho.Logger, cfg *structs.StorageConfig, storage ImageStorage) *ImageService {
	return &ImageService{
		logger:         logger,
		storage:        storage,
		maxWidth:       cfg.MaxWidth,
		maxHeight:      cfg.MaxHeight,
		quality:        cfg.Quality,
		maxUploadBytes: cfg.MaxUploadBytes,
		now:            time.Now,
	}
}

func (is *ImageService) MaxUploadBytes() int64 {
	return is.maxUploadBytes
}

// Validate checks extension, sniffed content type and size of an upload.
func (is *ImageService) Validate(data []byte, filename string) error {
	if len(data) == 0 {
		return &lib.RequestError{Kind: lib.ErrInvalidImage, Message: "The uploaded image is empty."}
	}
	if is.maxUploadBytes > 0 && int64(len(data)) > is.maxUploadBytes {
		return &lib.RequestError{
			Kind:    lib.ErrInvalidImage,
			Message: fmt.Sprintf("The image is too large, the limit is %d MB.", is.maxUploadBytes>>20),
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowedImageExtensions, ext) {
		return &lib.RequestError{Kind: lib.ErrInvalidImage, Message: "Only image files are allowed (jpeg, jpg, png, gif, webp)."}
	}

	detected := mimetype.Detect(data)
	if !slices.ContainsFunc(allowedImageTypes, detected.Is) {
		return &lib.RequestError{Kind: lib.ErrInvalidImage, Message: "Only image files are allowed (jpeg, jpg, png, gif, webp)."}
	}

	return nil
}

// UploadAndOptimize validates, resizes and re-encodes the image as JPEG, stores it
// below destination and returns its public URL.
func (is *ImageService) UploadAndOptimize(ctx context.Context, data []byte, originalName, destination string) (string, error) {
	if err := is.Validate(data, originalName); err != nil {
		return "", err
	}

	encoded, err := is.optimize(data)
	if err != nil {
		return "", err
	}

	key := path.Join(strings.Trim(destination, "/"), is.fileName(originalName))
	if err := is.storage.Put(ctx, key, encoded, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	url := is.storage.URLFor(key)
	is.logger.Debug("Image uploaded",
		gecho.Field("url", url),
		gecho.Field("original_bytes", len(data)),
		gecho.Field("stored_bytes", len(encoded)),
	)
	return url, nil
}

// optimize fits the image inside the bounding box without enlarging it and
// flattens transparency onto white before encoding.
func (is *ImageService) optimize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &lib.RequestError{Kind: lib.ErrInvalidImage, Message: "The uploaded file could not be read as an image."}
	}

	if is.maxWidth > 0 && is.maxHeight > 0 {
		img = imaging.Fit(img, is.maxWidth, is.maxHeight, imaging.Lanczos)
	}

	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	canvas = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	var out bytes.Buffer
	if err := imaging.Encode(&out, canvas, imaging.JPEG, imaging.JPEGQuality(is.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}

// fileName builds "<slug>-<unix millis>-<8 hex>.jpg" so repeated uploads never collide.
func (is *ImageService) fileName(originalName string) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s.jpg", slugify(base), is.now().UnixMilli(), suffix)
}

const maxSlugLength = 40

// slugify turns a product name into an ASCII file name stem; accents are
// transliterated, so "saté" becomes "sate".
func slugify(s string) string {
	name := slug.Make(s)
	if len(name) > maxSlugLength {
		name = strings.TrimRight(name[:maxSlugLength], "-_")
	}
	if name == "" {
		return "image"
	}
	return name
}

// Delete removes a stored image by URL. A missing image counts as deleted.
// Failures are logged and reported as false, never as an error.
func (is *ImageService) Delete(ctx context.Context, url, destination string) bool {
	if url == "" {
		return true
	}

	key, err := is.storage.KeyFromURL(url)
	if err != nil {
		is.logger.Warn("Refusing to delete image with unrecognised url", gecho.Field("url", url), gecho.Field("error", err))
		return false
	}
	if prefix := strings.Trim(destination, "/"); prefix != "" && !strings.HasPrefix(key, prefix+"/") {
		is.logger.Warn("Refusing to delete image outside its folder", gecho.Field("url", url), gecho.Field("folder", prefix))
		return false
	}

	if err := is.storage.Remove(ctx, key); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			is.logger.Debug("Image already gone", gecho.Field("key", key))
			return true
		}
		is.logger.Warn("Failed to delete image", gecho.Field("key", key), gecho.Field("error", err))
		return false
	}

	is.logger.Debug("Image deleted", gecho.Field("key", key))
	return true
}
