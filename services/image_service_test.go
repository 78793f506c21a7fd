package services

import (
	"bytes"
	"context"
	"frietkot_server/lib"
	"frietkot_server/structs"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig() *structs.StorageConfig {
	return &structs.StorageConfig{
		Backend:        "local",
		PublicPrefix:   "/images",
		MaxWidth:       300,
		MaxHeight:      300,
		Quality:        80,
		MaxUploadBytes: 5 << 20,
		Folder:         "products",
	}
}

func newTestImageService(t *testing.T) (*ImageService, *LocalImageStorage) {
	t.Helper()
	storage, err := NewLocalImageStorage(t.TempDir(), "/images")
	require.NoError(t, err)
	return NewImageService(testLogger(), testStorageConfig(), storage), storage
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			// left half transparent, right half opaque red
			if x >= width/2 {
				img.Set(x, y, color.NRGBA{R: 200, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAndOptimize(t *testing.T) {
	svc, storage := newTestImageService(t)

	url, err := svc.UploadAndOptimize(context.Background(), pngBytes(t, 600, 400), "Big Photo!.png", "products")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/images/products/big-photo-\d+-[0-9a-f]{8}\.jpg$`), url)

	key, err := storage.KeyFromURL(url)
	require.NoError(t, err)
	stored, err := os.ReadFile(filepath.Join(storage.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// Transparent pixels are flattened onto white.
	r, g, b, _ := img.At(10, 100).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestUploadAndOptimizeDoesNotEnlarge(t *testing.T) {
	svc, storage := newTestImageService(t)

	url, err := svc.UploadAndOptimize(context.Background(), pngBytes(t, 120, 80), "small.png", "products")
	require.NoError(t, err)

	key, err := storage.KeyFromURL(url)
	require.NoError(t, err)
	stored, err := os.ReadFile(filepath.Join(storage.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestValidateImage(t *testing.T) {
	svc, _ := newTestImageService(t)
	valid := pngBytes(t, 10, 10)

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  bool
	}{
		{name: "png", data: valid, filename: "friet.PNG"},
		{name: "wrong extension", data: valid, filename: "friet.svg", wantErr: true},
		{name: "text disguised as image", data: []byte("just some text, not an image"), filename: "friet.jpg", wantErr: true},
		{name: "empty", data: nil, filename: "friet.png", wantErr: true},
		{name: "too large", data: append(valid, make([]byte, 5<<20)...), filename: "friet.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.data, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, lib.ErrInvalidImage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc, storage := newTestImageService(t)

	_, err := svc.UploadAndOptimize(context.Background(), []byte("%PDF-1.4 not an image"), "menu.jpg", "products")
	assert.ErrorIs(t, err, lib.ErrInvalidImage)

	entries, err := os.ReadDir(storage.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestImageService(t)
	ctx := context.Background()

	url, err := svc.UploadAndOptimize(ctx, pngBytes(t, 20, 20), "bicky.png", "products")
	require.NoError(t, err)

	assert.True(t, svc.Delete(ctx, url, "products"))
	assert.True(t, svc.Delete(ctx, url, "products"), "deleting a missing image succeeds")
	assert.True(t, svc.Delete(ctx, "", "products"))
}

func TestDeleteRefusesForeignURLs(t *testing.T) {
	svc, storage := newTestImageService(t)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "banners/summer.jpg", []byte("x"), "image/jpeg"))

	assert.False(t, svc.Delete(ctx, "/images/banners/summer.jpg", "products"))
	assert.False(t, svc.Delete(ctx, "https://elsewhere.example/products/a.jpg", "products"))
	assert.False(t, svc.Delete(ctx, "/images/products/../../etc/passwd", "products"))

	_, err := os.Stat(filepath.Join(storage.Root(), "banners", "summer.jpg"))
	assert.NoError(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Grote Friet (met mayo)", want: "grote-friet-met-mayo"},
		{in: "Frietjes met saté", want: "frietjes-met-sate"},
		{in: "Crème brûlée", want: "creme-brulee"},
		{in: "???", want: "image"},
		{in: "", want: "image"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}

	long := slugify(strings.Repeat("friet ", 20))
	assert.LessOrEqual(t, len(long), 40)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestS3URLMapping(t *testing.T) {
	cfg := &structs.StorageConfig{S3Endpoint: "storage.example.com", S3Bucket: "product-images", S3UseSSL: true}
	storage := newS3ImageStorage(nil, cfg)

	url := storage.URLFor("products/friet-1-abcdef12.jpg")
	assert.Equal(t, "https://storage.example.com/product-images/products/friet-1-abcdef12.jpg", url)

	key, err := storage.KeyFromURL(url + "?v=2")
	require.NoError(t, err)
	assert.Equal(t, "products/friet-1-abcdef12.jpg", key)

	_, err = storage.KeyFromURL("https://other.example.com/product-images/products/x.jpg")
	assert.Error(t, err)

	cfg.S3PublicURL = "https://cdn.example.com/storage/v1/object/public/product-images/"
	custom := newS3ImageStorage(nil, cfg)
	assert.Equal(t, "https://cdn.example.com/storage/v1/object/public/product-images/products/a.jpg", custom.URLFor("products/a.jpg"))
}

func TestNewImageStorage(t *testing.T) {
	_, err := NewImageStorage(&structs.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = NewImageStorage(&structs.StorageConfig{Backend: "s3"})
	assert.Error(t, err, "s3 without endpoint must fail")

	dir := t.TempDir()
	storage, err := NewImageStorage(&structs.StorageConfig{Backend: "local", LocalDir: dir, PublicPrefix: "images/"})
	require.NoError(t, err)
	assert.Equal(t, "/images/products/a.jpg", storage.URLFor("products/a.jpg"))

	local, ok := storage.(*LocalImageStorage)
	require.True(t, ok)
	assert.Equal(t, "/images", local.PublicPrefix())
	assert.Equal(t, dir, local.Root())
}
