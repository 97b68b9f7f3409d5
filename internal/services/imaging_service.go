// internal/services/imaging_service.go
package services

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/bimg"

	"github.com/natask/faibricator/internal/models"
)

// CompressOptions bounds a recompression pass. Aspect ratio is always
// preserved; images already inside the bounds are re-encoded at the target
// quality without upscaling.
type CompressOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	Format    string // "webp" or "jpeg"; defaults to webp
}

// ImageCompressor is what the snapshot manager needs from the imaging
// layer; tests substitute a stub so the degradation ladder can be exercised
// without libvips.
type ImageCompressor interface {
	Compress(img models.ImageFile, opts CompressOptions) (models.ImageFile, error)
}

// ImagingService recompresses encoded images through libvips.
type ImagingService struct{}

func NewImagingService() *ImagingService {
	return &ImagingService{}
}

func (s *ImagingService) Compress(img models.ImageFile, opts CompressOptions) (models.ImageFile, error) {
	raw, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("failed to decode image %s: %w", img.Name, err)
	}

	source := bimg.NewImage(raw)
	size, err := source.Size()
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("failed to read image size: %w", err)
	}

	width, height := boundedDimensions(size.Width, size.Height, opts.MaxWidth, opts.MaxHeight)

	imageType := bimg.WEBP
	mimeType := "image/webp"
	if opts.Format == "jpeg" {
		imageType = bimg.JPEG
		mimeType = "image/jpeg"
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = 85
	}

	processed, err := source.Process(bimg.Options{
		Width:   width,
		Height:  height,
		Quality: quality,
		Type:    imageType,
	})
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("failed to process image: %w", err)
	}

	return models.ImageFile{
		Base64:   base64.StdEncoding.EncodeToString(processed),
		MimeType: mimeType,
		Name:     compressedName(img.Name),
	}, nil
}

func boundedDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if maxWidth <= 0 || maxHeight <= 0 || (width <= maxWidth && height <= maxHeight) {
		return width, height
	}

	widthRatio := float64(maxWidth) / float64(width)
	heightRatio := float64(maxHeight) / float64(height)
	ratio := widthRatio
	if heightRatio < ratio {
		ratio = heightRatio
	}

	return int(float64(width) * ratio), int(float64(height) * ratio)
}

func compressedName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_cmp" + ext
}
