package blobstore

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"imagevault/internal/domain"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what Probe learns about an uploaded payload
type ImageInfo struct {
	Width  int
	Height int
	Format string
	Bytes  int64
}

// Probe reads the image header to find its format and dimensions. JPEG
// dimensions honor the EXIF orientation tag so portrait photos report the
// size they are displayed at. Pixel data is never decoded. Payloads that are
// not a supported image format are rejected with a ValidationError.
func Probe(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewValidationError("unsupported image format")
	}

	info := &ImageInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Bytes:  int64(len(data)),
	}

	if format == "jpeg" && transposed(jpegOrientation(data)) {
		info.Width, info.Height = info.Height, info.Width
	}

	return info, nil
}

// jpegOrientation returns the EXIF orientation tag (1-8), or 1 when the
// payload carries no readable tag.
func jpegOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// transposed reports whether an orientation rotates the image by 90 degrees.
func transposed(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}
