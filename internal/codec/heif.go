//go:build !noheif
// +build !noheif

package codec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdeng/goheif"
)

// heifExtensions are the recognized HEIF container extensions (lowercase).
var heifExtensions = map[string]bool{
	".heif": true,
	".heic": true,
	".hif":  true,
}

// IsHEIF reports whether path has a recognized HEIF extension.
func IsHEIF(path string) bool {
	return heifExtensions[strings.ToLower(filepath.Ext(path))]
}

// HEIFSupported reports whether this binary was built with HEIF support.
func HEIFSupported() bool { return true }

// heifDecoder decodes HEIF files via libheif (through goheif).
type heifDecoder struct{}

// NewDecoder returns the production HEIF decoder.
func NewDecoder() Decoder {
	return heifDecoder{}
}

// Decode reads the whole file, decodes the primary image, and extracts the
// raw EXIF payload. A missing EXIF block is not an error; Exif is just nil.
func (heifDecoder) Decode(path string) (*Decoded, error) {
	if !IsHEIF(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode HEIF: %w", err)
	}

	exifData, err := goheif.ExtractExif(bytes.NewReader(data))
	if err != nil {
		// Not all sources carry EXIF; the batch layer logs and moves on.
		return &Decoded{Image: img}, nil
	}

	return &Decoded{Image: img, Exif: trimExifPrefix(exifData)}, nil
}
