//go:build noheif
// +build noheif

package codec

import (
	"path/filepath"
	"strings"
)

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
func HEIFSupported() bool { return false }

type heifDecoder struct{}

// NewDecoder returns a decoder that rejects every file; built with the
// noheif tag there is no cgo codec to call.
func NewDecoder() Decoder {
	return heifDecoder{}
}

func (heifDecoder) Decode(path string) (*Decoded, error) {
	return nil, ErrHEIFDisabled
}
