// Package codec is the image codec boundary: decoding HEIF sources into
// pixels plus their raw EXIF payload, and re-encoding pixels as JPEG with
// the payload re-attached. The batch orchestrator depends only on the
// Decoder and Encoder interfaces so it can run against fakes in tests.
package codec

import (
	"errors"
	"image"
	"io"
)

// Sentinel errors classified by the batch layer.
var (
	// ErrUnsupportedFormat means the file extension is not a recognized
	// HEIF container.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrUnreadableFile means the source file could not be read at all.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrHEIFDisabled is returned by builds compiled with the noheif tag.
	ErrHEIFDisabled = errors.New("HEIF support is disabled in this build")
)

// Decoded is the result of decoding one source image: the pixel data and
// the raw EXIF payload (TIFF stream, no APP1 framing). Exif is nil when
// the source carries no metadata.
type Decoded struct {
	Image image.Image
	Exif  []byte
}

// Decoder reads a source image file into pixels and metadata.
type Decoder interface {
	Decode(path string) (*Decoded, error)
}

// Encoder writes pixels as JPEG at the given quality. A non-nil exif
// payload is embedded byte-for-byte as an APP1 segment.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int, exif []byte) error
}
