package codec

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Orientation returns the EXIF orientation (1-8) from a raw payload.
// Returns 1 (normal) when the payload is nil or carries no orientation tag.
func Orientation(payload []byte) int {
	if payload == nil {
		return 1
	}
	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// Timestamp returns the EXIF DateTime from a raw payload, or the zero time
// when absent.
func Timestamp(payload []byte) time.Time {
	if payload == nil {
		return time.Time{}
	}
	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil {
		return time.Time{}
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}
	}
	return t
}

// ClearOrientation returns a copy of the payload with the orientation tag
// value forced to 1. Applied after baking the rotation into pixels, so
// viewers do not rotate the image a second time.
func ClearOrientation(payload []byte) []byte {
	if len(payload) < 10 {
		return payload
	}

	cleaned := make([]byte, len(payload))
	copy(cleaned, payload)

	// Scan for the orientation tag ID (0x0112) in either byte order and
	// overwrite its SHORT value with 1. A full TIFF IFD walk is not
	// needed for the tag layouts phone cameras emit.
	for i := 0; i < len(cleaned)-8; i++ {
		bigEndian := cleaned[i] == 0x01 && cleaned[i+1] == 0x12
		littleEndian := cleaned[i] == 0x12 && cleaned[i+1] == 0x01
		if bigEndian || littleEndian {
			if bigEndian {
				cleaned[i+8] = 0x00
				cleaned[i+9] = 0x01
			} else {
				cleaned[i+8] = 0x01
				cleaned[i+9] = 0x00
			}
			break
		}
	}
	return cleaned
}
