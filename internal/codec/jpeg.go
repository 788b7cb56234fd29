package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

// exifIdentifier is the APP1 payload prefix that marks an EXIF segment.
var exifIdentifier = []byte("Exif\x00\x00")

// maxExifPayload is the largest EXIF payload that fits in one APP1 segment
// (the segment length field is 16 bits and counts itself plus the
// identifier).
const maxExifPayload = 0xFFFF - 2 - 6

// JPEGEncoder encodes pixels with image/jpeg and splices the source EXIF
// payload into the output as an APP1 segment directly after SOI.
type JPEGEncoder struct{}

// NewEncoder returns the production JPEG encoder.
func NewEncoder() Encoder {
	return JPEGEncoder{}
}

// Encode writes img as a JPEG at quality (1-100). When exif is non-nil it
// is embedded unmodified, so orientation and timestamp tags survive
// exactly as the source recorded them.
func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality int, exif []byte) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}

	data := buf.Bytes()
	if exif != nil {
		withExif, err := insertExif(data, exif)
		if err != nil {
			return err
		}
		data = withExif
	}

	_, err := w.Write(data)
	return err
}

// insertExif builds an APP1 segment around the raw EXIF payload and inserts
// it after the SOI marker of jpegData.
func insertExif(jpegData, exifPayload []byte) ([]byte, error) {
	if len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, fmt.Errorf("encoder produced no SOI marker")
	}
	if len(exifPayload) > maxExifPayload {
		return nil, fmt.Errorf("EXIF payload too large for APP1 segment: %d bytes", len(exifPayload))
	}

	segmentLength := uint16(2 + len(exifIdentifier) + len(exifPayload))

	app1 := make([]byte, 0, 4+len(exifIdentifier)+len(exifPayload))
	app1 = append(app1, 0xFF, 0xE1)
	app1 = append(app1, byte(segmentLength>>8), byte(segmentLength&0xFF))
	app1 = append(app1, exifIdentifier...)
	app1 = append(app1, exifPayload...)

	out := make([]byte, 0, len(jpegData)+len(app1))
	out = append(out, jpegData[:2]...)
	out = append(out, app1...)
	out = append(out, jpegData[2:]...)
	return out, nil
}

// trimExifPrefix strips a leading "Exif\0\0" identifier so stored payloads
// are always the bare TIFF stream, regardless of how the container framed
// them.
func trimExifPrefix(payload []byte) []byte {
	if bytes.HasPrefix(payload, exifIdentifier) {
		return payload[len(exifIdentifier):]
	}
	return payload
}

// ExtractExifSegment returns the raw EXIF payload of an encoded JPEG, or
// nil when it has none. Used by tests and the inspection path.
func ExtractExifSegment(jpegData []byte) []byte {
	if len(jpegData) < 4 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil
	}
	i := 2
	for i+4 <= len(jpegData) {
		if jpegData[i] != 0xFF {
			return nil
		}
		marker := jpegData[i+1]
		// SOS: no metadata segments past this point.
		if marker == 0xDA {
			return nil
		}
		length := int(jpegData[i+2])<<8 | int(jpegData[i+3])
		if length < 2 || i+2+length > len(jpegData) {
			return nil
		}
		if marker == 0xE1 {
			payload := jpegData[i+4 : i+2+length]
			return trimExifPrefix(payload)
		}
		i += 2 + length
	}
	return nil
}
