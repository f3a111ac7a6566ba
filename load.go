package maskpaint

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	// Image formats accepted as source images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes a source image in any registered format: PNG, JPEG,
// GIF, BMP, TIFF or WebP. It returns the format name.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", fmt.Errorf("maskpaint: decode image: %w", err)
	}
	return img, format, nil
}

// LoadImage decodes the source image stored at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	img, _, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeDataURI decodes an image carried in a data:<mime>;base64,<payload>
// URI, such as the output of an upload widget.
func DecodeDataURI(uri string) (image.Image, error) {
	_, payload, err := parseDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := DecodeImage(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// EncodeDataURI returns payload as a base64 data URI of the given MIME type.
func EncodeDataURI(mime string, payload []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(payload)))
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(payload))
	return sb.String()
}

// parseDataURI splits a base64 data URI into its MIME type and payload.
func parseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURI)
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return mime, payload, nil
}
