package llm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

// maxImageBytes caps a decoded upload.
const maxImageBytes = 8 * 1024 * 1024

// allowedImageTypes is the set of MIME types accepted from the browser.
// http.DetectContentType covers JPEG, PNG and GIF; WebP is detected
// separately because the stdlib sniffer has no WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectImageMIME returns the sniffed MIME type and true if data is an
// accepted image format.
func DetectImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// ParseDataURL decodes a browser FileReader data URL of the form
// data:<mime>;base64,<payload>. The MIME type is taken from the decoded bytes,
// not from the declared header.
func ParseDataURL(s string) (*Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, fmt.Errorf("missing data: prefix: %w", domain.ErrInvalidImage)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("missing payload: %w", domain.ErrInvalidImage)
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("payload is not base64: %w", domain.ErrInvalidImage)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes: %w", maxImageBytes, domain.ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %v: %w", err, domain.ErrInvalidImage)
	}

	mime, ok := DetectImageMIME(data)
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %w", domain.ErrInvalidImage)
	}
	return &Image{MIMEType: mime, Data: data}, nil
}

// DataURL re-encodes the image for providers that take data URLs.
func (img *Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + img.Base64()
}

func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}
