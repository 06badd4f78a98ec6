package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// Register the decoders used to validate embeddable images.
	_ "image/jpeg"
	_ "image/png"
)

// Assets are the resolved, in-memory images a render call may embed. The
// renderer never fetches or decodes anything itself; callers resolve
// references to bytes beforehand.
type Assets struct {
	// HeaderImage is the decoded letterhead image, nil or empty when the
	// text header should be used instead.
	HeaderImage []byte
}

// sniffImage validates image bytes and returns the gofpdf image type tag.
// Anything that does not decode as PNG or JPEG is rejected so a malformed
// asset can degrade to the text header instead of corrupting the document.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	switch format {
	case "png":
		return "PNG", nil
	case "jpeg":
		return "JPG", nil
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
}

// defaultSignatureB64 is the built-in placeholder signature stamp, embedded
// so rendering needs no asset files at runtime. Deployments replace it by
// rebuilding with their own image.
const defaultSignatureB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// DefaultSignature returns the embedded signature image bytes.
func DefaultSignature() []byte {
	data, err := base64.StdEncoding.DecodeString(defaultSignatureB64)
	if err != nil {
		// The constant is fixed at build time; a decode failure is a
		// programming error, and rendering skips the signature image.
		return nil
	}

	return data
}
