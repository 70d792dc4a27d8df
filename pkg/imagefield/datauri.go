package imagefield

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrymomot/imagefield/pkg/file"
)

const (
	dataURIScheme = "data:"
	base64Param   = ";base64"
	// defaultDataURIType is what RFC 2397 assumes when the media type is omitted.
	defaultDataURIType = "text/plain"
)

// EncodeDataURI renders data as "data:<mimeType>;base64,<payload>".
// An empty mimeType becomes application/octet-stream, as browsers do.
func EncodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = file.DefaultMIMEType
	}

	var b strings.Builder
	b.Grow(len(dataURIScheme) + len(mimeType) + len(base64Param) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataURIScheme)
	b.WriteString(mimeType)
	b.WriteString(base64Param)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// EncodedLength predicts len(EncodeDataURI(mimeType, data)) for a payload of size bytes.
func EncodedLength(mimeType string, size int) int {
	if mimeType == "" {
		mimeType = file.DefaultMIMEType
	}
	return len(dataURIScheme) + len(mimeType) + len(base64Param) + 1 + base64.StdEncoding.EncodedLen(size)
}

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return len(s) >= len(dataURIScheme) && strings.EqualFold(s[:len(dataURIScheme)], dataURIScheme)
}

// ParseDataURI splits a base64 data URI into its media type and decoded payload.
// Media type parameters other than base64 are dropped.
func ParseDataURI(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, ErrInvalidDataURI
	}

	meta, payload, ok := strings.Cut(s[len(dataURIScheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}

	params := strings.Split(meta, ";")
	if len(params) < 2 || !strings.EqualFold(params[len(params)-1], "base64") {
		return "", nil, ErrUnsupportedEncoding
	}

	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	if mimeType == "" {
		mimeType = defaultDataURIType
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	return mimeType, data, nil
}
