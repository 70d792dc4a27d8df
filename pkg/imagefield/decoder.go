package imagefield

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html/charset"
)

const svgMIMEType = "image/svg+xml"

// ImageInfo describes a successfully decoded image.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Decoder decides whether data is a renderable image.
// A non-nil error means the content is not an image.
type Decoder interface {
	Decode(ctx context.Context, mimeType string, data []byte) (ImageInfo, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, mimeType string, data []byte) (ImageInfo, error)

func (f DecoderFunc) Decode(ctx context.Context, mimeType string, data []byte) (ImageInfo, error) {
	return f(ctx, mimeType, data)
}

type imageDecoder struct {
	maxPixels int64
}

// DefaultDecoder is NewDecoder(DefaultMaxPixels).
func DefaultDecoder() Decoder {
	return NewDecoder(DefaultMaxPixels)
}

// NewDecoder accepts PNG, JPEG, GIF, BMP, TIFF and WebP by content, and SVG
// when labelled image/svg+xml. Raster images are fully decoded, not just
// their headers, so truncated files are rejected.
//
// Decoders allocate the pixel buffer from the declared dimensions, so images
// declaring more than maxPixels pixels are rejected before decoding.
// Non-positive maxPixels means DefaultMaxPixels.
func NewDecoder(maxPixels int64) Decoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return imageDecoder{maxPixels: maxPixels}
}

func (d imageDecoder) Decode(ctx context.Context, mimeType string, data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty content", ErrInvalidImage)
	}

	if mimeType == svgMIMEType {
		return decodeSVG(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w: zero dimensions", ErrInvalidImage)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > d.maxPixels {
		return ImageInfo{}, fmt.Errorf("%w: %w: %dx%d exceeds %d", ErrInvalidImage, ErrTooManyPixels, cfg.Width, cfg.Height, d.maxPixels)
	}

	if err := ctx.Err(); err != nil {
		return ImageInfo{}, err
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeSVG(data []byte) (ImageInfo, error) {
	if !hasSVGRoot(data) {
		return ImageInfo{}, fmt.Errorf("%w: missing svg root element", ErrInvalidImage)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return ImageInfo{
		Format: "svg",
		Width:  int(math.Round(icon.ViewBox.W)),
		Height: int(math.Round(icon.ViewBox.H)),
	}, nil
}

// hasSVGRoot reports whether the first element of an XML document is <svg>.
func hasSVGRoot(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if el, ok := tok.(xml.StartElement); ok {
			return el.Name.Local == "svg"
		}
	}
}
