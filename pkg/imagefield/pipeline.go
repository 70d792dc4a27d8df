package imagefield

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/imagefield/pkg/file"
	"github.com/dmitrymomot/imagefield/pkg/logger"
)

// candidate is the value a file selection proposes, threaded through the
// read, decode and size-check stages.
type candidate struct {
	event     event
	selection uint64
	name      string
	mimeType  string
	value     string
	info      ImageInfo
}

// readFile loads the file and encodes it as a data URI.
func (f *Field) readFile(_ context.Context, src file.File) (candidate, error) {
	data, err := file.ReadAll(src, f.opts.readLimit)
	if err != nil {
		return candidate{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	mimeType := file.DetectMIMEType(src.Name(), data)
	return candidate{
		mimeType: mimeType,
		value:    EncodeDataURI(mimeType, data),
	}, nil
}

// decodeImage checks that the data URI holds a renderable image.
// A failed decode is an outcome, not an error.
func (f *Field) decodeImage(ctx context.Context, c candidate) (candidate, error) {
	mimeType, data, err := ParseDataURI(c.value)
	if err == nil {
		c.info, err = f.opts.decoder.Decode(ctx, mimeType, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return candidate{}, ctxErr
		}
		f.log.DebugContext(ctx, "file is not a valid image",
			logger.MIMEType(mimeType),
			logger.Error(err),
		)
		c.event = eventImageInvalid
		return c, nil
	}

	f.log.DebugContext(ctx, "image decoded",
		slog.String("format", c.info.Format),
		slog.Int("width", c.info.Width),
		slog.Int("height", c.info.Height),
	)
	return c, nil
}

// checkSize compares the encoded length against the configured ceiling.
func (f *Field) checkSize(_ context.Context, c candidate) (candidate, error) {
	if c.event != eventNone {
		return c, nil
	}

	if len(c.value) < f.opts.maxEncodedLength {
		c.event = eventImageAccepted
	} else {
		c.event = eventImageTooLarge
	}
	return c, nil
}
