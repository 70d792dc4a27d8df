package imagefield

import (
	"encoding/base64"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/imagefield/pkg/logger"
)

const (
	// DefaultMaxEncodedLength is the worst case data URI length of a 1920x1080 PNG.
	DefaultMaxEncodedLength = 1_000_000
	// DefaultNoticeTimeout is how long an error notice stays up without user action.
	DefaultNoticeTimeout = 6 * time.Second
	// DefaultReadLimit caps how many bytes are read from a selected file.
	// Files above it end in ReadFailed, even when they are images, because
	// they are never encoded and so cannot be overridden.
	DefaultReadLimit int64 = 32 << 20
	// DefaultMaxPixels bounds the declared dimensions the default decoder accepts.
	DefaultMaxPixels int64 = 50_000_000
)

// Config holds the env-tunable limits of a field.
type Config struct {
	MaxEncodedLength int           `env:"IMAGEFIELD_MAX_ENCODED_LENGTH" envDefault:"1000000"`
	NoticeTimeout    time.Duration `env:"IMAGEFIELD_NOTICE_TIMEOUT" envDefault:"6s"`
	ReadLimit        int64         `env:"IMAGEFIELD_READ_LIMIT" envDefault:"33554432"`
	MaxPixels        int64         `env:"IMAGEFIELD_MAX_PIXELS" envDefault:"50000000"`
}

// Option configures a Field.
type Option func(*options)

type options struct {
	id               string
	label            string
	maxEncodedLength int
	noticeTimeout    time.Duration
	readLimit        int64
	maxPixels        int64
	decoder          Decoder
	logger           *slog.Logger
	onChange         func(State)
	lang             language.Tag
}

func defaultOptions() *options {
	return &options{
		maxEncodedLength: DefaultMaxEncodedLength,
		noticeTimeout:    DefaultNoticeTimeout,
		readLimit:        DefaultReadLimit,
		maxPixels:        DefaultMaxPixels,
		logger:           logger.Discard(),
		lang:             language.English,
	}
}

// WithID sets the field identifier. A random UUID is used when empty.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithLabel sets the display label.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithMaxEncodedLength sets the data URI length at which an image is rejected.
// Non-positive values are ignored.
func WithMaxEncodedLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEncodedLength = n
		}
	}
}

// WithNoticeTimeout sets how long an error notice stays visible.
// Zero or negative keeps notices until they are dismissed.
func WithNoticeTimeout(d time.Duration) Option {
	return func(o *options) { o.noticeTimeout = d }
}

// WithReadLimit caps the number of bytes read from a selected file.
// Larger files end in ReadFailed. Non-positive values disable the cap.
// The cap is raised to the payload size of MaxEncodedLength when lower, so
// any image rejected only for its size can still be overridden.
func WithReadLimit(n int64) Option {
	return func(o *options) { o.readLimit = n }
}

// WithMaxPixels sets the pixel budget of the default decoder.
// Non-positive values are ignored. Has no effect together with WithDecoder.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// WithDecoder replaces the image decoder. Nil is ignored.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithChangeFunc registers fn to observe every state transition, accepted or not.
// fn runs with the field locked and must not call back into the field.
func WithChangeFunc(fn func(State)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithLanguage selects the language notice messages are formatted for.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// WithConfig applies the non-zero values of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.MaxEncodedLength > 0 {
			o.maxEncodedLength = cfg.MaxEncodedLength
		}
		if cfg.NoticeTimeout > 0 {
			o.noticeTimeout = cfg.NoticeTimeout
		}
		if cfg.ReadLimit > 0 {
			o.readLimit = cfg.ReadLimit
		}
		if cfg.MaxPixels > 0 {
			o.maxPixels = cfg.MaxPixels
		}
	}
}

// minReadLimit is the largest payload whose data URI can still be rejected
// only for its size. Reading at least that much keeps the override reachable.
func minReadLimit(maxEncodedLength int) int64 {
	return int64(base64.StdEncoding.DecodedLen(maxEncodedLength))
}
