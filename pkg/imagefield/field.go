package imagefield

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/imagefield/pkg/async"
	"github.com/dmitrymomot/imagefield/pkg/file"
	"github.com/dmitrymomot/imagefield/pkg/logger"
)

// ContentFunc receives every newly accepted value: typed text or an image data URI.
type ContentFunc func(content string)

// Field is the controller behind an input that takes either text or an image file.
//
// Every event (text edit, file selection, pipeline completion, override,
// notice expiry) is handled to completion under one lock, so Status and Value
// never drift apart. File selections run asynchronously; each gets a
// sequence number and only the latest one may change the state.
//
// The ContentFunc and change callback are invoked with the lock held, in
// transition order. They must not call back into the same Field.
type Field struct {
	id        string
	label     string
	opts      *options
	onContent ContentFunc
	printer   *message.Printer
	log       *slog.Logger

	mu          sync.Mutex
	state       State
	seq         uint64
	cancel      context.CancelFunc
	pending     int
	idle        chan struct{}
	notice      *Notice
	noticeGen   uint64
	noticeTimer *time.Timer
	closed      bool
}

// New creates a field holding the caller's current value with status NoFile.
func New(value string, onContent ContentFunc, opts ...Option) *Field {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.decoder == nil {
		o.decoder = NewDecoder(o.maxPixels)
	}
	if o.readLimit > 0 {
		o.readLimit = max(o.readLimit, minReadLimit(o.maxEncodedLength))
	}

	id := o.id
	if id == "" {
		id = uuid.NewString()
	}

	idle := make(chan struct{})
	close(idle)

	return &Field{
		id:        id,
		label:     o.label,
		opts:      o,
		onContent: onContent,
		printer:   message.NewPrinter(o.lang),
		log:       o.logger.With(logger.Component("imagefield"), logger.FieldID(id)),
		state:     State{Status: NoFile, Value: value},
		idle:      idle,
	}
}

// ID returns the field identifier.
func (f *Field) ID() string { return f.id }

// MaxEncodedLength returns the data URI length at which images are rejected.
func (f *Field) MaxEncodedLength() int { return f.opts.maxEncodedLength }

// ReadLimit returns the number of bytes read from a selected file before it
// ends in ReadFailed, or 0 when unbounded.
func (f *Field) ReadLimit() int64 { return f.opts.readLimit }

// Label renders the display label with the length of the caller's value.
// Length is counted in bytes, the unit MaxEncodedLength is measured in.
func (f *Field) Label(external string) string {
	return fmt.Sprintf("%s (%d characters long)", f.label, len(external))
}

// State returns a snapshot of the current state.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsError reports whether the field currently displays an error.
func (f *Field) IsError() bool {
	return f.State().IsError()
}

// DisplayValue is what the text input shows: nothing while in error,
// the caller's value otherwise.
func (f *Field) DisplayValue(external string) string {
	if f.IsError() {
		return ""
	}
	return external
}

// Pending reports whether a file selection is still being processed.
func (f *Field) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending > 0
}

// SetText records typed text. It is accepted as is and reported immediately;
// any file selection still in flight is abandoned.
func (f *Field) SetText(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	f.supersede()
	f.apply(ctx, eventTextEdited, candidate{value: text})
	return nil
}

// SelectFile starts validating src and returns its selection id at once.
// The outcome lands later: ValidFile (reported), InvalidImage, FileTooLarge
// or ReadFailed (not reported). A later SelectFile or SetText makes this
// selection stale and its outcome is discarded.
func (f *Field) SelectFile(ctx context.Context, src file.File) (uint64, error) {
	if src == nil {
		return 0, ErrNilFile
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrClosed
	}

	id := f.supersede()

	// The pipeline outlives the triggering event; only supersede and Close stop it.
	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f.cancel = cancel
	f.begin()

	name := file.SanitizeFilename(src.Name())
	f.log.DebugContext(ctx, "file selected", logger.SelectionID(id), logger.FileName(name))

	read := async.Async(pctx, src, f.readFile)
	decoded := async.Then(pctx, read, f.decodeImage)
	checked := async.Then(pctx, decoded, f.checkSize)
	checked.OnComplete(func(c candidate, err error) {
		defer cancel()
		c.selection, c.name = id, name
		f.settle(pctx, id, c, err)
	})

	return id, nil
}

// Override accepts the current value regardless of status and reports it.
// This is the only way a rejected file becomes the accepted value.
func (f *Field) Override(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	f.apply(ctx, eventOverride, candidate{})
	return nil
}

// Wait blocks until no file selection is being processed or ctx is done.
func (f *Field) Wait(ctx context.Context) error {
	f.mu.Lock()
	idle := f.idle
	f.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close abandons pending selections and stops the notice timer.
// Further edits fail with ErrClosed; reads keep working.
func (f *Field) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.clearNotice()
	return nil
}

// supersede advances the selection sequence and cancels the running pipeline.
// Caller holds f.mu.
func (f *Field) supersede() uint64 {
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return f.seq
}

func (f *Field) begin() {
	if f.pending == 0 {
		f.idle = make(chan struct{})
	}
	f.pending++
}

func (f *Field) end() {
	f.pending--
	if f.pending == 0 {
		close(f.idle)
	}
}

// settle applies the outcome of selection id if it is still the latest one.
func (f *Field) settle(ctx context.Context, id uint64, c candidate, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.end()

	if f.closed || id != f.seq {
		f.log.DebugContext(ctx, "discarding stale selection",
			logger.SelectionID(id),
			slog.Uint64("latest_selection_id", f.seq),
		)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		f.log.WarnContext(ctx, "selected file could not be read",
			logger.SelectionID(id),
			logger.FileName(c.name),
			logger.Error(err),
		)
		f.apply(ctx, eventReadFailed, c)
		return
	}

	f.apply(ctx, c.event, c)
}

// apply performs one transition. Caller holds f.mu.
func (f *Field) apply(ctx context.Context, ev event, c candidate) {
	t, ok := transitions[ev]
	if !ok {
		f.log.ErrorContext(ctx, "unknown field event", logger.Event(ev.String()))
		return
	}

	prev := f.state
	next := State{
		Status:    t.to,
		Value:     c.value,
		MIMEType:  c.mimeType,
		Selection: c.selection,
	}
	if t.keepValue {
		next.Value, next.MIMEType, next.Selection = prev.Value, prev.MIMEType, prev.Selection
	}
	f.state = next

	f.log.DebugContext(ctx, "field transition",
		logger.Event(ev.String()),
		logger.Transition(prev.Status, next.Status),
		logger.SelectionID(next.Selection),
		logger.Size(len(next.Value)),
	)

	if next.Status.IsError() {
		f.showNotice(next.Status)
	} else {
		f.clearNotice()
	}

	if t.report && f.onContent != nil {
		f.onContent(next.Value)
	}
	if f.opts.onChange != nil {
		f.opts.onChange(next)
	}
}
