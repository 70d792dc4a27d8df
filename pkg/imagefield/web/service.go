package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/imagefield/pkg/file"
	"github.com/dmitrymomot/imagefield/pkg/imagefield"
	"github.com/dmitrymomot/imagefield/pkg/logger"
)

const (
	// DefaultMaxUploadMemory is how much of a multipart upload is kept in memory.
	DefaultMaxUploadMemory = 10 << 20
	// DefaultWaitTimeout bounds how long an upload request waits for validation.
	DefaultWaitTimeout = 10 * time.Second
)

// Service serves the fields of a Registry over HTTP.
type Service struct {
	registry        *Registry
	views           Views
	log             *slog.Logger
	basePath        string
	maxUploadMemory int64
	waitTimeout     time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithViews replaces the default markup.
func WithViews(v Views) Option {
	return func(s *Service) {
		if v.Field != nil {
			s.views = v
		}
	}
}

// WithLogger sets the logger for request errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBasePath sets the path the handler is mounted under, used to build action URLs.
func WithBasePath(p string) Option {
	return func(s *Service) { s.basePath = p }
}

// WithMaxUploadMemory sets the in-memory part of multipart parsing.
func WithMaxUploadMemory(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadMemory = n
		}
	}
}

// WithWaitTimeout sets how long an upload waits for its selection to settle
// before responding with the pending state.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.waitTimeout = d
		}
	}
}

// New creates a Service for registry.
func New(registry *Registry, opts ...Option) *Service {
	s := &Service{
		registry:        registry,
		views:           DefaultViews(),
		log:             logger.Discard(),
		maxUploadMemory: DefaultMaxUploadMemory,
		waitTimeout:     DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the router. Mount it under the configured base path.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/{id}", s.field(s.show))
	r.Post("/{id}/text", s.field(s.setText))
	r.Post("/{id}/file", s.field(s.selectFile))
	r.Post("/{id}/override", s.field(s.override))
	r.Post("/{id}/dismiss", s.field(s.dismiss))
	return r
}

type fieldHandler func(w http.ResponseWriter, r *http.Request, id string, f *imagefield.Field) error

// field resolves the {id} path parameter and renders the field after h succeeds.
func (s *Service) field(h fieldHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		r = r.WithContext(logger.ContextWithFieldID(r.Context(), id))

		f, ok := s.registry.Get(id)
		if !ok {
			s.fail(w, r, ErrFieldNotFound)
			return
		}

		if err := h(w, r, id, f); err != nil {
			s.fail(w, r, err)
			return
		}

		if err := s.render(w, r, id, f); err != nil {
			s.log.ErrorContext(r.Context(), "failed to render field", logger.Error(err))
		}
	}
}

func (s *Service) show(http.ResponseWriter, *http.Request, string, *imagefield.Field) error {
	return nil
}

type textSignals struct {
	Value string `json:"value"`
}

func (s *Service) setText(_ http.ResponseWriter, r *http.Request, _ string, f *imagefield.Field) error {
	var text string
	if IsDataStar(r) {
		var signals textSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return errors.Join(ErrInvalidSignals, err)
		}
		text = signals.Value
	} else {
		text = r.FormValue("value")
	}
	return f.SetText(r.Context(), text)
}

func (s *Service) selectFile(_ http.ResponseWriter, r *http.Request, _ string, f *imagefield.Field) error {
	if err := r.ParseMultipartForm(s.maxUploadMemory); err != nil {
		return errors.Join(ErrMissingFile, err)
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		return errors.Join(ErrMissingFile, err)
	}

	// Multipart temp files are removed when the handler returns, which may
	// be before validation finishes.
	src := file.Preload(file.FromHeader(header), f.ReadLimit())

	sel, err := f.SelectFile(r.Context(), src)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.waitTimeout)
	defer cancel()
	if err := f.Wait(ctx); err != nil {
		// Respond with the pending state; the outcome shows on the next render.
		s.log.WarnContext(r.Context(), "file still processing", logger.SelectionID(sel), logger.Error(err))
	}
	return nil
}

func (s *Service) override(_ http.ResponseWriter, r *http.Request, _ string, f *imagefield.Field) error {
	return f.Override(r.Context())
}

func (s *Service) dismiss(_ http.ResponseWriter, _ *http.Request, _ string, f *imagefield.Field) error {
	f.DismissNotice()
	return nil
}

// Params collects the view parameters for a field.
func (s *Service) Params(id string, f *imagefield.Field) FieldParams {
	external, _ := s.registry.Value(id)
	st := f.State()

	p := FieldParams{
		ID:       id,
		BasePath: s.basePath,
		Label:    f.Label(external),
		Value:    f.DisplayValue(external),
		Status:   st.Status,
		Pending:  f.Pending(),
	}
	if n, ok := f.Notice(); ok {
		p.Notice = &n
	}
	if st.Status == imagefield.ValidFile && imagefield.IsDataURI(st.Value) {
		p.Preview = st.Value
	}
	return p
}

// render sends the field as an SSE element patch to Datastar and as HTML to everyone else.
func (s *Service) render(w http.ResponseWriter, r *http.Request, id string, f *imagefield.Field) error {
	component := s.views.Field(s.Params(id, f))

	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		return sse.PatchElementTempl(component)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrFieldNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidSignals), errors.Is(err, imagefield.ErrNilFile):
		code = http.StatusBadRequest
	case errors.Is(err, imagefield.ErrClosed):
		code = http.StatusGone
	}

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "field request failed",
		slog.Int("status", code),
		logger.Error(err),
	)

	http.Error(w, http.StatusText(code), code)
}
