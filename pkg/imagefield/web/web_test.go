package web_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/imagefield/pkg/imagefield"
	"github.com/dmitrymomot/imagefield/pkg/imagefield/web"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T, opts ...web.Option) (*web.Registry, http.Handler) {
	t.Helper()
	reg := web.NewRegistry()
	t.Cleanup(func() { _ = reg.Close() })

	_, err := reg.Register("logo", "Logo", "abc")
	require.NoError(t, err)

	return reg, web.New(reg, opts...).Handle()
}

func uploadRequest(t *testing.T, target, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestShow(t *testing.T) {
	t.Parallel()

	_, h := newService(t, web.WithBasePath("/fields"))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/logo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `id="imagefield-logo"`)
	assert.Contains(t, body, `data-status="no_file"`)
	assert.Contains(t, body, "Logo (3 characters long)")
	assert.Contains(t, body, `value="abc"`)
	assert.Contains(t, body, `action="/fields/logo/file"`)
	assert.NotContains(t, body, `role="alert"`)
}

func TestShow_NotFound(t *testing.T) {
	t.Parallel()

	_, h := newService(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetText(t *testing.T) {
	t.Parallel()

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		reg, h := newService(t)

		rec := serve(h, formRequest("/logo/text", url.Values{"value": {"hello"}}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="hello"`)

		v, ok := reg.Value("logo")
		require.True(t, ok)
		assert.Equal(t, "hello", v)
	})

	t.Run("datastar", func(t *testing.T) {
		t.Parallel()
		reg, h := newService(t)

		req := httptest.NewRequest(http.MethodPost, "/logo/text", strings.NewReader(`{"value":"from signals"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(web.DataStarRequestHeader, "true")
		req.Header.Set("Accept", web.DataStarAcceptHeader)

		rec := serve(h, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
		assert.Contains(t, rec.Body.String(), "datastar-patch-elements")
		assert.Contains(t, rec.Body.String(), "imagefield-logo")

		v, _ := reg.Value("logo")
		assert.Equal(t, "from signals", v)
	})

	t.Run("invalid signals", func(t *testing.T) {
		t.Parallel()
		reg, h := newService(t)

		req := httptest.NewRequest(http.MethodPost, "/logo/text", strings.NewReader(`not json`))
		req.Header.Set(web.DataStarRequestHeader, "true")

		rec := serve(h, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		v, _ := reg.Value("logo")
		assert.Equal(t, "abc", v)
	})
}

func TestSelectFile(t *testing.T) {
	t.Parallel()

	t.Run("valid image is reported", func(t *testing.T) {
		t.Parallel()
		reg, h := newService(t)
		data := pngBytes(t)

		rec := serve(h, uploadRequest(t, "/logo/file", "logo.png", data))
		require.Equal(t, http.StatusOK, rec.Code)

		want := imagefield.EncodeDataURI("image/png", data)
		v, _ := reg.Value("logo")
		assert.Equal(t, want, v)

		body := rec.Body.String()
		assert.Contains(t, body, `data-status="valid_file"`)
		assert.Contains(t, body, `class="imagefield-preview"`)
	})

	t.Run("invalid image then override", func(t *testing.T) {
		t.Parallel()
		reg, h := newService(t)
		content := []byte("plain text pretending to be a png")

		rec := serve(h, uploadRequest(t, "/logo/file", "fake.png", content))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, `data-status="invalid_image"`)
		assert.Contains(t, body, `role="alert"`)
		assert.Contains(t, body, "does not seem to be a valid image")
		assert.Contains(t, body, imagefield.OverrideLabel)
		assert.Contains(t, body, `value=""`)

		v, _ := reg.Value("logo")
		assert.Equal(t, "abc", v)

		rec = serve(h, httptest.NewRequest(http.MethodPost, "/logo/override", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-status="valid_file"`)

		v, _ = reg.Value("logo")
		assert.Equal(t, imagefield.EncodeDataURI("image/png", content), v)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, h := newService(t)

		rec := serve(h, uploadRequest(t, "/logo/file", "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()
		_, h := newService(t)

		rec := serve(h, formRequest("/logo/file", url.Values{"file": {"x"}}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSelectFile_OutlivesRequest(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	blocking := imagefield.DecoderFunc(func(ctx context.Context, mimeType string, data []byte) (imagefield.ImageInfo, error) {
		<-release
		return imagefield.DefaultDecoder().Decode(ctx, mimeType, data)
	})

	reg := web.NewRegistry(imagefield.WithDecoder(blocking))
	t.Cleanup(func() { _ = reg.Close() })
	f, err := reg.Register("logo", "Logo", "")
	require.NoError(t, err)

	h := web.New(reg,
		web.WithMaxUploadMemory(1),
		web.WithWaitTimeout(20*time.Millisecond),
	).Handle()

	data := pngBytes(t)
	req := uploadRequest(t, "/logo/file", "logo.png", data)
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "imagefield-pending")

	// net/http does this once the handler returns.
	require.NotNil(t, req.MultipartForm)
	require.NoError(t, req.MultipartForm.RemoveAll())
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx))

	assert.Equal(t, imagefield.ValidFile, f.State().Status)
	v, _ := reg.Value("logo")
	assert.Equal(t, imagefield.EncodeDataURI("image/png", data), v)
}

func TestDismiss(t *testing.T) {
	t.Parallel()

	_, h := newService(t)
	rec := serve(h, uploadRequest(t, "/logo/file", "fake.png", []byte("nope")))
	require.Contains(t, rec.Body.String(), `role="alert"`)

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/logo/dismiss", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, `role="alert"`)
	assert.Contains(t, body, `data-status="invalid_image"`)
}

func TestClosedField(t *testing.T) {
	t.Parallel()

	reg, h := newService(t)
	require.NoError(t, reg.Close())

	rec := serve(h, formRequest("/logo/text", url.Values{"value": {"x"}}))
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestWithViews(t *testing.T) {
	t.Parallel()

	views := web.Views{Field: func(p web.FieldParams) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, p.ID+":"+p.Status.String()+":"+p.URL("override"))
			return err
		})
	}}
	_, h := newService(t, web.WithViews(views), web.WithBasePath("/f/"))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/logo", nil))
	assert.Equal(t, "logo:no_file:/f/logo/override", rec.Body.String())
}

func TestDefaultView_Escapes(t *testing.T) {
	t.Parallel()

	reg := web.NewRegistry()
	t.Cleanup(func() { _ = reg.Close() })
	_, err := reg.Register("x", `<script>alert(1)</script>`, `"quoted"`)
	require.NoError(t, err)

	rec := serve(web.New(reg).Handle(), httptest.NewRequest(http.MethodGet, "/x", nil))
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, `value="&#34;quoted&#34;"`)
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, web.IsDataStar(plain))

	byHeader := httptest.NewRequest(http.MethodGet, "/", nil)
	byHeader.Header.Set(web.DataStarRequestHeader, "true")
	assert.True(t, web.IsDataStar(byHeader))

	byAccept := httptest.NewRequest(http.MethodGet, "/", nil)
	byAccept.Header.Set("Accept", "text/event-stream, text/html")
	assert.True(t, web.IsDataStar(byAccept))

	byQuery := httptest.NewRequest(http.MethodGet, "/?datastar=%7B%7D", nil)
	assert.True(t, web.IsDataStar(byQuery))
}
