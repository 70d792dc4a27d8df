package file

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used when neither the file name nor its content reveal a type.
const DefaultMIMEType = "application/octet-stream"

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// File is a single user-selected file.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type headerFile struct {
	fh *multipart.FileHeader
}

// FromHeader adapts an uploaded multipart file.
func FromHeader(fh *multipart.FileHeader) File {
	if fh == nil {
		return nil
	}
	return headerFile{fh: fh}
}

func (f headerFile) Name() string { return f.fh.Filename }

func (f headerFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

type pathFile struct {
	path string
}

// FromPath adapts a file on the local filesystem.
func FromPath(path string) File {
	return pathFile{path: path}
}

func (f pathFile) Name() string { return filepath.Base(f.path) }

func (f pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type memFile struct {
	name string
	data []byte
}

// FromBytes wraps in-memory content as a File.
func FromBytes(name string, data []byte) File {
	return memFile{name: name, data: data}
}

func (f memFile) Name() string { return f.name }

func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type failedFile struct {
	name string
	err  error
}

func (f failedFile) Name() string                 { return f.name }
func (f failedFile) Open() (io.ReadCloser, error) { return nil, f.err }

// Preload reads f into memory so it outlives its source, e.g. a multipart
// temp file removed when the request ends. Read errors, including
// ErrFileTooLarge for content over a positive maxBytes, are returned by the
// Open of the resulting File.
func Preload(f File, maxBytes int64) File {
	if f == nil {
		return nil
	}

	data, err := ReadAll(f, maxBytes)
	if err != nil {
		return failedFile{name: f.Name(), err: err}
	}
	return FromBytes(f.Name(), data)
}

var imageMIMETypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
	"image/tiff":    true,
	"image/heic":    true,
	"image/heif":    true,
	"image/avif":    true,
	"image/x-icon":  true,
}

// extensionTypes covers image extensions some platforms' mime tables lack.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",
	".ico":  "image/x-icon",
}

// IsImageMIME reports whether mimeType names an image format.
func IsImageMIME(mimeType string) bool {
	return imageMIMETypes[strings.ToLower(mediaType(mimeType))]
}

// GetExtension returns the lowercased extension of name, including the dot.
func GetExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// DetectMIMEType resolves the MIME type the way a browser labels a picked file:
// the name's extension wins, content sniffing over head is the fallback, and
// DefaultMIMEType is the last resort. Parameters such as charset are dropped.
func DetectMIMEType(name string, head []byte) string {
	ext := GetExtension(name)
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return mediaType(t)
		}
	}

	if len(head) > 0 {
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		if t := mediaType(http.DetectContentType(head)); t != "" {
			return t
		}
	}

	return DefaultMIMEType
}

// ReadAll reads the whole file. A positive maxBytes bounds the read; larger
// files fail with ErrFileTooLarge without being buffered completely.
func ReadAll(f File, maxBytes int64) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpenFile, err)
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if maxBytes > 0 {
		r = io.LimitReader(rc, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes limit: %w", maxBytes, ErrFileTooLarge)
	}

	return data, nil
}

// SanitizeFilename strips directories and NUL bytes so a client supplied name
// is safe to log or display.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}

func mediaType(t string) string {
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(t, ";", 2)[0])
	}
	return mt
}
