// Package file holds helpers for handling a single user-selected file: adapters
// that turn multipart uploads, local paths and in-memory bytes into a common
// File interface, browser-compatible MIME type detection, bounded reads and
// filename sanitizing.
//
// # Usage
//
//	fh := r.MultipartForm.File["file"][0]
//	src := file.FromHeader(fh)
//
//	data, err := file.ReadAll(src, 32<<20)
//	if errors.Is(err, file.ErrFileTooLarge) {
//	    // reject
//	}
//	mimeType := file.DetectMIMEType(src.Name(), data)
//
// # Error Handling
//
// Errors are sentinel values wrapped with context; check them with errors.Is.
package file
