// Package web serves image fields over HTTP.
//
// A Registry holds the fields and the value each one last reported. A Service
// exposes them through a chi router:
//
//	GET  /{id}           render the field
//	POST /{id}/text      typed text, from Datastar signals {"value": ...} or a form value
//	POST /{id}/file      multipart upload in the "file" part
//	POST /{id}/override  accept the rejected file anyway
//	POST /{id}/dismiss   hide the notice
//
// Every route responds with the rendered field. Datastar requests receive it
// as an SSE element patch targeting the field's root element; other requests
// receive plain HTML, so the forms in the default markup work without
// JavaScript.
//
// Usage:
//
//	reg := web.NewRegistry(imagefield.WithConfig(cfg))
//	reg.Register("logo", "Logo", currentLogo)
//	defer reg.Close()
//
//	r := chi.NewRouter()
//	r.Mount("/fields", web.New(reg, web.WithBasePath("/fields")).Handle())
package web
