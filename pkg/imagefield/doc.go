// Package imagefield implements the controller of an input that accepts either
// free text or a single image file.
//
// Typed text is trusted and accepted immediately. A selected file goes through
// an asynchronous pipeline built on pkg/async:
//
//	read file -> encode as data URI -> decode as image -> check encoded length
//
// and ends in one of four statuses: ValidFile (accepted and reported),
// InvalidImage or FileTooLarge (soft errors the user may override), or
// ReadFailed (the file could not be read; nothing to override).
//
// Soft errors are state, never returned errors. While a field is in an error
// status it exposes a Notice that expires after a timeout (6s by default)
// without clearing the status. Override accepts the held value whatever the
// status is.
//
// # Usage
//
//	field := imagefield.New(current, func(content string) {
//	    saveLogo(content)
//	}, imagefield.WithLabel("Logo"))
//	defer field.Close()
//
//	_ = field.SetText(ctx, "https://example.com/logo.png")
//
//	id, err := field.SelectFile(ctx, file.FromHeader(fh))
//	if err != nil {
//	    return err
//	}
//	_ = field.Wait(ctx)
//
//	if n, ok := field.Notice(); ok && n.Overridable() {
//	    // show n.Message with an n.Action button wired to field.Override
//	}
//
// # Concurrency
//
// A Field serializes every event with a mutex. Each file selection gets a
// monotonically increasing id and its own context; a newer selection or a
// text edit cancels the older pipeline and its late result is dropped, so the
// last user action always wins.
//
// # Configuration
//
// The rejection threshold, notice timeout and read limit come from options or
// from Config, which can be loaded from the environment with pkg/config:
//
//	var cfg imagefield.Config
//	config.MustLoad(&cfg)
//	field := imagefield.New("", onContent, imagefield.WithConfig(cfg))
package imagefield
