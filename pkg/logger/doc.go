// Package logger provides a context-aware wrapper around Go's slog package
// with functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New builds a *slog.Logger: it picks slog.NewTextHandler or
// slog.NewJSONHandler based on the configured Format and wraps it with
// LogHandlerDecorator, which runs every registered ContextExtractor before
// delegating to the underlying handler.
//
// Helper constructors such as Error, FieldID, SelectionID and Transition live
// in attr.go and keep attribute naming consistent across packages.
//
// # Usage
//
//	import "github.com/dmitrymomot/imagefield/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithEnvironment(os.Getenv("APP_ENV"), "imagefield"),
//	        logger.WithContextExtractors(logger.FieldIDExtractor),
//	    )
//	    logger.SetAsDefault(log)
//
//	    ctx := logger.ContextWithFieldID(context.Background(), "logo")
//	    log.InfoContext(ctx, "file selected", logger.SelectionID(3))
//	}
//
// # Configuration
//
//   • WithDevelopment / WithProduction / WithEnvironment – defaults per environment.
//   • WithFormat / WithTextFormatter / WithJSONFormatter – override output format.
//   • WithLevel / WithLevelName – set the minimum level.
//   • WithAttr – attach static attributes.
//   • WithContextExtractors / WithContextValue – inject attributes from context.
//
// Discard returns a logger that drops everything; libraries use it as their
// default so they stay silent unless a logger is supplied.
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error value is
// non-nil, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no additional nil check.
package logger
