package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// LoggerExtractor adds the request ID to every record logged with a context
// that carries one.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
