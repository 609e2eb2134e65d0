package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under the key "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Field records a form field path under "field".
func Field(path string) slog.Attr {
	return slog.String("field", path)
}

// Issues records the number of validation issues under "issues".
func Issues(n int) slog.Attr {
	return slog.Int("issues", n)
}

// Method records an HTTP method under "method".
func Method(m string) slog.Attr {
	return slog.String("method", m)
}

// URL records a request URL under "url".
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// StatusCode records an HTTP status under "status".
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// Transport records the selected body encoding under "transport".
func Transport(name string) slog.Attr {
	return slog.String("transport", name)
}

// Duration records an elapsed time under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
