package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/productapi/internal/platform/apperror"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// isoMillis is ISO-8601 with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// AccessLog records the method, the path with query string and an ISO-8601
// timestamp for every request. It always continues.
func AccessLog(logger *slog.Logger) Stage {
	return accessLog(logger, time.Now)
}

func accessLog(logger *slog.Logger, now func() time.Time) Stage {
	logger = logger.With("component", "access")
	return func(c *Context) Outcome {
		logger.InfoContext(c.Ctx(), "Request received",
			"timestamp", now().UTC().Format(isoMillis),
			"method", c.Request.Method,
			"url", c.Request.URL.RequestURI(),
		)
		return Continue()
	}
}

// DecodeJSON decodes the request body into Context.Body.
// An empty body decodes to an empty object so that validation reports every field.
func DecodeJSON() Stage {
	return func(c *Context) Outcome {
		body := map[string]any{}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			reader := http.MaxBytesReader(nil, c.Request.Body, MaxBodyBytes)
			var raw any
			err := json.NewDecoder(reader).Decode(&raw)
			switch {
			case errors.Is(err, io.EOF):
			case err != nil:
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					return Fail(apperror.Validation("Request body is too large."))
				}
				return Fail(apperror.Validation("Invalid JSON body."))
			default:
				obj, ok := raw.(map[string]any)
				if !ok {
					return Fail(apperror.Validation("Request body must be a JSON object."))
				}
				body = obj
			}
		}
		c.Body = body
		return Continue()
	}
}
