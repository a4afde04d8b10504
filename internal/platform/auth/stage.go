package auth

import (
	"net/http"

	"github.com/abgdnv/productapi/internal/platform/pipeline"
)

// Stage rejects requests whose x-api-key header does not match the checker's secret.
func Stage(checker *Checker) pipeline.Stage {
	return func(c *pipeline.Context) pipeline.Outcome {
		if !checker.Check(c.Request.Header.Get(HeaderName)) {
			c.Logger.WarnContext(c.Ctx(), "Rejected request with invalid API key", "url", c.Request.URL.Path)
			return pipeline.Respond(http.StatusUnauthorized, map[string]string{"error": UnauthorizedMessage})
		}
		return pipeline.Continue()
	}
}
