// Package pipeline runs requests through an ordered list of stages.
//
// Each stage inspects or mutates a shared Context and returns an Outcome:
//   - Continue: pass control to the next stage
//   - Respond:  write a terminal response and stop
//   - Fail:     stop and hand the error to the error responder
//
// The driver loop in Pipeline.Run is the only place where outcomes are interpreted,
// and apperror.Describe is the only translation from an error value to the wire.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productapi/internal/platform/apperror"
	"github.com/abgdnv/productapi/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ErrNoResponse is reported when every stage continued and none responded.
var ErrNoResponse = errors.New("request pipeline finished without a response")

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeRespond
	outcomeFail
)

// Outcome is the tagged result of a stage.
type Outcome struct {
	kind   outcomeKind
	status int
	body   any
	err    error
}

// Continue passes control to the next stage.
func Continue() Outcome {
	return Outcome{kind: outcomeContinue}
}

// Respond ends the pipeline with a JSON response. A nil body writes the status only.
func Respond(status int, body any) Outcome {
	return Outcome{kind: outcomeRespond, status: status, body: body}
}

// Fail ends the pipeline and routes err to the error responder.
func Fail(err error) Outcome {
	if err == nil {
		err = ErrNoResponse
	}
	return Outcome{kind: outcomeFail, err: err}
}

func (o Outcome) IsContinue() bool { return o.kind == outcomeContinue }
func (o Outcome) IsRespond() bool  { return o.kind == outcomeRespond }
func (o Outcome) IsFail() bool     { return o.kind == outcomeFail }
func (o Outcome) Status() int      { return o.status }
func (o Outcome) Body() any        { return o.body }
func (o Outcome) Err() error       { return o.err }

// Context is the per-request state shared by the stages.
type Context struct {
	Request *http.Request
	// Body holds the decoded JSON object once DecodeJSON has run.
	Body   map[string]any
	Logger *slog.Logger
}

// Ctx returns the request context.
func (c *Context) Ctx() context.Context {
	return c.Request.Context()
}

// Param returns a chi URL parameter.
func (c *Context) Param(name string) string {
	return chi.URLParam(c.Request, name)
}

// Query returns the first value of a query parameter.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// Stage is one unit of the pipeline.
type Stage func(c *Context) Outcome

// Pipeline is an ordered list of stages shared by a group of routes.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// New creates a pipeline whose stages run before any route-specific stage.
func New(logger *slog.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: append([]Stage(nil), stages...),
		logger: logger.With("component", "pipeline"),
	}
}

// With returns a copy of the pipeline with stages appended. The receiver is not modified.
func (p *Pipeline) With(stages ...Stage) *Pipeline {
	combined := make([]Stage, 0, len(p.stages)+len(stages))
	combined = append(combined, p.stages...)
	combined = append(combined, stages...)
	return &Pipeline{stages: combined, logger: p.logger}
}

// Handler returns an http.Handler running the pipeline followed by the given stages.
func (p *Pipeline) Handler(stages ...Stage) http.Handler {
	full := p.With(stages...)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := &Context{Request: r, Logger: full.logger}
		status, body := full.Run(c)
		web.RespondJSON(w, full.logger, status, body)
	})
}

// Run drives the stages in order and returns the terminal status and body.
func (p *Pipeline) Run(c *Context) (int, any) {
	for _, stage := range p.stages {
		out := stage(c)
		switch out.kind {
		case outcomeRespond:
			return out.status, out.body
		case outcomeFail:
			return p.respondError(c, out.err)
		}
	}
	return p.respondError(c, ErrNoResponse)
}

// respondError is the terminal error stage. It never fails.
func (p *Pipeline) respondError(c *Context, err error) (int, any) {
	status, body := apperror.Describe(err)
	if status >= http.StatusInternalServerError {
		p.logger.ErrorContext(c.Ctx(), "Request failed", "status", status, "error", err)
	} else {
		p.logger.WarnContext(c.Ctx(), "Request rejected", "status", status, "kind", body.Error, "message", body.Message)
	}
	return status, body
}
