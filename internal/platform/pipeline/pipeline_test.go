package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/productapi/internal/platform/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// recordingStage appends its name to calls and returns out.
func recordingStage(name string, calls *[]string, out Outcome) Stage {
	return func(c *Context) Outcome {
		*calls = append(*calls, name)
		return out
	}
}

func TestPipeline_Handler(t *testing.T) {
	testCases := []struct {
		name          string
		stages        func(calls *[]string) []Stage
		expectedCalls []string
		expectedCode  int
		expectedBody  string
	}{
		{
			name: "Continue then respond",
			stages: func(calls *[]string) []Stage {
				return []Stage{
					recordingStage("a", calls, Continue()),
					recordingStage("b", calls, Respond(http.StatusOK, map[string]string{"ok": "yes"})),
				}
			},
			expectedCalls: []string{"a", "b"},
			expectedCode:  http.StatusOK,
			expectedBody:  `{"ok":"yes"}`,
		},
		{
			name: "Respond short-circuits remaining stages",
			stages: func(calls *[]string) []Stage {
				return []Stage{
					recordingStage("a", calls, Respond(http.StatusBadRequest, map[string][]string{"errors": {"bad"}})),
					recordingStage("b", calls, Respond(http.StatusOK, nil)),
				}
			},
			expectedCalls: []string{"a"},
			expectedCode:  http.StatusBadRequest,
			expectedBody:  `{"errors":["bad"]}`,
		},
		{
			name: "Fail skips to the error responder",
			stages: func(calls *[]string) []Stage {
				return []Stage{
					recordingStage("a", calls, Fail(apperror.NotFound("Product not found"))),
					recordingStage("b", calls, Respond(http.StatusOK, nil)),
				}
			},
			expectedCalls: []string{"a"},
			expectedCode:  http.StatusNotFound,
			expectedBody:  `{"error":"NotFoundError","message":"Product not found"}`,
		},
		{
			name: "Generic failure becomes ServerError",
			stages: func(calls *[]string) []Stage {
				return []Stage{recordingStage("a", calls, Fail(errors.New("boom")))}
			},
			expectedCalls: []string{"a"},
			expectedCode:  http.StatusInternalServerError,
			expectedBody:  `{"error":"ServerError","message":"boom"}`,
		},
		{
			name: "No stage responds",
			stages: func(calls *[]string) []Stage {
				return []Stage{recordingStage("a", calls, Continue())}
			},
			expectedCalls: []string{"a"},
			expectedCode:  http.StatusInternalServerError,
			expectedBody:  `{"error":"ServerError","message":"request pipeline finished without a response"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var calls []string
			var buf bytes.Buffer
			h := New(testLogger(&buf)).Handler(tc.stages(&calls)...)
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			// then
			assert.Equal(t, tc.expectedCalls, calls)
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestPipeline_With_DoesNotMutate(t *testing.T) {
	// given
	var calls []string
	var buf bytes.Buffer
	base := New(testLogger(&buf), recordingStage("base", &calls, Continue()))

	// when
	extended := base.With(recordingStage("extra", &calls, Respond(http.StatusOK, nil)))
	status, _ := extended.Run(&Context{Request: httptest.NewRequest(http.MethodGet, "/", nil)})
	calls = nil
	baseStatus, _ := base.Run(&Context{Request: httptest.NewRequest(http.MethodGet, "/", nil)})

	// then
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"base"}, calls)
	assert.Equal(t, http.StatusInternalServerError, baseStatus)
}

func TestFail_NilError(t *testing.T) {
	out := Fail(nil)
	assert.True(t, out.IsFail())
	assert.ErrorIs(t, out.Err(), ErrNoResponse)
}

func TestAccessLog(t *testing.T) {
	// given
	var buf bytes.Buffer
	fixed := time.Date(2024, 5, 1, 12, 30, 45, 123_000_000, time.UTC)
	stage := accessLog(testLogger(&buf), func() time.Time { return fixed })
	c := &Context{Request: httptest.NewRequest(http.MethodGet, "/products?page=2", nil)}

	// when
	out := stage(c)

	// then
	assert.True(t, out.IsContinue())
	logged := buf.String()
	assert.Contains(t, logged, `"timestamp":"2024-05-01T12:30:45.123Z"`)
	assert.Contains(t, logged, `"method":"GET"`)
	assert.Contains(t, logged, `"url":"/products?page=2"`)
}

func TestDecodeJSON(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectFail  bool
		expectedMsg string
		expected    map[string]any
	}{
		{
			name:     "Object",
			body:     `{"name":"Mouse","price":20,"inStock":true}`,
			expected: map[string]any{"name": "Mouse", "price": float64(20), "inStock": true},
		},
		{
			name:     "Empty body",
			body:     "",
			expected: map[string]any{},
		},
		{
			name:        "Malformed JSON",
			body:        `{"name":`,
			expectFail:  true,
			expectedMsg: "Invalid JSON body.",
		},
		{
			name:        "Array instead of object",
			body:        `[1,2]`,
			expectFail:  true,
			expectedMsg: "Request body must be a JSON object.",
		},
		{
			name:        "Too large",
			body:        `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`,
			expectFail:  true,
			expectedMsg: "Request body is too large.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tc.body))
			c := &Context{Request: req}

			// when
			out := DecodeJSON()(c)

			// then
			if tc.expectFail {
				require.True(t, out.IsFail())
				status, body := apperror.Describe(out.Err())
				assert.Equal(t, http.StatusBadRequest, status)
				assert.Equal(t, tc.expectedMsg, body.Message)
				return
			}
			require.True(t, out.IsContinue())
			assert.Equal(t, tc.expected, c.Body)
		})
	}
}
