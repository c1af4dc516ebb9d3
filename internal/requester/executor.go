// Package requester implements the outbound request pipeline: a
// single-round-trip HTTP executor, the failure taxonomy it classifies
// outcomes into, and the envelope codec used to interpret backend
// response bodies.
package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/livekenceng/botgacor/internal/logger"
	"go.uber.org/zap"
)

// bodyLogLimit is the largest response body logged in full; longer
// bodies are truncated with the total length noted.
const bodyLogLimit = 500

// Executor performs one HTTP round trip per call against a fixed base
// origin. It holds no cross-call state beyond the underlying client, so
// concurrent use is safe. No retries, no backoff; retry policy belongs
// to the caller.
type Executor struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

// Response is the raw outcome of a round trip. Headers are kept so
// callers can read Set-Cookie values even on non-2xx responses.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Success reports whether the status code is in the 2xx range.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewExecutor creates an Executor for the given origin. The headers map
// is applied to every request and is not copied; callers must not
// mutate it afterwards.
func NewExecutor(baseURL string, headers map[string]string) *Executor {
	return &Executor{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		headers: headers,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (e *Executor) SetTimeout(timeout time.Duration) {
	e.client.Timeout = timeout
}

// Do performs exactly one round trip. The query string is appended
// verbatim; callers are responsible for percent-encoding the values
// they interpolate. A body, when present, is serialized as JSON.
// Unrecognized methods fail before any network activity; transport
// errors are classified; the response is returned as-is for any status
// code so callers can inspect headers and classify the status
// themselves (or use Execute, which does it for them).
func (e *Executor) Do(ctx context.Context, method, path string, body any, query string) (*Response, error) {
	return e.DoWithHeaders(ctx, method, path, body, query, nil)
}

// DoWithHeaders is Do with extra per-call headers layered over the
// executor's fixed ones.
func (e *Executor) DoWithHeaders(ctx context.Context, method, path string, body any, query string, headers map[string]string) (*Response, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, invalidMethodFailure(method)
	}

	url := e.baseURL + path
	if query != "" {
		url += "?" + query
	}

	var reader io.Reader
	var prettyBody []byte
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, encodeFailure(err)
		}
		reader = bytes.NewReader(jsonData)
		prettyBody, _ = json.MarshalIndent(body, "", "  ")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, transportFailure(err)
	}

	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil || method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	// Logging is best-effort and never affects the return value.
	requestID := uuid.NewString()
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
	}
	if query != "" {
		fields = append(fields, zap.String("query", query))
	}
	if prettyBody != nil {
		fields = append(fields, zap.String("body", string(prettyBody)))
	}
	logger.Info("api request", fields...)

	resp, err := e.client.Do(req)
	if err != nil {
		logger.Error("api request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, transportFailure(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(err)
	}

	respFields := []zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
	}
	if len(bodyBytes) <= bodyLogLimit {
		respFields = append(respFields, zap.ByteString("body", bodyBytes))
	} else {
		respFields = append(respFields,
			zap.ByteString("body_prefix", bodyBytes[:bodyLogLimit]),
			zap.Int("body_length", len(bodyBytes)),
		)
	}
	logger.Info("api response", respFields...)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}

// Execute performs one round trip and classifies the outcome: a non-2xx
// status is an HTTPStatus failure carrying status and raw body (even if
// the body would parse), and a 2xx body that does not match T is a
// Decode failure carrying the parse diagnostic and raw body.
func Execute[T any](ctx context.Context, e *Executor, method, path string, body any, query string) (*T, error) {
	resp, err := e.Do(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, HTTPStatusFailure(resp.StatusCode, string(resp.Body))
	}
	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, DecodeFailure(err, string(resp.Body))
	}
	return &out, nil
}
