// Package transport is the HTTP facade over the Micetro REST API. It owns
// URL construction, basic authentication, payload sanitizing, status code
// expectations and error decoding. It knows nothing about resource kinds.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/pool"
	"github.com/jroosing/mmws/internal/sanitize"
)

// APIPath is the path of the REST API below the server root.
const APIPath = "/mmws/api/"

const maxResponseBody = 32 << 20

var responseBuffers = pool.NewBuffers()

// Transport issues authenticated requests against one MMWS base URL.
// It is safe for concurrent use if the underlying http.Client is.
type Transport struct {
	baseURL  string
	username string
	password string

	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default http.Client. Timeouts, proxies and
// TLS settings belong on that client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithLogger sets the logger for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a transport for baseURL, e.g. "http://micetro/mmws/api/".
func New(baseURL, username, password string, opts ...Option) (*Transport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs a scheme and host", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""

	t := &Transport{
		baseURL:    u.String(),
		username:   username,
		password:   password,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// BaseURL returns the normalized base URL, always ending in "/".
func (t *Transport) BaseURL() string { return t.baseURL }

// URL builds the absolute URL for a path relative to the base. The path is
// used as is, so callers escape user-supplied segments themselves.
func (t *Transport) URL(path string, q Query) string {
	u := t.baseURL + strings.TrimPrefix(path, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	skipSanitize bool
}

// SkipSanitize sends the body exactly as given. Use it when a payload must
// carry an explicit false, 0 or "".
func SkipSanitize() RequestOption {
	return func(o *requestOptions) { o.skipSanitize = true }
}

// Get fetches path and returns the decoded result. A 204 response yields an
// empty Result; any status other than 200 or 204 is an error.
func (t *Transport) Get(ctx context.Context, path string, q Query) (Result, error) {
	status, body, err := t.do(ctx, http.MethodGet, t.URL(path, q), nil)
	if err != nil {
		return Result{}, err
	}
	switch status.code {
	case http.StatusOK:
		return decodeResult(body)
	case http.StatusNoContent:
		return Result{}, nil
	default:
		return Result{}, decodeError(status.code, status.text, body)
	}
}

// Post creates a resource and returns the decoded result. The server must
// answer 201 Created.
func (t *Transport) Post(ctx context.Context, path string, body map[string]any, opts ...RequestOption) (Result, error) {
	status, resp, err := t.send(ctx, http.MethodPost, path, body, opts)
	if err != nil {
		return Result{}, err
	}
	if status.code != http.StatusCreated {
		return Result{}, decodeError(status.code, status.text, resp)
	}
	if len(bytes.TrimSpace(resp)) == 0 {
		return Result{}, nil
	}
	return decodeResult(resp)
}

// Put modifies a resource. The server must answer 204 No Content.
func (t *Transport) Put(ctx context.Context, path string, body map[string]any, opts ...RequestOption) error {
	status, resp, err := t.send(ctx, http.MethodPut, path, body, opts)
	if err != nil {
		return err
	}
	if status.code != http.StatusNoContent {
		return decodeError(status.code, status.text, resp)
	}
	return nil
}

// Delete removes a resource. The server must answer 204 No Content.
func (t *Transport) Delete(ctx context.Context, path string, q Query) error {
	status, resp, err := t.do(ctx, http.MethodDelete, t.URL(path, q), nil)
	if err != nil {
		return err
	}
	if status.code != http.StatusNoContent {
		return decodeError(status.code, status.text, resp)
	}
	return nil
}

func (t *Transport) send(ctx context.Context, method, path string, body map[string]any, opts []RequestOption) (httpStatus, []byte, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	if body == nil {
		body = map[string]any{}
	}
	if !o.skipSanitize {
		body = sanitize.Payload(body)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return httpStatus{}, nil, fmt.Errorf("encode %s body: %w", method, err)
	}
	return t.do(ctx, method, t.URL(path, nil), payload)
}

type httpStatus struct {
	code int
	text string
}

func (t *Transport) do(ctx context.Context, method, target string, payload []byte) (httpStatus, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return httpStatus{}, nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Debug("mmws request failed",
			"request_id", requestID,
			"method", method,
			"url", req.URL.Redacted(),
			"error", err,
		)
		return httpStatus{}, nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	buf := responseBuffers.Get()
	defer responseBuffers.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBody)); err != nil {
		return httpStatus{}, nil, fmt.Errorf("read response: %w", err)
	}
	body := bytes.Clone(buf.Bytes())

	t.logger.Debug("mmws request",
		"request_id", requestID,
		"method", method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return httpStatus{code: resp.StatusCode, text: resp.Status}, body, nil
}

// Result is the "result" member of a successful response envelope. The
// zero Result is empty, as returned for 204 No Content.
type Result struct {
	fields map[string]json.RawMessage
}

// Empty reports whether the response carried no result.
func (r Result) Empty() bool { return len(r.fields) == 0 }

// Has reports whether key is present in the result.
func (r Result) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Raw returns the undecoded JSON of key, or nil.
func (r Result) Raw(key string) json.RawMessage { return r.fields[key] }

// Decode unmarshals key into v with numbers kept as json.Number.
// A missing key leaves v untouched.
func (r Result) Decode(key string, v any) error {
	raw, ok := r.fields[key]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &entity.DecodeError{Path: "result." + key, Want: fmt.Sprintf("%T", v), Got: err.Error()}
	}
	return nil
}

// Strings decodes key as a list of strings, e.g. result.objRefs.
func (r Result) Strings(key string) ([]string, error) {
	var out []string
	if err := r.Decode(key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeResult(body []byte) (Result, error) {
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, &entity.DecodeError{Path: "response", Want: "JSON object", Got: err.Error()}
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return Result{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Result, &fields); err != nil {
		return Result{}, &entity.DecodeError{Path: "response.result", Want: "object", Got: err.Error()}
	}
	return Result{fields: fields}, nil
}
