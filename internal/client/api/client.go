// Package api implements the typed HTTP client for the StremThru dash
// backend. It normalizes requests and responses to the backend's JSON
// envelope and raises typed errors on failure. It performs no retries and
// no caching; caching is the query layer's responsibility.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stremthru/dashctl/internal/logging"
)

const defaultBasePath = "/dash/api"

// Config holds construction parameters for Client.
type Config struct {
	// BaseURL is the backend root, e.g. "https://stremthru.example.com".
	BaseURL string
	// BasePath is prepended to every endpoint. Defaults to "/dash/api".
	BasePath string
	// Timeout applies per request when HTTPClient is not supplied.
	Timeout time.Duration
	// HTTPClient overrides the underlying client. A cookie jar is attached
	// if it does not already have one.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client is the HTTP client wrapper. The underlying client carries a cookie
// jar so the backend session cookie flows automatically on every request.
type Client struct {
	baseURL  *url.URL
	basePath string
	http     *http.Client
	log      logging.Logger
}

// New constructs a Client from cfg.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	return &Client{baseURL: u, basePath: basePath, http: hc, log: log}, nil
}

// Options customize a single request.
type Options struct {
	// Method overrides both the default (GET) and any method prefix embedded
	// in the endpoint.
	Method string
	// Body may be a *MultipartBody (passed through with its own content
	// type), a string (sent raw), or any JSON-marshalable value (serialized
	// with content-type application/json).
	Body   any
	Header http.Header
}

// Response is the decoded backend envelope. Data is left raw for the caller
// to unmarshal; Meta collects the remaining top-level envelope fields.
type Response struct {
	Data   json.RawMessage
	Params map[string]string
	Meta   Meta
}

// Meta carries the HTTP status and any envelope fields beyond data, error
// and params.
type Meta struct {
	Status int
	Extra  map[string]json.RawMessage
}

// splitEndpoint extracts a method prefix like "POST /x". The prefix must be
// a single all-caps token followed by a space and an absolute path.
func splitEndpoint(endpoint string) (method, path string) {
	if m, p, ok := strings.Cut(endpoint, " "); ok && strings.HasPrefix(p, "/") && m == strings.ToUpper(m) {
		return m, p
	}
	return http.MethodGet, endpoint
}

func (c *Client) buildURL(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + c.basePath + path
}

// Request performs one call against the backend and decodes the envelope.
//
// A 204 response short-circuits to an empty Response without touching the
// body. Any other response must carry content-type application/json, else a
// *ProtocolError is returned. A non-null envelope error becomes *APIError.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (*Response, error) {
	method, path := splitEndpoint(endpoint)
	if opts.Method != "" {
		method = strings.ToUpper(opts.Method)
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := opts.Body.(type) {
	case nil:
	case *MultipartBody:
		body = b.Reader()
		contentType = b.ContentType()
	case string:
		body = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	log.Debug(ctx, "sending request")

	res, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return &Response{Meta: Meta{Status: res.StatusCode}}, nil
	}

	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		perr := &ProtocolError{Reason: fmt.Sprintf("unsupported content type %q", ct)}
		log.Error(ctx, "unexpected response", "status", res.StatusCode, "error", perr)
		return nil, perr
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		perr := &ProtocolError{Reason: "undecodable response envelope", Err: err}
		log.Error(ctx, "unexpected response", "status", res.StatusCode, "error", perr)
		return nil, perr
	}

	if errRaw, ok := fields["error"]; ok && !isJSONNull(errRaw) {
		apiErr := &APIError{Status: res.StatusCode}
		if err := json.Unmarshal(errRaw, apiErr); err != nil {
			perr := &ProtocolError{Reason: "undecodable error payload", Err: err}
			log.Error(ctx, "unexpected response", "status", res.StatusCode, "error", perr)
			return nil, perr
		}
		log.Debug(ctx, "request rejected", "status", res.StatusCode, "code", apiErr.Code)
		return nil, apiErr
	}

	out := &Response{Meta: Meta{Status: res.StatusCode, Extra: map[string]json.RawMessage{}}}
	for k, v := range fields {
		switch k {
		case "data":
			out.Data = v
		case "error":
		case "params":
			if !isJSONNull(v) {
				if err := json.Unmarshal(v, &out.Params); err != nil {
					return nil, &ProtocolError{Reason: "undecodable params", Err: err}
				}
			}
		default:
			out.Meta.Extra[k] = v
		}
	}
	return out, nil
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// Data unmarshals the data payload of (res, err) into T. It is designed to
// chain directly onto Request:
//
//	return api.Data[[]RateLimitConfig](c.Request(ctx, "/ratelimit/configs", api.Options{}))
//
// A null data payload yields the zero value of T, except when T is itself a
// pointer type: there it is reported as a *ProtocolError, never as a nil
// result.
func Data[T any](res *Response, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if isJSONNull(res.Data) {
		if reflect.TypeFor[T]().Kind() == reflect.Pointer {
			return v, &ProtocolError{Reason: "null data payload"}
		}
		return v, nil
	}
	if err := json.Unmarshal(res.Data, &v); err != nil {
		return v, &ProtocolError{Reason: "malformed data payload", Err: err}
	}
	return v, nil
}
