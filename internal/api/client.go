// Package api provides the HTTP transport shared by every resource service.
//
// Two channels exist, one for JSON payloads and one for multipart uploads.
// Payload encoding differs between them; the cross-cutting policy (bearer
// injection, 401 handling, rate limiting, error taxonomy) does not, so both
// channels funnel through the same dispatch path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// SessionReader is the read-only session view the transport consults at
// dispatch time. The transport never writes the session directly.
type SessionReader interface {
	Token() string
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables throttling
	Session   SessionReader
	Logger    *slog.Logger

	// OnUnauthorized runs when any request on either channel receives a 401.
	// It is responsible for clearing the session and steering the user back
	// to login. Fired at most once until ResetAuth is called.
	OnUnauthorized func()
}

// Client dispatches requests against the backend with uniform auth and
// error handling, independent of which resource service is calling.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	session        SessionReader
	limiter        *rate.Limiter
	logger         *slog.Logger
	onUnauthorized func()
	unauthorized   atomic.Bool
}

// NewClient creates a transport client for the given backend origin
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), int(opts.RateLimit)+1)
	}

	return &Client{
		baseURL:        base,
		http:           &http.Client{Timeout: timeout},
		session:        opts.Session,
		limiter:        limiter,
		logger:         logger,
		onUnauthorized: opts.OnUnauthorized,
	}, nil
}

// requestOptions holds per-request overrides of the cross-cutting policy
type requestOptions struct {
	query      url.Values
	noAuthHook bool
}

// RequestOption customizes a single request
type RequestOption func(*requestOptions)

// WithQuery attaches URL query parameters to the request
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) { o.query = q }
}

// WithoutAuthHook suppresses the global 401 handler for this request.
// Used by the login and verify flows, which handle 401 themselves; this is
// the CLI analogue of "don't redirect when already on the login route".
func WithoutAuthHook() RequestOption {
	return func(o *requestOptions) { o.noAuthHook = true }
}

// JSON dispatches a request with a JSON body (may be nil) and decodes a
// JSON response into out (may be nil to discard).
func (c *Client) JSON(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, o, err := c.newRequest(ctx, method, path, reader, opts)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out, o)
}

// Multipart dispatches a multipart/form-data upload. The field name must
// match exactly what the target endpoint expects (file, image, leadPicture,
// personnelImage, galleryFiles, ...). The body is streamed, and cancelling
// ctx aborts the upload mid-flight.
func (c *Client) Multipart(ctx context.Context, path, field, filename string, content io.Reader, extra map[string]string, out any, opts ...RequestOption) error {
	if field == "" {
		return fmt.Errorf("multipart field name must not be empty")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// Unblocks the writer goroutine on paths where the request body is
	// never consumed (build failure, rate-limit error). A no-op when the
	// transport already drained and closed the pipe.
	defer pr.Close()

	go func() {
		err := writeMultipart(mw, field, filename, content, extra)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, o, err := c.newRequest(ctx, http.MethodPost, path, pr, opts)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out, o)
}

// writeMultipart emits the form fields followed by the file part
func writeMultipart(mw *multipart.Writer, field, filename string, content io.Reader, extra map[string]string) error {
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, content)
	return err
}

// newRequest builds the request and applies the request interceptor:
// bearer injection when a token is present. Requests proceed
// unauthenticated when no token exists (some endpoints are public).
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, opts []RequestOption) (*http.Request, requestOptions, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if o.query != nil {
		u.RawQuery = o.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, o, fmt.Errorf("building request: %w", err)
	}

	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")

	return req, o, nil
}

// do dispatches the request and applies the response interceptor
func (c *Client) do(req *http.Request, out any, o requestOptions) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return &APIError{Kind: KindNetwork, Message: err.Error()}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized && !o.noAuthHook {
		c.handleUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return parseError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindUnknown, Message: GenericFailureMessage}
	}
	return nil
}

// handleUnauthorized fires the registered hook at most once, however many
// concurrent requests receive 401 at the same time.
func (c *Client) handleUnauthorized() {
	if c.unauthorized.Swap(true) {
		return
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// ResetAuth re-arms the 401 handler after a successful login
func (c *Client) ResetAuth() {
	c.unauthorized.Store(false)
}
