// Package http is the HTTP engine shared by the ERS and UI API clients.
//
// It wraps go-retryablehttp with retries switched off: every request is sent
// exactly once and the caller decides what a non-success status means.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/publicsuffix"
)

// Static errors for err113 compliance.
var (
	ErrInvalidBaseURL  = errors.New("invalid base URL")
	ErrInvalidProxyURL = errors.New("invalid proxy URL")
)

const keepAlive = 30 * time.Second

// Logger is the logging surface used by the engine.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an API request. Path is resolved against the base URL
// unless it is already absolute.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	// Body is JSON encoded when set.
	Body any
	// Form is sent as application/x-www-form-urlencoded when set. Body takes precedence.
	Form url.Values
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Client sends requests relative to a base URL.
type Client struct {
	baseURL    *url.URL
	retryable  *retryablehttp.Client
	httpClient *http.Client
	logger     Logger
	debug      bool
	userAgent  string
	headers    map[string]string
	username   string
	password   string
	basicAuth  bool

	skipTLSVerify  bool
	proxies        map[string]string
	connectTimeout time.Duration
	readTimeout    time.Duration
	cookies        bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[key] = value
		}
	}
}

// WithBasicAuth sends HTTP basic credentials with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
		c.basicAuth = true
	}
}

// WithSkipTLSVerify disables certificate verification.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		c.skipTLSVerify = skip
	}
}

// WithProxies routes requests through a proxy per URL scheme ("http", "https", or "all").
func WithProxies(proxies map[string]string) Option {
	return func(c *Client) {
		c.proxies = proxies
	}
}

// WithTimeouts sets the connect and response-header timeouts. Zero means none.
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = connect
		c.readTimeout = read
	}
}

// WithCookieJar keeps cookies between requests until ResetCookies is called.
func WithCookieJar() Option {
	return func(c *Client) {
		c.cookies = true
	}
}

// NewClient creates a new HTTP client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	client := &Client{
		baseURL: parsed,
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	transport, err := client.newTransport()
	if err != nil {
		return nil, err
	}

	client.httpClient = &http.Client{Transport: transport}

	if client.cookies {
		client.ResetCookies()
	}

	client.retryable = &retryablehttp.Client{
		HTTPClient:   client.httpClient,
		RetryMax:     0,
		CheckRetry:   neverRetry,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	if client.logger != nil && client.debug {
		client.retryable.Logger = &leveledLogger{logger: client.logger}
	}

	return client, nil
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// ResetCookies drops all session cookies.
func (c *Client) ResetCookies() {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	c.httpClient.Jar = jar
}

// Cookies returns the cookies held for the base URL.
func (c *Client) Cookies() []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}

	return c.httpClient.Jar.Cookies(c.baseURL)
}

// ResolveURL resolves path against the base URL and merges query into it.
func (c *Client) ResolveURL(path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing request path %q: %w", path, err)
	}

	resolved := c.baseURL.ResolveReference(ref)

	if len(query) > 0 {
		merged := resolved.Query()
		for key, values := range query {
			merged[key] = values
		}

		resolved.RawQuery = merged.Encode()
	}

	return resolved, nil
}

// Do executes an API request. Only transport failures are returned as errors;
// the status code is left to the caller.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.ResolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var (
		body        []byte
		contentType string
	)

	switch {
	case req.Body != nil:
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		contentType = "application/json"
	case req.Form != nil:
		body = []byte(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target.String(), bodyOrNil(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.basicAuth {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	if c.debug {
		c.log("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target.Redacted(),
		})
	}

	start := time.Now()

	httpResp, err := c.retryable.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, fmt.Errorf("%s %s: %w", req.Method, target.Redacted(), err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug {
		c.log("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target.Redacted(),
			"status_code": httpResp.StatusCode,
			"duration":    time.Since(start).String(),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		URL:        target.String(),
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) log(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *Client) newTransport() (*http.Transport, error) {
	transport := cleanhttp.DefaultPooledTransport()

	dialer := &net.Dialer{Timeout: c.connectTimeout, KeepAlive: keepAlive}
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = c.connectTimeout
	transport.ResponseHeaderTimeout = c.readTimeout
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.skipTLSVerify, // #nosec G402 -- opt-in for self-signed ISE certificates
	}

	proxy, err := proxyFunc(c.proxies)
	if err != nil {
		return nil, err
	}

	transport.Proxy = proxy

	return transport, nil
}

// proxyFunc picks the proxy by request scheme, then "all", then the environment.
func proxyFunc(proxies map[string]string) (func(*http.Request) (*url.URL, error), error) {
	parsed := make(map[string]*url.URL, len(proxies))

	for scheme, raw := range proxies {
		if raw == "" {
			continue
		}

		proxyURL, err := url.Parse(raw)
		if err != nil || proxyURL.Host == "" {
			return nil, fmt.Errorf("%w for %s: %q", ErrInvalidProxyURL, scheme, raw)
		}

		parsed[strings.ToLower(scheme)] = proxyURL
	}

	return func(req *http.Request) (*url.URL, error) {
		if proxyURL, ok := parsed[req.URL.Scheme]; ok {
			return proxyURL, nil
		}

		if proxyURL, ok := parsed["all"]; ok {
			return proxyURL, nil
		}

		return http.ProxyFromEnvironment(req)
	}, nil
}

// neverRetry stops after the first attempt; only a cancelled context is reported.
func neverRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}

func bodyOrNil(body []byte) any {
	if body == nil {
		return nil
	}

	return bytes.NewReader(body)
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
