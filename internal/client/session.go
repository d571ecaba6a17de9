package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/internal/http"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// SessionClient implements ise.SessionClient against the admin UI API.
// Each ListEndpoints call runs inside its own login/logout session.
type SessionClient struct {
	httpClient *http.Client
	logger     ise.Logger
	username   string
	password   string
	authType   string

	busy  atomic.Bool
	mu    sync.RWMutex
	state ise.SessionState
}

// NewSessionClient creates a UI API client. config.BaseURL is the admin node
// URL including scheme.
func NewSessionClient(config *ise.Config) (*SessionClient, error) {
	if config == nil {
		return nil, ise.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ise.ErrBaseURLRequired
	}

	if config.Username == "" || config.Password == "" {
		return nil, ise.ErrCredentials
	}

	origin := strings.TrimSuffix(config.BaseURL, "/")

	httpOpts := []http.Option{
		http.WithUserAgent(constants.UIBrowserUserAgent),
		http.WithHeaders(map[string]string{"Origin": origin}),
		http.WithCookieJar(),
	}
	httpOpts = append(httpOpts, createHTTPClientOptions(config)...)

	httpClient, err := http.NewClient(config.BaseURL, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating UI HTTP client: %w", err)
	}

	return &SessionClient{
		httpClient: httpClient,
		logger:     loggerOrNop(config.Logger),
		username:   config.Username,
		password:   config.Password,
		authType:   config.AuthType,
		state:      ise.Unauthenticated,
	}, nil
}

// State reports the session state.
func (c *SessionClient) State() ise.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

func (c *SessionClient) setState(state ise.SessionState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// ListEndpoints logs in, fetches the requested rows and logs out. The logout
// runs after every successful login, including when a later step fails.
func (c *SessionClient) ListEndpoints(ctx context.Context, opts *ise.ListOptions) ([]ise.Record, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ise.ErrSessionBusy
	}
	defer c.busy.Store(false)

	options, err := normalizeListOptions(opts)
	if err != nil {
		return nil, err
	}

	err = c.login(ctx)
	if err != nil {
		return nil, err
	}
	defer c.logout(context.WithoutCancel(ctx))

	params := NewQueryParams()
	params.Set("columns", strings.Join(options.Columns, ","))
	params.Set("sortBy", options.Columns[0])

	for _, filter := range options.Filters {
		params.Set(filter.Key, filter.Value)
	}

	total := options.PageSize

	if options.FetchAll {
		total, err = c.totalEndpoints(ctx, params, len(options.Filters) > 0)
		if err != nil {
			return nil, err
		}

		params.Set("total_entries", strconv.Itoa(total))
		params.Set("paginated", "true")
	}

	pages := (total + options.PageSize - 1) / options.PageSize
	records := []ise.Record{}

	for index := options.Start - 1; index < pages; index++ {
		params.Set("startAt", strconv.Itoa(index+1))
		params.Set("pageSize", strconv.Itoa(options.PageSize))

		rows, err := c.fetchRows(ctx, params)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("fetched UI page", map[string]interface{}{
			"page": index + 1,
			"rows": len(rows),
		})

		records = append(records, rows...)
	}

	return records, nil
}

func normalizeListOptions(opts *ise.ListOptions) (ise.ListOptions, error) {
	var options ise.ListOptions
	if opts != nil {
		options = *opts
	}

	if len(options.Columns) == 0 {
		options.Columns = constants.UIDefaultColumns()
	}

	if options.Start == 0 {
		options.Start = constants.UIDefaultStart
	}

	if options.PageSize == 0 {
		options.PageSize = constants.UIDefaultPageSize
	}

	if options.Start < 0 {
		return options, fmt.Errorf("%w: %d", ise.ErrInvalidStart, options.Start)
	}

	if options.PageSize < 0 {
		return options, fmt.Errorf("%w: %d", ise.ErrInvalidPageSize, options.PageSize)
	}

	return options, nil
}

func (c *SessionClient) login(ctx context.Context) error {
	if c.State() == ise.Authenticated {
		return nil
	}

	c.setState(ise.Authenticating)
	c.httpClient.ResetCookies()

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("authType", c.authType)
	form.Set("name", c.username)
	form.Set("rememberme", "on")
	form.Set("locale", constants.UILocale)
	form.Set("hasSelectedLocale", "false")

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodPost,
		Path:   constants.UILoginPath,
		Form:   form,
		Headers: map[string]string{
			"Accept":  constants.UIAcceptHTML,
			"Referer": c.pageURL(constants.UILoginPagePath),
		},
	})
	if err != nil {
		c.setState(ise.Unauthenticated)

		return fmt.Errorf("logging in to UI API: %w", err)
	}

	if !resp.IsSuccess() {
		c.setState(ise.Unauthenticated)

		return &ise.SessionError{Op: "login", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	c.setState(ise.Authenticated)
	c.logger.Debug("logged in to UI API", map[string]interface{}{"username": c.username})

	return nil
}

// logout is best effort; a failure is logged and the session is dropped anyway.
func (c *SessionClient) logout(ctx context.Context) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:  nethttp.MethodGet,
		Path:    constants.UILogoutPath,
		Headers: map[string]string{"Accept": constants.UIAcceptHTML},
	})

	switch {
	case err != nil:
		c.logger.Warn("UI API logout failed", map[string]interface{}{"error": err.Error()})
	case !resp.IsSuccess():
		c.logger.Warn("UI API logout failed", map[string]interface{}{"status_code": resp.StatusCode})
	}

	c.httpClient.ResetCookies()
	c.setState(ise.LoggedOut)
}

// totalEndpoints returns the number of rows to page through. Unfiltered
// listings use the metrics endpoint; filtered ones probe a one-row page and
// read the total from Content-Range.
func (c *SessionClient) totalEndpoints(ctx context.Context, params *QueryParams, filtered bool) (int, error) {
	if !filtered {
		resp, err := c.httpClient.Do(ctx, &http.Request{
			Method:  nethttp.MethodGet,
			Path:    constants.UITotalMetricsPath,
			Headers: map[string]string{"Accept": constants.UIAcceptJSON},
		})
		if err != nil {
			return 0, fmt.Errorf("counting endpoints: %w", err)
		}

		if !resp.IsSuccess() {
			return 0, &ise.SessionError{Op: "count", StatusCode: resp.StatusCode, Body: string(resp.Body)}
		}

		return parseTotalMetric(resp.Body)
	}

	params.Set("startAt", "1")
	params.Set("pageSize", "1")

	resp, err := c.visibility(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("counting endpoints: %w", err)
	}

	if !resp.IsSuccess() {
		return 0, &ise.SessionError{
			Op:         "count",
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Params:     params.Encode(),
		}
	}

	return parseContentRange(resp.Headers.Get("Content-Range"))
}

func (c *SessionClient) fetchRows(ctx context.Context, params *QueryParams) ([]ise.Record, error) {
	resp, err := c.visibility(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("listing endpoints: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, &ise.SessionError{
			Op:         "list",
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Params:     params.Encode(),
		}
	}

	return decodeRows(resp.Body)
}

func (c *SessionClient) visibility(ctx context.Context, params *QueryParams) (*http.Response, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: nethttp.MethodGet,
		Path:   constants.UIVisibilityPath,
		Headers: map[string]string{
			"Accept":                constants.UIAcceptJSON,
			constants.UIQueryHeader: params.Header(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying visibility: %w", err)
	}

	return resp, nil
}

func (c *SessionClient) pageURL(path string) string {
	resolved, err := c.httpClient.ResolveURL(path, nil)
	if err != nil {
		return path
	}

	return resolved.String()
}

func parseTotalMetric(body []byte) (int, error) {
	var metric struct {
		AttrValue any `json:"attrValue"`
	}

	err := json.Unmarshal(body, &metric)
	if err != nil {
		return 0, fmt.Errorf("parsing endpoint total: %w", err)
	}

	switch value := metric.AttrValue.(type) {
	case nil:
		return 0, nil
	case float64:
		return int(value), nil
	case string:
		total, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("parsing endpoint total %q: %w", value, err)
		}

		return total, nil
	default:
		return 0, fmt.Errorf("%w: attrValue %v", ise.ErrUnexpectedShape, value)
	}
}

// parseContentRange reads the total after "/" ("items 0-0/1234"). A missing header means zero.
func parseContentRange(header string) (int, error) {
	if header == "" {
		return 0, nil
	}

	index := strings.LastIndex(header, "/")
	if index < 0 {
		return 0, fmt.Errorf("%w: %q", ise.ErrInvalidTotalHeader, header)
	}

	total, err := strconv.Atoi(strings.TrimSpace(header[index+1:]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ise.ErrInvalidTotalHeader, header)
	}

	return total, nil
}

// decodeRows parses a UI page: a JSON array whose elements are JSON encoded
// record strings. Elements that are already objects are taken as they are.
func decodeRows(body []byte) ([]ise.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var items []json.RawMessage

	err := json.Unmarshal(body, &items)
	if err != nil {
		return nil, fmt.Errorf("parsing UI page: %w", err)
	}

	records := make([]ise.Record, 0, len(items))

	for i, item := range items {
		raw := []byte(item)

		if len(raw) > 0 && raw[0] == '"' {
			var encoded string

			err = json.Unmarshal(raw, &encoded)
			if err != nil {
				return nil, fmt.Errorf("parsing UI row %d: %w", i, err)
			}

			raw = []byte(encoded)
		}

		var record ise.Record

		err = json.Unmarshal(raw, &record)
		if err != nil {
			return nil, fmt.Errorf("parsing UI row %d: %w", i, err)
		}

		records = append(records, record)
	}

	return records, nil
}
