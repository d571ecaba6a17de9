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

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/internal/http"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// ManagementClient implements ise.ManagementClient against the ERS REST API.
type ManagementClient struct {
	httpClient *http.Client
	logger     ise.Logger
}

// NewManagementClient creates an ERS client. config.BaseURL must be the ERS root
// ending in "/" so relative resource paths resolve underneath it.
func NewManagementClient(config *ise.Config) (*ManagementClient, error) {
	if config == nil {
		return nil, ise.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ise.ErrBaseURLRequired
	}

	if config.Username == "" || config.Password == "" {
		return nil, ise.ErrCredentials
	}

	httpOpts := []http.Option{
		http.WithUserAgent(constants.DefaultUserAgent),
		http.WithBasicAuth(config.Username, config.Password),
		http.WithHeaders(map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		}),
	}
	httpOpts = append(httpOpts, createHTTPClientOptions(config)...)

	httpClient, err := http.NewClient(config.BaseURL, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating ERS HTTP client: %w", err)
	}

	return &ManagementClient{
		httpClient: httpClient,
		logger:     loggerOrNop(config.Logger),
	}, nil
}

// FetchPage issues one GET and decodes the body.
func (c *ManagementClient) FetchPage(ctx context.Context, path string) (ise.Page, error) {
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}

	if !resp.IsSuccess() {
		return nil, remoteError(nethttp.MethodGet, resp, nil)
	}

	page, err := decodePage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing response of %s: %w", path, err)
	}

	return page, nil
}

// Get returns a bare-object response.
func (c *ManagementClient) Get(ctx context.Context, path string) (ise.Record, error) {
	page, err := c.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}

	raw, ok := page.(*ise.RawBody)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned a collection", ise.ErrUnexpectedShape, path)
	}

	return raw.Body, nil
}

// List returns the resources of the single page at path.
func (c *ManagementClient) List(ctx context.Context, path string) ([]ise.Record, error) {
	page, err := c.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}

	envelope, ok := page.(*ise.Envelope)
	if !ok {
		return nil, fmt.Errorf("%w: %s did not return a collection", ise.ErrUnexpectedShape, path)
	}

	return envelope.Resources, nil
}

// FetchAll walks every page of a collection. "size" and "page" are added to
// the query when absent; next-page links are followed as given by the server.
func (c *ManagementClient) FetchAll(ctx context.Context, path string) ([]ise.Record, error) {
	next, err := withPagingDefaults(path)
	if err != nil {
		return nil, err
	}

	resources := []ise.Record{}
	seen := make(map[string]struct{})

	for pageNumber := 1; next != ""; pageNumber++ {
		target, err := c.httpClient.ResolveURL(next, nil)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[target.String()]; ok {
			return nil, fmt.Errorf("%w: %s", ise.ErrPaginationLoop, next)
		}

		seen[target.String()] = struct{}{}

		page, err := c.FetchPage(ctx, next)
		if err != nil {
			return nil, err
		}

		envelope, ok := page.(*ise.Envelope)
		if !ok {
			if pageNumber == 1 {
				c.logger.Warn("response is not a collection, returning no resources", map[string]interface{}{
					"path": path,
				})
			}

			break
		}

		resources = append(resources, envelope.Resources...)

		c.logger.Debug("fetched ERS page", map[string]interface{}{
			"page":      pageNumber,
			"resources": len(envelope.Resources),
			"total":     envelope.Total,
		})

		next = envelope.NextPage
	}

	return resources, nil
}

// Create POSTs payload to path.
func (c *ManagementClient) Create(ctx context.Context, path string, payload any) error {
	resp, err := c.httpClient.Post(ctx, path, payload)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if !resp.IsSuccess() {
		return remoteError(nethttp.MethodPost, resp, payload)
	}

	return nil
}

// Update PUTs payload to path.
func (c *ManagementClient) Update(ctx context.Context, path string, payload any) error {
	resp, err := c.httpClient.Put(ctx, path, payload)
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	if !resp.IsSuccess() {
		return remoteError(nethttp.MethodPut, resp, payload)
	}

	return nil
}

// Delete removes the resource at path.
func (c *ManagementClient) Delete(ctx context.Context, path string) error {
	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}

	if !resp.IsSuccess() {
		return remoteError(nethttp.MethodDelete, resp, nil)
	}

	return nil
}

func remoteError(method string, resp *http.Response, payload any) *ise.RemoteError {
	return &ise.RemoteError{
		Method:     method,
		URL:        resp.URL,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		Payload:    payload,
	}
}

// withPagingDefaults appends size and page to the query of path unless
// present. The caller's raw query is kept byte for byte, so values Go would
// reject when parsing (";", a bare "%") still reach the server.
func withPagingDefaults(path string) (string, error) {
	parsed, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing path %q: %w", path, err)
	}

	present := make(map[string]bool)

	for _, pair := range strings.Split(parsed.RawQuery, "&") {
		key, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}

		present[key] = true
	}

	var defaults []string

	if !present["size"] {
		defaults = append(defaults, "size="+strconv.Itoa(constants.ERSDefaultPageSize))
	}

	if !present["page"] {
		defaults = append(defaults, "page="+strconv.Itoa(constants.ERSFirstPage))
	}

	if len(defaults) == 0 {
		return path, nil
	}

	base, fragment, hasFragment := strings.Cut(path, "#")
	separator := "?"

	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		separator = ""
	case strings.Contains(base, "?"):
		separator = "&"
	}

	result := base + separator + strings.Join(defaults, "&")
	if hasFragment {
		result += "#" + fragment
	}

	return result, nil
}

type searchResult struct {
	Total        int          `json:"total"`
	Resources    []ise.Record `json:"resources"`
	NextPage     *ise.Link    `json:"nextPage"`
	PreviousPage *ise.Link    `json:"previousPage"`
}

// decodePage classifies an ERS body. It is an envelope when it holds a
// SearchResult object with a non-null resources array.
func decodePage(body []byte) (ise.Page, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &ise.RawBody{Body: ise.Record{}}, nil
	}

	var top map[string]json.RawMessage

	err := json.Unmarshal(body, &top)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ise.ErrUnexpectedShape, err)
	}

	if raw, ok := top[constants.ERSSearchResultKey]; ok {
		var result searchResult

		err = json.Unmarshal(raw, &result)
		if err == nil && result.Resources != nil {
			envelope := &ise.Envelope{
				Total:     result.Total,
				Resources: result.Resources,
			}

			if result.NextPage != nil {
				envelope.NextPage = result.NextPage.Href
			}

			if result.PreviousPage != nil {
				envelope.PreviousPage = result.PreviousPage.Href
			}

			return envelope, nil
		}
	}

	var record ise.Record

	err = json.Unmarshal(body, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ise.ErrUnexpectedShape, err)
	}

	return &ise.RawBody{Body: record}, nil
}
