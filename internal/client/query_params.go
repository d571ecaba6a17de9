package client

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// QueryParams is an ordered parameter set. Keys keep their first insertion
// position; setting an existing key replaces its value in place.
type QueryParams struct {
	keys   []string
	values map[string]string
}

// NewQueryParams creates an empty parameter set.
func NewQueryParams() *QueryParams {
	return &QueryParams{values: make(map[string]string)}
}

// Set adds or replaces key.
func (p *QueryParams) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}

	p.values[key] = value
}

// Get returns the value of key.
func (p *QueryParams) Get(key string) (string, bool) {
	value, ok := p.values[key]

	return value, ok
}

// Len returns the number of parameters.
func (p *QueryParams) Len() int {
	return len(p.keys)
}

// Encode form-encodes the parameters in insertion order.
func (p *QueryParams) Encode() string {
	var builder strings.Builder

	for i, key := range p.keys {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(p.values[key]))
	}

	return builder.String()
}

// Header returns the value of the _QPH_ header: the standard base64 of Encode.
func (p *QueryParams) Header() string {
	return base64.StdEncoding.EncodeToString([]byte(p.Encode()))
}
