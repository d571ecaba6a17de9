package ise

import (
	"fmt"
	"net/url"
	"strings"
)

// Record is a single resource or row as returned by the remote service.
// The schema is the service's contract; the clients never modify a Record
// after decoding it.
type Record = map[string]any

// Page is the decoded body of one ERS GET. It is either an *Envelope or a *RawBody.
type Page interface {
	isPage()
}

// Envelope is a collection response ("SearchResult") holding one page of resources.
type Envelope struct {
	Total        int
	Resources    []Record
	NextPage     string
	PreviousPage string
}

func (*Envelope) isPage() {}

// HasNext reports whether the server supplied a next-page link.
func (e *Envelope) HasNext() bool {
	return e.NextPage != ""
}

// RawBody is a bare response object, as returned by singleton endpoints.
type RawBody struct {
	Body Record
}

func (*RawBody) isPage() {}

// Link represents an ERS page link.
type Link struct {
	Rel  string `json:"rel,omitempty"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// GuestUserRequest is the ERS create/update body for a guest user.
type GuestUserRequest struct {
	GuestUser GuestUser `json:"GuestUser"`
}

// GuestUser represents an ERS guest user.
type GuestUser struct {
	ID              string          `json:"id,omitempty"`
	PortalID        string          `json:"portalId,omitempty"`
	GuestType       string          `json:"guestType,omitempty"`
	GuestInfo       GuestInfo       `json:"guestInfo"`
	GuestAccessInfo GuestAccessInfo `json:"guestAccessInfo"`
}

// GuestInfo holds the personal data of a guest user.
type GuestInfo struct {
	Enabled      bool   `json:"enabled,string"`
	UserName     string `json:"userName"`
	Password     string `json:"password,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// GuestAccessInfo holds the access window of a guest user.
type GuestAccessInfo struct {
	ValidDays int    `json:"validDays"`
	Location  string `json:"location,omitempty"`
	GroupTag  string `json:"groupTag,omitempty"`
}

// GuestUserParams are the inputs of an upsert.
type GuestUserParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	PortalID  string
	GuestType string
	ValidDays int
	Location  string
	GroupTag  string
}

// Request builds the ERS request body for the parameters.
func (p *GuestUserParams) Request() *GuestUserRequest {
	return &GuestUserRequest{
		GuestUser: GuestUser{
			PortalID:  p.PortalID,
			GuestType: p.GuestType,
			GuestInfo: GuestInfo{
				Enabled:      true,
				UserName:     p.Username,
				Password:     p.Password,
				FirstName:    p.FirstName,
				LastName:     p.LastName,
				EmailAddress: p.Email,
			},
			GuestAccessInfo: GuestAccessInfo{
				ValidDays: p.ValidDays,
				Location:  p.Location,
				GroupTag:  p.GroupTag,
			},
		},
	}
}

// UpsertResult tells which branch an upsert took.
type UpsertResult int

const (
	UpsertCreated UpsertResult = iota
	UpsertUpdated
	UpsertSkipped
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertCreated:
		return "created"
	case UpsertUpdated:
		return "updated"
	case UpsertSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("UpsertResult(%d)", int(r))
	}
}

// SessionState is the login state of a SessionClient.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Authenticating
	Authenticated
	LoggedOut
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case LoggedOut:
		return "logged-out"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Param is one key/value pair of an ordered parameter list.
type Param struct {
	Key   string
	Value string
}

// ListOptions configures SessionClient.ListEndpoints.
// Zero values select the defaults (four standard columns, start page 1, 500 rows per page).
type ListOptions struct {
	Columns  []string
	Filters  []Param
	FetchAll bool
	Start    int
	PageSize int
}

// ParseParams parses a query string such as "status=CONTEXT_EXACT_MATCH_connected&MACAddress=CA:37"
// into an ordered parameter list. Later duplicates replace earlier values.
func ParseParams(raw string) ([]Param, error) {
	var params []Param

	index := make(map[string]int)

	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}

		key, value, _ := strings.Cut(part, "=")

		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter key %q: %w", key, err)
		}

		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter value for %q: %w", key, err)
		}

		if i, ok := index[key]; ok {
			params[i].Value = value

			continue
		}

		index[key] = len(params)
		params = append(params, Param{Key: key, Value: value})
	}

	return params, nil
}
