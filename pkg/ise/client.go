package ise

import (
	"context"
	"time"
)

// ManagementClient is the ERS REST management API client.
type ManagementClient interface {
	// FetchPage issues one GET and decodes the body into an *Envelope or a *RawBody.
	FetchPage(ctx context.Context, path string) (Page, error)
	// Get returns a bare-object response such as a get-by-id lookup.
	Get(ctx context.Context, path string) (Record, error)
	// List returns the resources of a single page.
	List(ctx context.Context, path string) ([]Record, error)
	// FetchAll returns the resources of every page, following next-page links.
	FetchAll(ctx context.Context, path string) ([]Record, error)

	Create(ctx context.Context, path string, payload any) error
	Update(ctx context.Context, path string, payload any) error
	Delete(ctx context.Context, path string) error

	GuestUserClient
}

// GuestUserClient provides the guest user helpers built on top of the ERS calls.
type GuestUserClient interface {
	FindGuestUserByName(ctx context.Context, username string) (Record, bool, error)
	UpsertGuestUser(ctx context.Context, params *GuestUserParams, onlyAdd bool) (UpsertResult, error)
	DeleteGuestUserByUsername(ctx context.Context, username string) (bool, error)
}

// SessionClient is the session based UI API client.
type SessionClient interface {
	// ListEndpoints logs in, fetches the requested endpoint rows and logs out again.
	ListEndpoints(ctx context.Context, opts *ListOptions) ([]Record, error)
	// State reports the session state of the client.
	State() SessionState
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building either client.
//
// # Addresses
//
// For the ERS client BaseURL is the ERS root (for example
// "https://ise.example.com:9060/ers/config/"). For the UI client it is the
// admin node host, with or without scheme. iseclient normalizes both: a
// missing scheme becomes "https://" and ERS base URLs always end with "/"
// so relative resource paths resolve underneath them.
//
// # Timeouts and TLS
//
// No timeout is applied unless configured. ConnectTimeout bounds dialing and
// the TLS handshake, ReadTimeout bounds the wait for response headers. Per
// call deadlines should be set on the context passed to client methods.
type Config struct {
	// BaseURL: ERS root URL or UI host.
	BaseURL string
	// Username and Password: basic auth for ERS, login form credentials for the UI.
	Username string
	Password string
	// AuthType: UI login "authType" form value (for example "Internal" or an AD identity source).
	AuthType string

	// SkipTLSVerify: disables certificate verification. ISE nodes often run self-signed certificates.
	SkipTLSVerify bool
	// Proxies maps a URL scheme ("http", "https") to a proxy URL. Schemes
	// without an entry fall back to the proxy environment variables.
	Proxies map[string]string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
