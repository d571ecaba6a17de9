package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750
)

// HTTP and network timeouts applied by the CLI. The client packages apply none of their own.
const (
	// DefaultConnectTimeout bounds dialing and the TLS handshake.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultReadTimeout bounds the wait for response headers.
	DefaultReadTimeout = 60 * time.Second
)

// ERS API.
const (
	// ERSDefaultPageSize is injected as "size" when a listing does not set one.
	ERSDefaultPageSize = 100

	// ERSFirstPage is injected as "page" when a listing does not set one.
	ERSFirstPage = 1

	// ERSSearchResultKey is the envelope key of collection responses.
	ERSSearchResultKey = "SearchResult"

	// ERSGuestUserPath is the guest user resource collection.
	ERSGuestUserPath = "guestuser/"

	// ERSGuestUserByNamePath is the lookup-by-name prefix.
	ERSGuestUserByNamePath = "guestuser/name/"

	// ERSEndpointPath is the endpoint resource collection.
	ERSEndpointPath = "endpoint/"

	// ERSGuestUserKey wraps a single guest user object.
	ERSGuestUserKey = "GuestUser"
)

// UI API paths.
const (
	UILoginPath        = "/admin/LoginAction.do"
	UILoginPagePath    = "/admin/login.jsp"
	UILogoutPath       = "/admin/logout.jsp"
	UIVisibilityPath   = "/admin/rs/uiapi/visibility"
	UITotalMetricsPath = "/admin/rs/uiapi/visibility/fetchMetricData/totalEndpoints"
)

// UI API request details.
const (
	// UIQueryHeader carries the base64 encoded parameter set.
	UIQueryHeader = "_QPH_"

	// UIDefaultPageSize is the number of rows requested per page.
	UIDefaultPageSize = 500

	// UIDefaultStart is the first page requested.
	UIDefaultStart = 1

	// UIAcceptJSON is the Accept header of data and count calls.
	UIAcceptJSON = "application/json, text/javascript, */*; q=0.01"

	// UIAcceptHTML is the Accept header of the login and logout pages.
	UIAcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp," +
		"image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"

	// UIBrowserUserAgent is sent on every UI call; the admin portal rejects non-browser agents.
	UIBrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/98.0.4758.87 Safari/537.36"

	// UILocale is the login form locale.
	UILocale = "en"
)

// UIDefaultColumns are the columns requested when the caller does not choose any.
func UIDefaultColumns() []string {
	return []string{"MACAddress", "status", "NetworkDeviceName", "NAS-Port-Id"}
}

// Format constants.
const (
	// FormatPlain for table output format.
	FormatPlain = "plain"

	// FormatCSV for CSV output format.
	FormatCSV = "csv"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// DefaultUserAgent is sent by the ERS client unless overridden.
const DefaultUserAgent = "isectl/1.0"
