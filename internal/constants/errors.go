package constants

import "errors"

// Configuration errors.
var (
	ErrNoERSURL         = errors.New("no ERS URL configured (set ers.url or ISE_ERS_URL)")
	ErrNoUIURL          = errors.New("no UI host configured (set ui.url or ISE_UI_URL)")
	ErrNoSponsorAccount = errors.New("no sponsor credentials configured (set sponsor.username/sponsor.password)")
	ErrMissingUsername  = errors.New("username is required")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, use plain, csv, json or yaml")
	ErrInvalidLimit        = errors.New("--limit must not be negative")
	ErrInvalidColumns      = errors.New("--columns must name at least one column")
)
