package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
	"github.com/fivetwenty-io/ise-client/pkg/iseclient"
)

// Common string constants used throughout the commands package.
const (
	Masked = "***"
	Table  = "table"
)

// Configuration keys. Environment variables use the ISE_ prefix with dots
// replaced by underscores, e.g. ISE_ERS_URL for ers.url.
const (
	KeyERSURL          = "ers.url"
	KeyERSUsername     = "ers.username"
	KeyERSPassword     = "ers.password"
	KeySponsorUsername = "sponsor.username"
	KeySponsorPassword = "sponsor.password"
	KeyUIURL           = "ui.url"
	KeyUIUsername      = "ui.username"
	KeyUIPassword      = "ui.password"
	KeyUILoginType     = "ui.logintype"
	KeySSLVerify       = "ssl.verify"
	KeyProxyHTTP       = "proxies.http"
	KeyProxyHTTPS      = "proxies.https"
	KeySkipSSL         = "skip-ssl-validation"
	KeyConnectTimeout  = "connect-timeout"
	KeyReadTimeout     = "read-timeout"
	KeyOutput          = "output"
	KeyQuery           = "query"
	KeyVerbose         = "verbose"
)

// Common static errors used throughout the commands package.
var (
	ErrPasswordPrompt    = errors.New("failed to read password")
	ErrGuestUserNotFound = errors.New("guest user not found")
)

// zerologAdapter backs ise.Logger with zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}

// NewLogger returns an ise.Logger writing through the global zerolog logger.
func NewLogger() ise.Logger {
	return &zerologAdapter{logger: log.Logger}
}

// baseConfig holds the transport settings shared by every client.
func baseConfig() *ise.Config {
	proxies := make(map[string]string)

	if proxy := viper.GetString(KeyProxyHTTP); proxy != "" {
		proxies["http"] = proxy
	}

	if proxy := viper.GetString(KeyProxyHTTPS); proxy != "" {
		proxies["https"] = proxy
	}

	return &ise.Config{
		SkipTLSVerify:  viper.GetBool(KeySkipSSL) || !viper.GetBool(KeySSLVerify),
		Proxies:        proxies,
		ConnectTimeout: viper.GetDuration(KeyConnectTimeout),
		ReadTimeout:    viper.GetDuration(KeyReadTimeout),
		Debug:          viper.GetBool(KeyVerbose),
		Logger:         NewLogger(),
	}
}

// newERSClient builds an ERS client with the credentials stored under the given keys.
func newERSClient(usernameKey, passwordKey string) (ise.ManagementClient, error) {
	baseURL := viper.GetString(KeyERSURL)
	if baseURL == "" {
		return nil, constants.ErrNoERSURL
	}

	username := viper.GetString(usernameKey)

	password, err := resolvePassword(passwordKey, username)
	if err != nil {
		return nil, err
	}

	config := baseConfig()
	config.BaseURL = baseURL
	config.Username = username
	config.Password = password

	client, err := iseclient.NewManagement(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create ERS client: %w", err)
	}

	return client, nil
}

// newAdminClient uses the ERS admin account.
func newAdminClient() (ise.ManagementClient, error) {
	return newERSClient(KeyERSUsername, KeyERSPassword)
}

// newSponsorClient uses the sponsor account, which owns the guest users it created.
func newSponsorClient() (ise.ManagementClient, error) {
	if viper.GetString(KeySponsorUsername) == "" {
		return nil, constants.ErrNoSponsorAccount
	}

	return newERSClient(KeySponsorUsername, KeySponsorPassword)
}

// newUIClient builds the admin UI session client.
func newUIClient() (ise.SessionClient, error) {
	host := viper.GetString(KeyUIURL)
	if host == "" {
		return nil, constants.ErrNoUIURL
	}

	username := viper.GetString(KeyUIUsername)

	password, err := resolvePassword(KeyUIPassword, username)
	if err != nil {
		return nil, err
	}

	config := baseConfig()
	config.BaseURL = host
	config.Username = username
	config.Password = password
	config.AuthType = viper.GetString(KeyUILoginType)

	client, err := iseclient.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create UI client: %w", err)
	}

	return client, nil
}

// resolvePassword returns the configured password, prompting for it when
// stdin is a terminal and nothing is configured.
func resolvePassword(key, username string) (string, error) {
	if password := viper.GetString(key); password != "" {
		return password, nil
	}

	stdin := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if username == "" || !term.IsTerminal(stdin) {
		return "", nil
	}

	_, _ = fmt.Fprintf(os.Stderr, "Password for %s: ", username)

	bytePassword, err := term.ReadPassword(stdin)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPasswordPrompt, err)
	}

	_, _ = fmt.Fprintln(os.Stderr)

	return string(bytePassword), nil
}
