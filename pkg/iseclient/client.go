package iseclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/ise-client/internal/client"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// NewManagement creates an ERS management client. The base URL gets a
// trailing slash so relative resource paths resolve underneath it.
func NewManagement(config *ise.Config) (ise.ManagementClient, error) {
	if config == nil {
		return nil, ise.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ise.ErrBaseURLRequired
	}

	normalized := *config
	normalized.BaseURL = withScheme(config.BaseURL)

	if !strings.HasSuffix(normalized.BaseURL, "/") {
		normalized.BaseURL += "/"
	}

	ers, err := client.NewManagementClient(&normalized)
	if err != nil {
		return nil, fmt.Errorf("creating ERS client: %w", err)
	}

	return ers, nil
}

// NewSession creates an admin UI session client for the given host.
func NewSession(config *ise.Config) (ise.SessionClient, error) {
	if config == nil {
		return nil, ise.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ise.ErrBaseURLRequired
	}

	normalized := *config
	normalized.BaseURL = strings.TrimSuffix(withScheme(config.BaseURL), "/")

	ui, err := client.NewSessionClient(&normalized)
	if err != nil {
		return nil, fmt.Errorf("creating UI client: %w", err)
	}

	return ui, nil
}

func withScheme(address string) string {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "https://" + address
	}

	return address
}
