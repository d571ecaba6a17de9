package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/ise-client/cmd/isectl/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSponsorListCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSponsorListCommand()
	assert.Equal(t, "sponsor-list", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	filterFlag := cmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
	assert.Equal(t, "f", filterFlag.Shorthand)
}

func TestNewUIListCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewUIListCommand()
	assert.Equal(t, "ui-list", cmd.Use)

	for _, name := range []string{"filter", "columns", "page-size", "start", "all"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "500", cmd.Flags().Lookup("page-size").DefValue)
	assert.Equal(t, "true", cmd.Flags().Lookup("all").DefValue)
}

func TestNewDeleteSponsorAccountsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewDeleteSponsorAccountsCommand()
	assert.Equal(t, "delete-sponsor-accounts", cmd.Use)

	for _, name := range []string{"filter", "regex-username", "regex-email", "confirm", "endpoints", "limit"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "false", cmd.Flags().Lookup("confirm").DefValue)
	assert.Equal(t, "0", cmd.Flags().Lookup("limit").DefValue)
}

func TestNewSponsorEndpointsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSponsorEndpointsCommand()
	assert.Equal(t, "sponsor-endpoints", cmd.Use)
	assert.Equal(t, "0", cmd.Flags().Lookup("portal-user").DefValue)
}

func TestNewGuestUserCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewGuestUserCommand()
	assert.Equal(t, "guest-user", cmd.Use)
	assert.Equal(t, []string{"guest"}, cmd.Aliases)
	assert.Len(t, cmd.Commands(), 3)

	upsert := findSubcommand(cmd, "upsert")
	require.NotNil(t, upsert)
	assert.Equal(t, "upsert USERNAME", upsert.Use)
	assert.NotNil(t, upsert.Args)

	for _, name := range []string{"password", "first-name", "last-name", "email", "portal-id", "guest-type", "valid-days", "location", "group-tag", "only-add"} {
		assert.NotNil(t, upsert.Flags().Lookup(name), name)
	}

	assert.NotNil(t, findSubcommand(cmd, "get"))
	assert.NotNil(t, findSubcommand(cmd, "delete"))
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.NotNil(t, findSubcommand(cmd, "show"))
}

func TestNewVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewVersionCommand("1.2.3", "abc", "today")
	assert.Equal(t, "version", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}
