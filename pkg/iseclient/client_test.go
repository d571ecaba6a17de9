package iseclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/ise-client/pkg/ise"
	"github.com/fivetwenty-io/ise-client/pkg/iseclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagement(t *testing.T) {
	t.Parallel()

	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := iseclient.NewManagement(nil)
		require.ErrorIs(t, err, ise.ErrConfigRequired)

		_, err = iseclient.NewManagement(&ise.Config{})
		require.ErrorIs(t, err, ise.ErrBaseURLRequired)
	})

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		_, err := iseclient.NewManagement(&ise.Config{BaseURL: "ise.example.com:9060/ers/config"})
		require.ErrorIs(t, err, ise.ErrCredentials)
	})

	t.Run("does not modify the caller config", func(t *testing.T) {
		t.Parallel()

		config := &ise.Config{BaseURL: "ise.example.com:9060/ers/config", Username: "u", Password: "p"}

		client, err := iseclient.NewManagement(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "ise.example.com:9060/ers/config", config.BaseURL)
	})
}

func TestNewManagement_ResolvesUnderBase(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/ers/config/guestuser/name/alice", request.URL.Path)
		_ = json.NewEncoder(writer).Encode(map[string]any{"GuestUser": map[string]any{"id": "g1"}})
	}))
	defer server.Close()

	ers, err := iseclient.NewManagement(&ise.Config{
		BaseURL:  server.URL + "/ers/config",
		Username: "u",
		Password: "p",
	})
	require.NoError(t, err)

	record, found, err := ers.FindGuestUserByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, record, "GuestUser")
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	_, err := iseclient.NewSession(nil)
	require.ErrorIs(t, err, ise.ErrConfigRequired)

	_, err = iseclient.NewSession(&ise.Config{BaseURL: "ise-pan.example.com"})
	require.ErrorIs(t, err, ise.ErrCredentials)

	client, err := iseclient.NewSession(&ise.Config{
		BaseURL:  "ise-pan.example.com/",
		Username: "operator",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, ise.Unauthenticated, client.State())
}
