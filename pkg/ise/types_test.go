package ise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := ParseParams("status=CONTEXT_EXACT_MATCH_connected&MACAddress=CA%3A37&status=x&empty=")
	require.NoError(t, err)

	assert.Equal(t, []Param{
		{Key: "status", Value: "x"},
		{Key: "MACAddress", Value: "CA:37"},
		{Key: "empty", Value: ""},
	}, params)

	params, err = ParseParams("")
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = ParseParams("bad=%zz")
	require.Error(t, err)
}

func TestGuestUserParams_Request(t *testing.T) {
	request := (&GuestUserParams{Username: "visitor", Email: "v@example.com", ValidDays: 2}).Request()

	assert.True(t, request.GuestUser.GuestInfo.Enabled)
	assert.Equal(t, "visitor", request.GuestUser.GuestInfo.UserName)
	assert.Equal(t, "v@example.com", request.GuestUser.GuestInfo.EmailAddress)
	assert.Equal(t, 2, request.GuestUser.GuestAccessInfo.ValidDays)
	assert.Empty(t, request.GuestUser.ID)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "created", UpsertCreated.String())
	assert.Equal(t, "skipped", UpsertSkipped.String())
	assert.Equal(t, "logged-out", LoggedOut.String())
	assert.Equal(t, "SessionState(9)", SessionState(9).String())
}
