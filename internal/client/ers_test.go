package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

func searchResultBody(total int, resources []map[string]any, next string) map[string]any {
	result := map[string]any{
		"total":     total,
		"resources": resources,
	}

	if next != "" {
		result["nextPage"] = map[string]any{"rel": "next", "href": next, "type": "application/json"}
	}

	return map[string]any{"SearchResult": result}
}

func writeJSON(t *testing.T, writer http.ResponseWriter, body any) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(writer).Encode(body))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManagementClient_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("follows next page links", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
			requests.Add(1)

			assert.Equal(t, "/ers/config/guestuser", request.URL.Path)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			user, pass, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", user)
			assert.Equal(t, "secret", pass)

			switch request.URL.Query().Get("page") {
			case "1":
				assert.Equal(t, "100", request.URL.Query().Get("size"))
				writeJSON(t, writer, searchResultBody(3, []map[string]any{
					{"id": "1", "name": "alice"},
					{"id": "2", "name": "bob"},
				}, "http://"+request.Host+"/ers/config/guestuser?size=100&page=2"))
			case "2":
				writeJSON(t, writer, searchResultBody(3, []map[string]any{{"id": "3", "name": "carol"}}, ""))
			default:
				t.Errorf("unexpected page %q", request.URL.Query().Get("page"))
			}
		})

		records, err := client.FetchAll(context.Background(), "guestuser")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "alice", records[0]["name"])
		assert.Equal(t, "carol", records[2]["name"])
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("keeps caller paging and repeated filters", func(t *testing.T) {
		t.Parallel()

		client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
			query := request.URL.Query()
			assert.Equal(t, []string{"name.STARTSW.a", "status.EQ.ACTIVE"}, query["filter"])
			assert.Equal(t, "20", query.Get("size"))
			assert.Equal(t, "1", query.Get("page"))

			writeJSON(t, writer, searchResultBody(0, []map[string]any{}, ""))
		})

		records, err := client.FetchAll(context.Background(),
			"guestuser?filter=name.STARTSW.a&filter=status.EQ.ACTIVE&size=20")
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NotNil(t, records)
	})

	t.Run("non collection response yields nothing", func(t *testing.T) {
		t.Parallel()

		client, _, logger := newTestManagementClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, map[string]any{"ERSResponse": map[string]any{"operation": "GET"}})
		})

		records, err := client.FetchAll(context.Background(), "guestuser")
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, 1, logger.count("warn"))
	})

	t.Run("repeated next link is rejected", func(t *testing.T) {
		t.Parallel()

		client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(t, writer, searchResultBody(10, []map[string]any{{"id": "1"}},
				"http://"+request.Host+"/ers/config/guestuser?page=1&size=100"))
		})

		records, err := client.FetchAll(context.Background(), "guestuser")
		require.ErrorIs(t, err, ise.ErrPaginationLoop)
		assert.Nil(t, records)
	})

	t.Run("failed page fails the whole call", func(t *testing.T) {
		t.Parallel()

		client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Query().Get("page") == "2" {
				writer.WriteHeader(http.StatusInternalServerError)
				_, _ = writer.Write([]byte("server error"))

				return
			}

			writeJSON(t, writer, searchResultBody(4, []map[string]any{{"id": "1"}},
				"http://"+request.Host+"/ers/config/guestuser?size=100&page=2"))
		})

		records, err := client.FetchAll(context.Background(), "guestuser")
		require.Error(t, err)
		assert.Nil(t, records)
		assert.Equal(t, http.StatusInternalServerError, ise.StatusCode(err))

		var remoteErr *ise.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, http.MethodGet, remoteErr.Method)
		assert.Equal(t, "server error", remoteErr.Body)
		assert.Contains(t, remoteErr.URL, "page=2")
	})
}

func TestManagementClient_GetAndList(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/ers/config/guestuser/abc":
			writeJSON(t, writer, map[string]any{"GuestUser": map[string]any{"id": "abc"}})
		case "/ers/config/endpoint":
			writeJSON(t, writer, searchResultBody(1, []map[string]any{{"id": "e1"}},
				"http://"+request.Host+"/ers/config/endpoint?page=2"))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	record, err := client.Get(ctx, "guestuser/abc")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "abc"}, record["GuestUser"])

	records, err := client.List(ctx, "endpoint?filter=portalUser.EQ.alice&page=1&size=100")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "e1", records[0]["id"])

	_, err = client.Get(ctx, "endpoint")
	require.ErrorIs(t, err, ise.ErrUnexpectedShape)

	_, err = client.List(ctx, "guestuser/abc")
	require.ErrorIs(t, err, ise.ErrUnexpectedShape)

	_, err = client.Get(ctx, "missing")
	assert.True(t, ise.IsNotFound(err))
}

func TestManagementClient_Writes(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

		switch request.Method {
		case http.MethodPost:
			writer.WriteHeader(http.StatusCreated)
		case http.MethodPut:
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"ERSResponse":{"messages":[{"title":"bad"}]}}`))
		case http.MethodDelete:
			writer.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	payload := map[string]any{"Endpoint": map[string]any{"mac": "AA:BB:CC:DD:EE:FF"}}

	require.NoError(t, client.Create(ctx, "endpoint/", payload))
	require.NoError(t, client.Delete(ctx, "endpoint/e1"))

	err := client.Update(ctx, "endpoint/e1", payload)

	var remoteErr *ise.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
	assert.Equal(t, http.MethodPut, remoteErr.Method)
	assert.Equal(t, payload, remoteErr.Payload)
	assert.Contains(t, err.Error(), "payload")
}

func TestDecodePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantEnvelope bool
		wantNext     string
		wantCount    int
	}{
		{
			name:         "envelope with next link",
			body:         `{"SearchResult":{"total":3,"resources":[{"id":"1"}],"nextPage":{"href":"https://ise/next"}}}`,
			wantEnvelope: true,
			wantNext:     "https://ise/next",
			wantCount:    1,
		},
		{
			name:         "envelope with empty resources",
			body:         `{"SearchResult":{"total":0,"resources":[]}}`,
			wantEnvelope: true,
		},
		{
			name: "null resources is a raw body",
			body: `{"SearchResult":{"total":0,"resources":null}}`,
		},
		{
			name: "plain object",
			body: `{"GuestUser":{"id":"1"}}`,
		},
		{
			name: "empty body",
			body: "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			page, err := decodePage([]byte(testCase.body))
			require.NoError(t, err)

			envelope, ok := page.(*ise.Envelope)
			assert.Equal(t, testCase.wantEnvelope, ok)

			if ok {
				assert.Equal(t, testCase.wantNext, envelope.NextPage)
				assert.Equal(t, testCase.wantNext != "", envelope.HasNext())
				assert.Len(t, envelope.Resources, testCase.wantCount)
			} else {
				assert.IsType(t, &ise.RawBody{}, page)
			}
		})
	}

	_, err := decodePage([]byte(`[1,2]`))
	require.ErrorIs(t, err, ise.ErrUnexpectedShape)
}

func TestNewManagementClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewManagementClient(nil)
	require.ErrorIs(t, err, ise.ErrConfigRequired)

	_, err = NewManagementClient(&ise.Config{Username: "u", Password: "p"})
	require.ErrorIs(t, err, ise.ErrBaseURLRequired)

	_, err = NewManagementClient(&ise.Config{BaseURL: "https://ise:9060/ers/config/"})
	require.ErrorIs(t, err, ise.ErrCredentials)

	client, err := NewManagementClient(&ise.Config{
		BaseURL:  "https://ise:9060/ers/config/",
		Username: "u",
		Password: "p",
	})
	require.NoError(t, err)

	var _ ise.ManagementClient = client
}

func TestWithPagingDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "bare collection", path: "guestuser", want: "guestuser?size=100&page=1"},
		{name: "caller size kept", path: "guestuser?size=20", want: "guestuser?size=20&page=1"},
		{name: "both present", path: "endpoint?page=3&size=5", want: "endpoint?page=3&size=5"},
		{
			name: "repeated filters kept in order",
			path: "guestuser?filter=status.EQ.ACTIVE&filter=name.STARTSW.a",
			want: "guestuser?filter=status.EQ.ACTIVE&filter=name.STARTSW.a&size=100&page=1",
		},
		{name: "semicolon in filter", path: "guestuser?filter=name.EQ.a;b", want: "guestuser?filter=name.EQ.a;b&size=100&page=1"},
		{
			name: "bare percent in filter",
			path: "endpoint?filter=description.CONTAINS.50%",
			want: "endpoint?filter=description.CONTAINS.50%&size=100&page=1",
		},
		{name: "escaped key counts as present", path: "guestuser?%73ize=10", want: "guestuser?%73ize=10&page=1"},
		{name: "trailing question mark", path: "guestuser?", want: "guestuser?size=100&page=1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := withPagingDefaults(testCase.path)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestManagementClient_FetchAll_RawFilterReachesServer(t *testing.T) {
	t.Parallel()

	var rawQuery atomic.Value

	client, _, _ := newTestManagementClient(t, func(writer http.ResponseWriter, request *http.Request) {
		rawQuery.Store(request.URL.RawQuery)
		writeJSON(t, writer, searchResultBody(0, []map[string]any{}, ""))
	})

	_, err := client.FetchAll(context.Background(), "guestuser?filter=name.EQ.a;b")
	require.NoError(t, err)
	assert.Equal(t, "filter=name.EQ.a;b&size=100&page=1", rawQuery.Load())
}
