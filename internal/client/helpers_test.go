package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// testLogger records log calls.
type testLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *testLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *testLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func (l *testLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, entry := range l.entries {
		if entry.level == level {
			n++
		}
	}

	return n
}

// newTestManagementClient starts handler and returns an ERS client rooted at /ers/config/.
func newTestManagementClient(t *testing.T, handler http.HandlerFunc) (*ManagementClient, *httptest.Server, *testLogger) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := &testLogger{}

	client, err := NewManagementClient(&ise.Config{
		BaseURL:  server.URL + "/ers/config/",
		Username: "admin",
		Password: "secret",
		Logger:   logger,
	})
	require.NoError(t, err)

	return client, server, logger
}
