// Package client implements the ERS management client and the UI session
// client on top of the shared HTTP engine.
package client

import (
	"github.com/fivetwenty-io/ise-client/internal/http"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// createHTTPClientOptions builds the HTTP options both clients share.
func createHTTPClientOptions(config *ise.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithSkipTLSVerify(true))
	}

	if len(config.Proxies) > 0 {
		httpOpts = append(httpOpts, http.WithProxies(config.Proxies))
	}

	if config.ConnectTimeout > 0 || config.ReadTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeouts(config.ConnectTimeout, config.ReadTimeout))
	}

	return httpOpts
}

// loggerAdapter adapts ise.Logger to http.Logger.
type loggerAdapter struct {
	logger ise.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

// nopLogger discards everything; used when the config carries no logger.
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func loggerOrNop(logger ise.Logger) ise.Logger {
	if logger == nil {
		return nopLogger{}
	}

	return logger
}
