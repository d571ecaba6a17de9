//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	ERSURL      string
	ERSUsername string
	ERSPassword string
	UIURL       string
	UIUsername  string
	UIPassword  string
	PortalID    string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from the same ISE_* variables the CLI reads.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ERSURL:      os.Getenv("ISE_ERS_URL"),
		ERSUsername: os.Getenv("ISE_ERS_USERNAME"),
		ERSPassword: os.Getenv("ISE_ERS_PASSWORD"),
		UIURL:       os.Getenv("ISE_UI_URL"),
		UIUsername:  os.Getenv("ISE_UI_USERNAME"),
		UIPassword:  os.Getenv("ISE_UI_PASSWORD"),
		PortalID:    os.Getenv("ISE_PORTAL_ID"),
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("ISECTL_VERBOSE") == "true",
	}
}

func getBinaryPath() string {
	if path := os.Getenv("ISECTL_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../isectl",
		"./isectl",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "isectl"
}

// SkipIfMissingERS skips the test unless an ERS endpoint and credentials are configured.
func (config *TestConfig) SkipIfMissingERS(t *testing.T) {
	t.Helper()

	if config.ERSURL == "" || config.ERSUsername == "" || config.ERSPassword == "" {
		t.Skip("ISE_ERS_URL and credentials not set, skipping integration test")
	}
}

// SkipIfMissingUI skips the test unless a UI host and credentials are configured.
func (config *TestConfig) SkipIfMissingUI(t *testing.T) {
	t.Helper()

	if config.UIURL == "" || config.UIUsername == "" || config.UIPassword == "" {
		t.Skip("ISE_UI_URL and credentials not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the isectl binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("isectl binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the isectl binary with the test environment.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes an isectl command and returns its output.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	cmd := exec.Command(runner.config.BinaryPath, append([]string{"--skip-ssl-validation"}, args...)...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique guest user name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupGuestUser deletes a guest user created by a test, ignoring failures.
func (runner *CommandRunner) CleanupGuestUser(name string) {
	stdout, stderr, err := runner.Run("guest-user", "delete", name)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for guest user %s: %s\nStderr: %s", name, stdout, stderr)
	}
}
