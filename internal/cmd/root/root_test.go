package root

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kong/kongadmin/internal/build"
	"github.com/kong/kongadmin/internal/iostreams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("KONGADMIN_PROFILE", "")
	return dir
}

func TestExecuteVersion(t *testing.T) {
	dir := setupHome(t)
	streams, _, out, _ := iostreams.NewTestIOStreams()

	err := execute(context.Background(), streams, &build.Info{Version: "1.0.0"}, []string{"version", "-o", "json"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, out.String())

	_, err = os.Stat(filepath.Join(dir, "kongadmin", "config.yaml"))
	assert.NoError(t, err, "default configuration file is created on first use")
}

func TestExecuteReportsFailedResult(t *testing.T) {
	dir := setupHome(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	}))
	t.Cleanup(server.Close)

	streams, _, _, errOut := iostreams.NewTestIOStreams()
	logFile := filepath.Join(dir, "run.log")
	err := execute(context.Background(), streams, &build.Info{}, []string{
		"get", "on-prem", "service", "missing",
		"--admin-url", server.URL,
		"--log-file", logFile,
		"--log-level", "debug",
	})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Error: Failed to find service")
	assert.Contains(t, errOut.String(), "status: 404")

	logged, readErr := os.ReadFile(logFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(logged), "Admin API request")
	assert.Contains(t, string(logged), "Failed to find service")
}

func TestExecuteRejectsMissingConfigFile(t *testing.T) {
	dir := setupHome(t)
	streams, _, _, errOut := iostreams.NewTestIOStreams()

	err := execute(context.Background(), streams, &build.Info{}, []string{
		"version", "--config-file", filepath.Join(dir, "missing.yaml"),
	})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "config file path does not exist")
}
