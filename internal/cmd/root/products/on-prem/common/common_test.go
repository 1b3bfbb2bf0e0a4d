package common

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/onprem"
	"github.com/kong/kongadmin/internal/onprem/helpers"
	configtest "github.com/kong/kongadmin/test/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptionsDefaults(t *testing.T) {
	cfg := configtest.NewMockConfigHook(nil)

	opts, err := ClientOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", opts.BaseURL)
	assert.Equal(t, onprem.UpsertPut, opts.UpsertMode)
	assert.Empty(t, opts.Token)
}

func TestClientOptionsFromFlags(t *testing.T) {
	cfg := configtest.NewMockConfigHook(map[string]any{
		AdminURLConfigPath: "http://ignored:8001",
	})
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(t, flags.Parse([]string{
		"--admin-url", "https://kong.example.com:8444",
		"--admin-token", "secret",
		"--upsert-mode", "post-patch",
	}))
	require.NoError(t, BindFlags(cfg, flags))

	opts, err := ClientOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://kong.example.com:8444", opts.BaseURL)
	assert.Equal(t, "secret", opts.Token)
	assert.Equal(t, onprem.UpsertPostPatch, opts.UpsertMode)
}

func TestClientOptionsRejectsInvalidValues(t *testing.T) {
	_, err := ClientOptions(configtest.NewMockConfigHook(map[string]any{AdminURLConfigPath: "localhost:8001"}))
	assert.ErrorContains(t, err, "must start with http:// or https://")

	_, err = ClientOptions(configtest.NewMockConfigHook(map[string]any{UpsertModeConfigPath: "merge"}))
	assert.ErrorContains(t, err, "invalid upsert mode")
}

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient(configtest.NewMockConfigHook(map[string]any{
		RequestTimeoutConfigPath: 5,
		TLSSkipVerifyConfigPath:  true,
	}))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	client, err = NewHTTPClient(configtest.NewMockConfigHook(nil))
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, client.Timeout)

	_, err = NewHTTPClient(configtest.NewMockConfigHook(map[string]any{RequestTimeoutConfigPath: 0}))
	assert.Error(t, err)
}

func TestGetClientFactoryHonoursOverride(t *testing.T) {
	assert.NotNil(t, GetClientFactory())

	called := false
	helpers.DefaultClientFactory = func(_ config.Hook, _ *slog.Logger) (helpers.Invoker, error) {
		called = true
		return nil, nil
	}
	t.Cleanup(func() { helpers.DefaultClientFactory = nil })

	_, err := GetClientFactory()(nil, nil)
	require.NoError(t, err)
	assert.True(t, called)
}
