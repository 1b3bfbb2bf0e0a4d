package common

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/onprem"
	"github.com/kong/kongadmin/internal/onprem/helpers"
	"github.com/kong/kongadmin/internal/onprem/httpclient"
	"github.com/spf13/pflag"
)

const (
	AdminURLFlagName       = "admin-url"
	AdminUsernameFlagName  = "admin-username"
	AdminPasswordFlagName  = "admin-password" // #nosec G101
	AdminTokenFlagName     = "admin-token"    // #nosec G101
	UpsertModeFlagName     = "upsert-mode"
	RequestTimeoutFlagName = "request-timeout"
	TLSSkipVerifyFlagName  = "tls-skip-verify"
)

var (
	AdminURLConfigPath       = "on-prem." + AdminURLFlagName
	AdminUsernameConfigPath  = "on-prem." + AdminUsernameFlagName
	AdminPasswordConfigPath  = "on-prem." + AdminPasswordFlagName // #nosec G101
	AdminTokenConfigPath     = "on-prem." + AdminTokenFlagName    // #nosec G101
	UpsertModeConfigPath     = "on-prem." + UpsertModeFlagName
	RequestTimeoutConfigPath = "on-prem." + RequestTimeoutFlagName
	TLSSkipVerifyConfigPath  = "on-prem." + TLSSkipVerifyFlagName
)

var flagConfigPaths = map[string]string{
	AdminURLFlagName:       AdminURLConfigPath,
	AdminUsernameFlagName:  AdminUsernameConfigPath,
	AdminPasswordFlagName:  AdminPasswordConfigPath,
	AdminTokenFlagName:     AdminTokenConfigPath,
	UpsertModeFlagName:     UpsertModeConfigPath,
	RequestTimeoutFlagName: RequestTimeoutConfigPath,
	TLSSkipVerifyFlagName:  TLSSkipVerifyConfigPath,
}

// AddFlags registers the Admin API connection flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(AdminURLFlagName, "",
		fmt.Sprintf(`Base URL of the Kong Admin API.
- Config path: [ %s ]
- Default    : [ %s ]`, AdminURLConfigPath, config.DefaultAdminURL))
	flags.String(AdminUsernameFlagName, "",
		fmt.Sprintf(`Username for basic authentication against the Admin API.
- Config path: [ %s ]`, AdminUsernameConfigPath))
	flags.String(AdminPasswordFlagName, "",
		fmt.Sprintf(`Password for basic authentication against the Admin API.
- Config path: [ %s ]`, AdminPasswordConfigPath))
	flags.String(AdminTokenFlagName, "",
		fmt.Sprintf(`RBAC token sent in the Kong-Admin-Token header.
- Config path: [ %s ]`, AdminTokenConfigPath))
	flags.String(UpsertModeFlagName, "",
		fmt.Sprintf(`How services, routes, consumers and targets are written.
- Config path: [ %s ]
- Allowed    : [ %s|%s ]`, UpsertModeConfigPath, onprem.UpsertPut, onprem.UpsertPostPatch))
	flags.Int(RequestTimeoutFlagName, config.DefaultRequestTimeout,
		fmt.Sprintf(`Timeout of a single Admin API request in seconds.
- Config path: [ %s ]`, RequestTimeoutConfigPath))
	flags.Bool(TLSSkipVerifyFlagName, false,
		fmt.Sprintf(`Skip verification of the Admin API TLS certificate.
- Config path: [ %s ]`, TLSSkipVerifyConfigPath))
}

// BindFlags binds the connection flags present in flags to their config paths.
func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	for name, path := range flagConfigPaths {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(path, f); err != nil {
			return err
		}
	}
	return nil
}

// ClientOptions reads the connection settings of the active profile.
func ClientOptions(cfg config.Hook) (onprem.Options, error) {
	mode, err := onprem.ParseUpsertMode(cfg.GetString(UpsertModeConfigPath))
	if err != nil {
		return onprem.Options{}, err
	}

	baseURL := strings.TrimSpace(cfg.GetString(AdminURLConfigPath))
	if baseURL == "" {
		baseURL = config.DefaultAdminURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return onprem.Options{}, fmt.Errorf("invalid %s %q: must start with http:// or https://", AdminURLFlagName, baseURL)
	}

	return onprem.Options{
		BaseURL:    baseURL,
		Username:   cfg.GetString(AdminUsernameConfigPath),
		Password:   cfg.GetString(AdminPasswordConfigPath),
		Token:      cfg.GetString(AdminTokenConfigPath),
		UpsertMode: mode,
	}, nil
}

// NewHTTPClient builds the transport for Admin API requests.
func NewHTTPClient(cfg config.Hook) (*http.Client, error) {
	timeout := cfg.GetIntOrElse(RequestTimeoutConfigPath, config.DefaultRequestTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid %s %d: must be positive", RequestTimeoutFlagName, timeout)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.GetBool(TLSSkipVerifyConfigPath) {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}

	return &http.Client{
		Timeout:   time.Duration(timeout) * time.Second,
		Transport: transport,
	}, nil
}

// OnPremClientFactory builds a logging onprem.Client from the profile
// configuration.
func OnPremClientFactory(cfg config.Hook, logger *slog.Logger) (helpers.Invoker, error) {
	opts, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	httpClient, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return onprem.NewClient(httpclient.NewLoggingHTTPClientWithClient(httpClient, logger), opts, logger), nil
}

// GetClientFactory returns the factory commands use, honouring test
// overrides.
func GetClientFactory() helpers.ClientFactory {
	if helpers.DefaultClientFactory != nil {
		return helpers.DefaultClientFactory
	}
	return OnPremClientFactory
}
