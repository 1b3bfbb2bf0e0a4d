package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

const defaultConfigFileName = "config.yaml"

// Defaults written to a freshly created config file.
const (
	DefaultAdminURL       = "http://localhost:8001"
	DefaultUpsertMode     = "put"
	DefaultRequestTimeout = 60
)

var ErrConfigFileNotFound = errors.New("the provided config file path does not exist")

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/kongadmin, falling back to
// ~/.config/kongadmin.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(home, ".config")
	}
	return os.ExpandEnv(filepath.Join(val, meta.CLIName)), nil
}

func GetDefaultConfigFilePath() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(path, defaultConfigFileName), nil
}

// GetConfig loads the configuration for profile. A file given explicitly must
// exist; the default file is created with defaults on first use.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	if _, statErr := os.Stat(path); statErr == nil {
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, err
		}
		return BuildProfiledConfig(profile, path, vip), nil
	}

	if path != defaultConfigFilePath {
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}

	vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
	if err != nil {
		return nil, err
	}
	return BuildProfiledConfig(profile, path, vip), nil
}

type Key struct{}

// ConfigKey stores the Hook in a command context.
var ConfigKey = Key{}

// Hook is the read and override surface commands get over the profile's
// configuration.
type Hook interface {
	// Save writes the whole configuration file.
	Save() error
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	// GetIntOrElse returns orElse when key is unset.
	GetIntOrElse(key string, orElse int) int
	GetStringSlice(key string) []string
	SetString(key string, value string)
	Set(k string, v any)
	Get(key string) any
	// BindFlag makes configPath resolve to f when the flag is set.
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	GetPath() string
}

// ProfiledConfig scopes a loaded configuration file to one profile.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string {
	return p.ProfileName
}

func (p *ProfiledConfig) Save() error {
	return p.WriteConfig()
}

func (p *ProfiledConfig) GetString(key string) string {
	return p.subViper.GetString(key)
}

func (p *ProfiledConfig) GetBool(key string) bool {
	return p.subViper.GetBool(key)
}

func (p *ProfiledConfig) GetInt(key string) int {
	return p.subViper.GetInt(key)
}

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) GetStringSlice(key string) []string {
	return p.subViper.GetStringSlice(key)
}

func (p *ProfiledConfig) Get(key string) any {
	return p.subViper.Get(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) SetString(k string, v string) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) Set(k string, v any) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) GetPath() string {
	return p.Path
}

// BuildProfiledConfig scopes mainv to profile. Environment variables are
// qualified with the profile name: KONGADMIN_<PROFILE>_<KEY>.
func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		// A sub viper of an existing profile inherits the prefix and key path
		// of mainv, a fresh one needs both.
		subv = v.New()
		viper.ConfigureEnvVars(subv, viper.EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(profile, "-", "_")))
	}

	return &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	logPath := filepath.Join(filepath.Dir(configFilePath), "logs", meta.CLIName+".log")

	return map[string]any{
		profileName: map[string]any{
			common.OutputConfigPath:   common.DefaultOutputFormat,
			common.LogLevelConfigPath: common.DefaultLogLevel,
			common.LogFileConfigPath:  logPath,
			"on-prem": map[string]any{
				"admin-url":       DefaultAdminURL,
				"upsert-mode":     DefaultUpsertMode,
				"request-timeout": DefaultRequestTimeout,
			},
		},
	}
}
