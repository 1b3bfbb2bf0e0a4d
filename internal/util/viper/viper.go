package viper

import (
	"strings"

	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/util"
	v "github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the CLI.
var EnvPrefix = strings.ToUpper(meta.CLIName)

// ConfigureEnvVars makes vip resolve keys from environment variables named
// <prefix>_<KEY>, with dots and dashes in the key turned into underscores.
func ConfigureEnvVars(vip *v.Viper, prefix string) {
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()
}

// InitializeDefaultViper loads path, writing defaultValues to it first when
// the file is missing or empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}
	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViperE loads the config file at path and fails when it cannot be read.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper loads the config file at path if it can, and otherwise returns an
// instance backed by the environment only.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, EnvPrefix)
	return rv
}
