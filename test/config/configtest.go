package config

import (
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// MockConfigHook is an in-memory config.Hook. Values are looked up by key;
// flags bound with BindFlag win over Values once they are changed.
type MockConfigHook struct {
	Values  map[string]any
	Profile string
	Path    string

	// SaveMock overrides Save when set.
	SaveMock func() error

	bound map[string]*pflag.Flag
}

func NewMockConfigHook(values map[string]any) *MockConfigHook {
	if values == nil {
		values = map[string]any{}
	}
	return &MockConfigHook{Values: values, Profile: "default"}
}

func (m *MockConfigHook) Save() error {
	if m.SaveMock != nil {
		return m.SaveMock()
	}
	return nil
}

func (m *MockConfigHook) Get(key string) any {
	if f, ok := m.bound[key]; ok && f.Changed {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			return sv.GetSlice()
		}
		return f.Value.String()
	}
	if v, ok := m.Values[key]; ok {
		return v
	}
	if f, ok := m.bound[key]; ok {
		return f.Value.String()
	}
	return nil
}

func (m *MockConfigHook) GetString(key string) string {
	return cast.ToString(m.Get(key))
}

func (m *MockConfigHook) GetBool(key string) bool {
	return cast.ToBool(m.Get(key))
}

func (m *MockConfigHook) GetInt(key string) int {
	return cast.ToInt(m.Get(key))
}

func (m *MockConfigHook) GetIntOrElse(key string, orElse int) int {
	if m.Get(key) == nil {
		return orElse
	}
	return m.GetInt(key)
}

func (m *MockConfigHook) GetStringSlice(key string) []string {
	return cast.ToStringSlice(m.Get(key))
}

func (m *MockConfigHook) SetString(k string, v string) {
	m.Set(k, v)
}

func (m *MockConfigHook) Set(k string, v any) {
	if m.Values == nil {
		m.Values = map[string]any{}
	}
	m.Values[k] = v
}

func (m *MockConfigHook) BindFlag(configPath string, f *pflag.Flag) error {
	if m.bound == nil {
		m.bound = map[string]*pflag.Flag{}
	}
	m.bound[configPath] = f
	return nil
}

func (m *MockConfigHook) GetProfile() string {
	return m.Profile
}

func (m *MockConfigHook) GetPath() string {
	return m.Path
}
