package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

var (
	ErrProfileExists    = errors.New("profile already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileNameEmpty = errors.New("invalid profile name (empty)")
)

// Manager reads and creates the profiles of a configuration file. Every
// top level key of the file is a profile.
type Manager interface {
	GetProfiles() []string
	GetProfile(name string) (map[string]any, error)
	CreateProfile(name string) error
}

type profileManager struct {
	config *viper.Viper
}

type Key struct{}

// ProfileManagerKey stores the Manager in a command context.
var ProfileManagerKey = Key{}

// GetProfiles returns the profile names in lexical order.
func (v *profileManager) GetProfiles() []string {
	var names []string
	for _, key := range v.config.AllKeys() {
		top, _, _ := strings.Cut(key, ".")
		if !slices.Contains(names, top) {
			names = append(names, top)
		}
	}
	slices.Sort(names)
	return names
}

func (v *profileManager) CreateProfile(name string) error {
	if name == "" {
		return ErrProfileNameEmpty
	}
	if v.config.IsSet(name) {
		return ErrProfileExists
	}
	v.config.Set(name, map[string]any{})
	return nil
}

func (v *profileManager) GetProfile(name string) (map[string]any, error) {
	if name == "" {
		return nil, ErrProfileNameEmpty
	}
	if !v.config.IsSet(name) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return v.config.GetStringMap(name), nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
