package profile

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() Manager {
	v := viper.New()
	v.Set("default", map[string]any{"output": "text", "on-prem": map[string]any{"admin-url": "http://localhost:8001"}})
	v.Set("prod", map[string]any{"output": "json"})
	return NewManager(v)
}

func TestGetProfiles(t *testing.T) {
	assert.Equal(t, []string{"default", "prod"}, newTestManager().GetProfiles())
}

func TestGetProfile(t *testing.T) {
	m := newTestManager()

	p, err := m.GetProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "json", p["output"])

	_, err = m.GetProfile("staging")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = m.GetProfile("")
	assert.ErrorIs(t, err, ErrProfileNameEmpty)
}

func TestCreateProfile(t *testing.T) {
	m := newTestManager()

	assert.ErrorIs(t, m.CreateProfile("prod"), ErrProfileExists)
	assert.ErrorIs(t, m.CreateProfile(""), ErrProfileNameEmpty)
	require.NoError(t, m.CreateProfile("staging"))
	assert.ErrorIs(t, m.CreateProfile("staging"), ErrProfileExists)
}
