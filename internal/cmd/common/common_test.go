package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatRoundTrip(t *testing.T) {
	for _, name := range OutputFormats() {
		of, err := OutputFormatStringToIota(name)
		require.NoError(t, err)
		assert.Equal(t, name, of.String())
	}
	of, err := OutputFormatStringToIota("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, of)

	_, err = OutputFormatStringToIota("table")
	assert.EqualError(t, err, `invalid output format "table", must be one of [json yaml text]`)
}

func TestLogLevelStringToIota(t *testing.T) {
	ll, err := LogLevelStringToIota("trace")
	require.NoError(t, err)
	assert.Equal(t, TRACE, ll)

	_, err = LogLevelStringToIota("verbose")
	assert.Error(t, err)
}

func TestColorModeStringToIota(t *testing.T) {
	cm, err := ColorModeStringToIota("")
	require.NoError(t, err)
	assert.Equal(t, ColorModeAuto, cm)

	cm, err = ColorModeStringToIota("never")
	require.NoError(t, err)
	assert.Equal(t, "never", cm.String())

	_, err = ColorModeStringToIota("sometimes")
	assert.Error(t, err)
}
