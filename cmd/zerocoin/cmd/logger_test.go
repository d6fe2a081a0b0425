package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zerocoin.log")
	l, closer, err := NewLogger("debug", path)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l.Info().Str("denomination", "lovelace").Msg("minted coin")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"minted coin"`)
	assert.Contains(t, string(data), `"denomination":"lovelace"`)
}

func TestNewLoggerLevels(t *testing.T) {
	l, closer, err := NewLogger("", "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	require.NoError(t, closer.Close())

	_, _, err = NewLogger("loud", "")
	require.Error(t, err)
}
