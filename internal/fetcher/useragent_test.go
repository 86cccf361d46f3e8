package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUserAgentPool_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uas.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nAgentOne\n\nAgentTwo\n"), 0o644))

	pool, err := loadUserAgentPool(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AgentOne", "AgentTwo"}, pool.pool)
}

func TestLoadUserAgentPool_MissingFileFallsBackToDefault(t *testing.T) {
	pool, err := loadUserAgentPool(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{defaultUserAgent}, pool.pool)
}

func TestUserAgentPool_PickReturnsFromPool(t *testing.T) {
	pool, err := loadUserAgentPool("")
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, pool.pick())
}
