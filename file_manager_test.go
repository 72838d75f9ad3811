package promptress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "promptress", "config.toml")
	m := NewFileManager()

	require.NoError(t, m.WriteConfig(path, DefaultConfig(), false))

	got, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), got)
}

func TestFileManager_WriteConfigKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	m := NewFileManager()

	err := m.WriteConfig(path, DefaultConfig(), false)
	assert.ErrorIs(t, err, ErrConfigExists)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "# mine\n", string(data))

	require.NoError(t, m.WriteConfig(path, sampleConfig(), true))
	got, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}

func TestFileManager_EncodeTOMLCompiles(t *testing.T) {
	data, err := NewFileManager().EncodeTOML(sampleConfig())
	require.NoError(t, err)

	got, err := ParseConfig(data, FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}
