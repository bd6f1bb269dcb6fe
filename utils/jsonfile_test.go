package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waesteves/rastreador-api/utils"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nomes.json")
	in := map[string]map[string]string{
		"R12345": {"nome": "Carro do Zé", "icon": "🚗", "color": "#00d4aa"},
	}
	require.NoError(t, utils.SaveJSON(path, in))

	out := map[string]map[string]string{}
	require.True(t, utils.LoadJSON(path, &out))
	assert.Equal(t, in, out)

	// non-ASCII must land in the file literally, not escaped
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Carro do Zé")
	assert.Contains(t, string(raw), "🚗")
}

func TestLoadMissingFileLeavesStateEmpty(t *testing.T) {
	out := map[string]string{"keep": "me"}
	assert.False(t, utils.LoadJSON(filepath.Join(t.TempDir(), "nope.json"), &out))
	assert.Equal(t, map[string]string{"keep": "me"}, out)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json {"), 0o644))

	out := map[string]string{}
	assert.False(t, utils.LoadJSON(path, &out))
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "deep", "historico.json")
	require.NoError(t, utils.SaveJSON(path, map[string]int{"a": 1}))

	out := map[string]int{}
	require.True(t, utils.LoadJSON(path, &out))
	assert.Equal(t, 1, out["a"])
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, utils.SaveJSON(path, map[string]int{"v": 1}))
	require.NoError(t, utils.SaveJSON(path, map[string]int{"v": 2}))

	out := map[string]int{}
	require.True(t, utils.LoadJSON(path, &out))
	assert.Equal(t, 2, out["v"])

	// no leftover temp file
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
