package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.json")
	data := `[
		{"id": "m1", "text": "A"},
		{"id": "m2", "text": "B"},
		{"id": "m3", "text": "C"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	var ids []string
	for _, m := range cat.Missions() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)

	m, ok := cat.ByID("m2")
	require.True(t, ok)
	assert.Equal(t, "B", m.Text)

	_, ok = cat.ByID("nope")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestParseRejectsBrokenCatalog(t *testing.T) {
	cases := map[string]string{
		"invalid json": `[{"id": "m1"`,
		"duplicate id": `[{"id": "m1", "text": "A"}, {"id": "m1", "text": "B"}]`,
		"empty id":     `[{"id": "", "text": "A"}]`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestParseEmptyCatalog(t *testing.T) {
	cat, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}
