package yamlvalues

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/rainyday-config/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preset = `
MAINPATH: /home/user/rainyday
SCENARIONAME: madison
RAINPATH: /data/stageiv
DURATION: 72
POINTLAT: 43.07
CREATECATALOG: false
EXCLUDEMONTHS_TYPE: Range
EXCLUDEMONTHS_MIN: 11
CATALOGNAME:
`

func TestParse(t *testing.T) {
	values, err := Parse([]byte(preset))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		domain.KeyMainPath:      "/home/user/rainyday",
		domain.KeyScenarioName:  "madison",
		domain.KeyRainPath:      "/data/stageiv",
		domain.KeyDuration:      "72",
		domain.KeyPointLat:      "43.07",
		domain.KeyCreateCatalog: "false",
		"EXCLUDEMONTHS_TYPE":    "Range",
		"EXCLUDEMONTHS_MIN":     "11",
		domain.KeyCatalogName:   "",
	}, values)

	form := domain.NewFormState()
	require.NoError(t, form.Apply(values))
	rec, err := domain.Build(form)
	require.NoError(t, err)
	assert.Equal(t, 72, rec[domain.KeyDuration])
	assert.Equal(t, "11-3", rec[domain.KeyExcludeMonths])
}

func TestParse_Empty(t *testing.T) {
	values, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "BOGUS: 1\n", "unknown field: BOGUS"},
		{"derived key", "EXCLUDESTORMS: none\n", "unknown field: EXCLUDESTORMS"},
		{"nested value", "AREAEXTENT:\n  LATITUDE_MIN: 1\n", "unknown field"},
		{"list value", "RETURNLEVELS: [2, 5, 10]\n", "RETURNLEVELS: expected a scalar"},
		{"not a mapping", "- a\n- b\n", "parse preset"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("NSTORMS: 40\n"), 0o600))

	values, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "40", values[domain.KeyNStorms])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read preset")
}
