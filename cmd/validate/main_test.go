package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/rainyday-config/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, mutate func(domain.Record)) string {
	t.Helper()
	form := domain.NewFormState()
	form.MainPath, form.ScenarioName, form.RainPath = "A", "B", "C"
	rec, err := domain.Build(form)
	require.NoError(t, err)
	if mutate != nil {
		mutate(rec)
	}
	data, err := rec.JSON()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun_Valid(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{writeRecord(t, nil)}, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "All 1 file(s) valid.")
}

func TestRun_LayoutProblems(t *testing.T) {
	path := writeRecord(t, func(r domain.Record) {
		r[domain.KeyWatershedShp] = "ws.shp"
		r[domain.KeyRotationAngle] = "sometimes"
		r[domain.KeySensFrequency] = "often"
	})

	var out bytes.Buffer
	code := run([]string{path}, &out)

	assert.Equal(t, 1, code)
	s := out.String()
	assert.Contains(t, s, "FAIL (3 errors)")
	assert.Contains(t, s, "WATERSHEDSHP: not expected")
	assert.Contains(t, s, `ROTATIONANGLE: malformed value "sometimes"`)
	assert.Contains(t, s, `SENS_FREQUENCY: "often" is neither "false" nor a decimal`)
}

func TestRun_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	var out bytes.Buffer
	code := run([]string{path, filepath.Join(t.TempDir(), "missing.json")}, &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "skipped: file did not parse")
	assert.Contains(t, out.String(), "Validation FAILED for 2 of 2 file(s).")
}
