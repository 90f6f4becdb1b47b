package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecord(t *testing.T) {
	base := func(t *testing.T) Record {
		rec, err := Build(filledForm())
		require.NoError(t, err)
		return rec
	}

	t.Run("well formed", func(t *testing.T) {
		assert.Empty(t, CheckRecord(base(t)))
	})

	t.Run("both domain keys", func(t *testing.T) {
		rec := base(t)
		rec[KeyDomainShp] = "x.shp"
		problems := CheckRecord(rec)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], KeyDomainShp)
	})

	t.Run("missing area extent", func(t *testing.T) {
		rec := base(t)
		delete(rec, KeyAreaExtent)
		assert.Contains(t, CheckRecord(rec), "AREAEXTENT: missing")
	})

	t.Run("leaked discriminator", func(t *testing.T) {
		rec := base(t)
		rec["EXCLUDESTORMS_TYPE"] = "None"
		assert.Contains(t, CheckRecord(rec), "EXCLUDESTORMS_TYPE: unknown key")
	})

	t.Run("malformed tagged values", func(t *testing.T) {
		rec := base(t)
		rec[KeyExcludeStorms] = "1..200"
		rec[KeyRotationAngle] = "-20,20"
		problems := CheckRecord(rec)
		assert.Contains(t, problems, `EXCLUDESTORMS: malformed value "1..200"`)
		assert.Contains(t, problems, `ROTATIONANGLE: malformed value "-20,20"`)
	})

	t.Run("wrong types", func(t *testing.T) {
		rec := base(t)
		rec[KeyDuration] = "24"
		rec[KeyResampling] = "bootstrap"
		rec[KeyAreaExtent] = map[string]any{KeyLatitudeMin: 1.0}
		problems := CheckRecord(rec)
		assert.Contains(t, problems, "DURATION: expected integer, got string")
		assert.Contains(t, problems, `RESAMPLING: "bootstrap" not in {poisson, empirical, negbinom}`)
		assert.Contains(t, problems, "AREAEXTENT.LATITUDE_MAX: missing or not a number")
	})

	t.Run("sensitivity text", func(t *testing.T) {
		rec := base(t)
		rec[KeySensIntensity] = "0.10"
		rec[KeySensFrequency] = "ten percent"
		assert.Equal(t, []string{`SENS_FREQUENCY: "ten percent" is neither "false" nor a decimal`}, CheckRecord(rec))
	})
}
