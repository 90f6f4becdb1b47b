package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_EveryInputHasBinding(t *testing.T) {
	s := NewFormState()
	for _, f := range Schema() {
		_, ok := s.Pointer(f.Key)
		if f.Input() {
			assert.True(t, ok, "input %s has no binding", f.Key)
		} else {
			assert.False(t, ok, "derived %s should not be bindable", f.Key)
		}
	}
}

func TestSchema_Defaults(t *testing.T) {
	tests := map[string]any{
		KeyDuration:       24,
		KeyNStorms:        20,
		KeyNYears:         100,
		KeyUncertainty:    "ensemble",
		KeyDomainType:     DomainRectangular,
		KeyLatitudeMin:    42.5,
		KeyLongitudeMax:   -88.0,
		KeyPointArea:      AreaPoint,
		KeyCalcType:       "ams",
		KeyRotationType:   TagNone,
		"INCLUDEYEARS_MIN": 2002,
	}
	for key, want := range tests {
		f, ok := Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, want, f.Default, key)
	}
}

func TestSchema_GroupsCoverEveryField(t *testing.T) {
	total := 0
	for _, g := range Groups {
		fields := GroupFields(g)
		assert.NotEmpty(t, fields, g)
		total += len(fields)
	}
	assert.Len(t, Schema(), total)
}

func TestSchema_RequiredFields(t *testing.T) {
	var required []string
	for _, f := range Schema() {
		if f.Required {
			required = append(required, f.Key)
		}
	}
	assert.Equal(t, []string{KeyMainPath, KeyScenarioName, KeyRainPath}, required)
}

func TestSchema_DiscriminatorsNotPersisted(t *testing.T) {
	for _, key := range []string{"EXCLUDESTORMS_TYPE", "EXCLUDEMONTHS_TYPE", "INCLUDEYEARS_TYPE", KeyRotationType} {
		f, ok := Lookup(key)
		require.True(t, ok, key)
		assert.False(t, f.Persisted, key)
	}
}

func TestVisible(t *testing.T) {
	f, ok := Lookup(KeyPointLat)
	require.True(t, ok)

	assert.True(t, Visible(f, map[string]any{KeyPointArea: AreaPoint}))
	assert.True(t, Visible(f, map[string]any{KeyPointArea: AreaGrid}))
	assert.False(t, Visible(f, map[string]any{KeyPointArea: AreaWatershed}))
	assert.False(t, Visible(f, map[string]any{}))

	always, ok := Lookup(KeyDuration)
	require.True(t, ok)
	assert.True(t, Visible(always, nil))
}

func TestIncludedKeys(t *testing.T) {
	values := NewFormState().Values()

	keys := IncludedKeys(values)
	assert.Contains(t, keys, KeyAreaExtent)
	assert.Contains(t, keys, KeyPointLat)
	assert.NotContains(t, keys, KeyDomainShp)
	assert.NotContains(t, keys, KeyLatitudeMin)
	assert.NotContains(t, keys, KeyRotationType)

	values[KeyDomainType] = DomainIrregular
	values[KeyPointArea] = AreaRectangle
	keys = IncludedKeys(values)
	assert.Contains(t, keys, KeyDomainShp)
	assert.NotContains(t, keys, KeyAreaExtent)
	assert.Contains(t, keys, KeyBoxXMax)
	assert.NotContains(t, keys, KeyPointLat)
}

func TestFormState_Set(t *testing.T) {
	s := NewFormState()

	require.NoError(t, s.Set(KeyDuration, "48"))
	assert.Equal(t, 48, s.Duration)

	require.NoError(t, s.Set(KeyNStorms, "30.0"))
	assert.Equal(t, 30, s.NStorms)

	require.NoError(t, s.Set(KeyPointLat, "43.07"))
	assert.Equal(t, 43.07, s.PointLat)

	require.NoError(t, s.Set("EXCLUDESTORMS_LIST", "3,7,12"))
	assert.Equal(t, "3,7,12", s.ExcludeStorms.List)

	require.NoError(t, s.Set(KeyNYears, ""))
	assert.Equal(t, 100, s.NYears)

	err := s.Set(KeyDuration, "2.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyDuration)

	err = s.Set(KeyPointLon, "west")
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyPointLon)

	err = s.Set(KeyNStorms, "1e30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Equal(t, 30, s.NStorms)

	err = s.Set("EXCLUDESTORMS_MAX", "99999999999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Equal(t, 200, s.ExcludeStorms.Max)

	err = s.Set("NOPE", "1")
	require.ErrorIs(t, err, ErrUnknownField)

	err = s.Set(KeyAreaExtent, "{}")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestFormState_SetRejectsUnknownOptions(t *testing.T) {
	tests := []struct {
		key, raw string
	}{
		{KeyDomainType, "Irregular"},
		{KeyResampling, "bogus"},
		{KeyPointArea, ""},
		{"EXCLUDESTORMS_TYPE", "range"},
		{KeyRotationType, "custom"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.raw, func(t *testing.T) {
			s := NewFormState()
			before := s.Values()[tc.key]

			err := s.Set(tc.key, tc.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "field "+tc.key)
			assert.Equal(t, before, s.Values()[tc.key])
		})
	}

	s := NewFormState()
	require.NoError(t, s.Set(KeyDomainType, DomainIrregular))
	require.NoError(t, s.Set("EXCLUDESTORMS_TYPE", TagRange))
	assert.Equal(t, DomainIrregular, s.DomainType)
	assert.Equal(t, TagRange, s.ExcludeStorms.Type)
}

func TestFormState_Apply(t *testing.T) {
	s := NewFormState()
	err := s.Apply(map[string]string{
		KeyMainPath:     "main",
		KeyPointArea:    AreaWatershed,
		KeyWatershedShp: "ws.shp",
		KeyRotationType: TagCustom,
		KeyRotationMin:  "-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "main", s.MainPath)
	assert.Equal(t, AreaWatershed, s.PointArea)
	assert.Equal(t, "ws.shp", s.WatershedShp)
	assert.Equal(t, Rotation{Type: TagCustom, Min: -10, Max: 20, Count: 5}, s.Rotation)

	err = s.Apply(map[string]string{KeyDuration: "x", "ZZZ": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyDuration)
}
