package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrMissingRequiredField is matched by every *MissingFieldsError.
var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldsError lists the required keys that were empty at submission.
type MissingFieldsError struct {
	Missing []string
}

func (e *MissingFieldsError) Error() string {
	return "fields missing: " + strings.Join(e.Missing, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingRequiredField }

// Record is the control file: fixed uppercase keys mapped to string, int,
// float64 or, for AREAEXTENT, map[string]any values.
type Record map[string]any

// Build assembles a Record from a snapshot of s. The form itself is not
// modified. It fails with *MissingFieldsError when MAINPATH, SCENARIONAME or
// RAINPATH is blank.
func Build(s *FormState) (Record, error) {
	if missing := missingRequired(s); len(missing) > 0 {
		return nil, &MissingFieldsError{Missing: missing}
	}

	snap := *s
	snap.clamp()
	values := snap.Values()

	candidates := map[string]any{
		KeyMainPath:           entryName(snap.MainPath),
		KeyScenarioName:       entryName(snap.ScenarioName),
		KeyRainPath:           snap.RainPath,
		KeyCatalogName:        snap.CatalogName,
		KeyCreateCatalog:      snap.CreateCatalog,
		KeyDuration:           snap.Duration,
		KeyDurationCorrection: snap.DurationCorrection,
		KeyNStorms:            snap.NStorms,
		KeyNYears:             snap.NYears,
		KeyNRealizations:      snap.NRealizations,
		KeyUncertainty:        snap.Uncertainty,
		KeyTimeSeparation:     snap.TimeSeparation,
		KeyDomainType:         snap.DomainType,
		KeyAreaExtent: map[string]any{
			KeyLatitudeMin:  snap.LatitudeMin,
			KeyLatitudeMax:  snap.LatitudeMax,
			KeyLongitudeMin: snap.LongitudeMin,
			KeyLongitudeMax: snap.LongitudeMax,
		},
		KeyDomainShp:       snap.DomainShp,
		KeyDiagnosticPlots: snap.DiagnosticPlots,
		KeyFreqAnalysis:    snap.FreqAnalysis,
		KeyScenarios:       snap.Scenarios,
		KeySpinPeriod:      snap.SpinPeriod,
		KeyReturnThreshold: snap.ReturnThreshold,
		KeyExcludeStorms:   snap.ExcludeStorms.format("none"),
		KeyExcludeMonths:   snap.ExcludeMonths.format("none"),
		KeyIncludeYears:    snap.IncludeYears.format("all"),
		KeyResampling:      snap.Resampling,
		KeyTransposition:   snap.Transposition,
		KeyRotationAngle:   snap.Rotation.format(),
		KeyReturnLevels:    snap.ReturnLevels,
		KeyPointArea:       snap.PointArea,
		KeyPointLat:        snap.PointLat,
		KeyPointLon:        snap.PointLon,
		KeyBoxYMin:         snap.BoxYMin,
		KeyBoxYMax:         snap.BoxYMax,
		KeyBoxXMin:         snap.BoxXMin,
		KeyBoxXMax:         snap.BoxXMax,
		KeyWatershedShp:    snap.WatershedShp,
		KeySensIntensity:   snap.SensIntensity,
		KeySensFrequency:   snap.SensFrequency,
		KeyCalcType:        snap.CalcType,
		KeyNPerYear:        snap.NPerYear,
		KeyMaxTranspo:      snap.MaxTranspo,
	}

	rec := make(Record)
	for _, key := range IncludedKeys(values) {
		rec[key] = candidates[key]
	}
	return rec, nil
}

func missingRequired(s *FormState) []string {
	var missing []string
	for _, f := range schema {
		if !f.Required {
			continue
		}
		p, _ := s.Pointer(f.Key)
		if v, ok := p.(*string); ok && strings.TrimSpace(*v) == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}

// entryName keeps the last element of a selected file or directory, accepting
// either separator.
func entryName(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	return path.Base(p)
}

// format renders the choice as "none"/"all", "min-max" or "[a,b,...]".
// An empty list falls back to neutral.
func (c TaggedChoice) format(neutral string) string {
	switch c.Type {
	case TagRange:
		return fmt.Sprintf("%d-%d", c.Min, c.Max)
	case TagList:
		list := strings.TrimSpace(c.List)
		list = strings.TrimSuffix(strings.TrimPrefix(list, "["), "]")
		if list == "" {
			return neutral
		}
		return "[" + list + "]"
	default:
		return neutral
	}
}

func (r Rotation) format() string {
	if r.Type != TagCustom {
		return "none"
	}
	return fmt.Sprintf("%d,%d,%d", r.Min, r.Max, r.Count)
}
