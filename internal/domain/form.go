package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record keys.
const (
	KeyMainPath           = "MAINPATH"
	KeyScenarioName       = "SCENARIONAME"
	KeyRainPath           = "RAINPATH"
	KeyCatalogName        = "CATALOGNAME"
	KeyCreateCatalog      = "CREATECATALOG"
	KeyDuration           = "DURATION"
	KeyDurationCorrection = "DURATIONCORRECTION"
	KeyNStorms            = "NSTORMS"
	KeyNYears             = "NYEARS"
	KeyNRealizations      = "NREALIZATIONS"
	KeyUncertainty        = "UNCERTAINTY"
	KeyTimeSeparation     = "TIMESEPARATION"
	KeyDomainType         = "DOMAINTYPE"
	KeyAreaExtent         = "AREAEXTENT"
	KeyLatitudeMin        = "LATITUDE_MIN"
	KeyLatitudeMax        = "LATITUDE_MAX"
	KeyLongitudeMin       = "LONGITUDE_MIN"
	KeyLongitudeMax       = "LONGITUDE_MAX"
	KeyDomainShp          = "DOMAINSHP"
	KeyDiagnosticPlots    = "DIAGNOSTICPLOTS"
	KeyFreqAnalysis       = "FREQANALYSIS"
	KeyScenarios          = "SCENARIOS"
	KeySpinPeriod         = "SPINPERIOD"
	KeyReturnThreshold    = "RETURNTHRESHOLD"
	KeyExcludeStorms      = "EXCLUDESTORMS"
	KeyExcludeMonths      = "EXCLUDEMONTHS"
	KeyIncludeYears       = "INCLUDEYEARS"
	KeyResampling         = "RESAMPLING"
	KeyTransposition      = "TRANSPOSITION"
	KeyRotationAngle      = "ROTATIONANGLE"
	KeyReturnLevels       = "RETURNLEVELS"
	KeyPointArea          = "POINTAREA"
	KeyPointLat           = "POINTLAT"
	KeyPointLon           = "POINTLON"
	KeyBoxYMin            = "BOX_YMIN"
	KeyBoxYMax            = "BOX_YMAX"
	KeyBoxXMin            = "BOX_XMIN"
	KeyBoxXMax            = "BOX_XMAX"
	KeyWatershedShp       = "WATERSHEDSHP"
	KeySensIntensity      = "SENS_INTENSITY"
	KeySensFrequency      = "SENS_FREQUENCY"
	KeyCalcType           = "CALCTYPE"
	KeyNPerYear           = "NPERYEAR"
	KeyMaxTranspo         = "MAXTRANSPO"
)

// Form-only keys. They drive the tagged values above and never reach the record.
const (
	suffixType = "_TYPE"
	suffixMin  = "_MIN"
	suffixMax  = "_MAX"
	suffixList = "_LIST"

	KeyRotationType  = "ROTATION_TYPE"
	KeyRotationMin   = "ROTATION_MIN"
	KeyRotationMax   = "ROTATION_MAX"
	KeyRotationCount = "ROTATION_COUNT"
)

// Enumerated selections.
const (
	DomainRectangular = "rectangular"
	DomainIrregular   = "irregular"

	AreaPoint     = "point"
	AreaGrid      = "grid"
	AreaRectangle = "rectangle"
	AreaWatershed = "watershed"

	TagNone   = "None"
	TagAll    = "All"
	TagRange  = "Range"
	TagList   = "List"
	TagCustom = "Custom"
)

// ErrUnknownField is returned when a value is supplied for a key the form
// does not have.
var ErrUnknownField = errors.New("unknown field")

// TaggedChoice holds the inputs behind EXCLUDESTORMS, EXCLUDEMONTHS and
// INCLUDEYEARS. Type is one of None/All, Range or List.
type TaggedChoice struct {
	Type string
	Min  int
	Max  int
	List string
}

// Rotation holds the inputs behind ROTATIONANGLE.
type Rotation struct {
	Type  string
	Min   int
	Max   int
	Count int
}

// FormState is the current value of every input. It lives for one
// submission and is discarded afterwards.
type FormState struct {
	MainPath           string
	ScenarioName       string
	RainPath           string
	CatalogName        string
	CreateCatalog      string
	Duration           int
	DurationCorrection string
	NStorms            int

	NYears         int
	NRealizations  int
	Uncertainty    string
	TimeSeparation int
	DomainType     string
	LatitudeMin    float64
	LatitudeMax    float64
	LongitudeMin   float64
	LongitudeMax   float64
	DomainShp      string

	DiagnosticPlots string
	FreqAnalysis    string
	Scenarios       string
	SpinPeriod      string
	ReturnThreshold int
	ExcludeStorms   TaggedChoice

	ExcludeMonths TaggedChoice
	IncludeYears  TaggedChoice
	Resampling    string
	Transposition string
	Rotation      Rotation
	ReturnLevels  string

	PointArea    string
	PointLat     float64
	PointLon     float64
	BoxYMin      float64
	BoxYMax      float64
	BoxXMin      float64
	BoxXMax      float64
	WatershedShp string

	SensIntensity string
	SensFrequency string
	CalcType      string
	NPerYear      string
	MaxTranspo    string
}

// NewFormState returns a form holding every default value.
func NewFormState() *FormState {
	return &FormState{
		CreateCatalog:      "true",
		Duration:           24,
		DurationCorrection: "true",
		NStorms:            20,

		NYears:        100,
		NRealizations: 1,
		Uncertainty:   "ensemble",
		DomainType:    DomainRectangular,
		LatitudeMin:   42.5,
		LatitudeMax:   44.0,
		LongitudeMin:  -90.5,
		LongitudeMax:  -88.0,

		DiagnosticPlots: "true",
		FreqAnalysis:    "true",
		Scenarios:       "false",
		SpinPeriod:      "false",
		ReturnThreshold: 1,
		ExcludeStorms:   TaggedChoice{Type: TagNone, Min: 1, Max: 200},

		ExcludeMonths: TaggedChoice{Type: TagNone, Min: 1, Max: 3},
		IncludeYears:  TaggedChoice{Type: TagAll, Min: 2002, Max: 2021},
		Resampling:    "poisson",
		Transposition: "uniform",
		Rotation:      Rotation{Type: TagNone, Min: -20, Max: 20, Count: 5},
		ReturnLevels:  "2,5,10,20,50,100,200,500,1000",

		PointArea: AreaPoint,

		SensIntensity: "false",
		SensFrequency: "false",
		CalcType:      "ams",
		NPerYear:      "false",
		MaxTranspo:    "false",
	}
}

// bindings maps each input key to the struct field holding its value.
// Values are *string, *int or *float64.
func (s *FormState) bindings() map[string]any {
	return map[string]any{
		KeyMainPath:           &s.MainPath,
		KeyScenarioName:       &s.ScenarioName,
		KeyRainPath:           &s.RainPath,
		KeyCatalogName:        &s.CatalogName,
		KeyCreateCatalog:      &s.CreateCatalog,
		KeyDuration:           &s.Duration,
		KeyDurationCorrection: &s.DurationCorrection,
		KeyNStorms:            &s.NStorms,

		KeyNYears:         &s.NYears,
		KeyNRealizations:  &s.NRealizations,
		KeyUncertainty:    &s.Uncertainty,
		KeyTimeSeparation: &s.TimeSeparation,
		KeyDomainType:     &s.DomainType,
		KeyLatitudeMin:    &s.LatitudeMin,
		KeyLatitudeMax:    &s.LatitudeMax,
		KeyLongitudeMin:   &s.LongitudeMin,
		KeyLongitudeMax:   &s.LongitudeMax,
		KeyDomainShp:      &s.DomainShp,

		KeyDiagnosticPlots:              &s.DiagnosticPlots,
		KeyFreqAnalysis:                 &s.FreqAnalysis,
		KeyScenarios:                    &s.Scenarios,
		KeySpinPeriod:                   &s.SpinPeriod,
		KeyReturnThreshold:              &s.ReturnThreshold,
		KeyExcludeStorms + suffixType:   &s.ExcludeStorms.Type,
		KeyExcludeStorms + suffixMin:    &s.ExcludeStorms.Min,
		KeyExcludeStorms + suffixMax:    &s.ExcludeStorms.Max,
		KeyExcludeStorms + suffixList:   &s.ExcludeStorms.List,
		KeyExcludeMonths + suffixType:   &s.ExcludeMonths.Type,
		KeyExcludeMonths + suffixMin:    &s.ExcludeMonths.Min,
		KeyExcludeMonths + suffixMax:    &s.ExcludeMonths.Max,
		KeyExcludeMonths + suffixList:   &s.ExcludeMonths.List,
		KeyIncludeYears + suffixType:    &s.IncludeYears.Type,
		KeyIncludeYears + suffixMin:     &s.IncludeYears.Min,
		KeyIncludeYears + suffixMax:     &s.IncludeYears.Max,
		KeyIncludeYears + suffixList:    &s.IncludeYears.List,
		KeyResampling:                   &s.Resampling,
		KeyTransposition:                &s.Transposition,
		KeyRotationType:                 &s.Rotation.Type,
		KeyRotationMin:                  &s.Rotation.Min,
		KeyRotationMax:                  &s.Rotation.Max,
		KeyRotationCount:                &s.Rotation.Count,
		KeyReturnLevels:                 &s.ReturnLevels,

		KeyPointArea:    &s.PointArea,
		KeyPointLat:     &s.PointLat,
		KeyPointLon:     &s.PointLon,
		KeyBoxYMin:      &s.BoxYMin,
		KeyBoxYMax:      &s.BoxYMax,
		KeyBoxXMin:      &s.BoxXMin,
		KeyBoxXMax:      &s.BoxXMax,
		KeyWatershedShp: &s.WatershedShp,

		KeySensIntensity: &s.SensIntensity,
		KeySensFrequency: &s.SensFrequency,
		KeyCalcType:      &s.CalcType,
		KeyNPerYear:      &s.NPerYear,
		KeyMaxTranspo:    &s.MaxTranspo,
	}
}

// Pointer returns the *string, *int or *float64 backing an input key, so
// presentation layers such as flag sets can bind directly to the form.
func (s *FormState) Pointer(key string) (any, bool) {
	p, ok := s.bindings()[key]
	return p, ok
}

// Values returns a snapshot of every input keyed by field key. It is the
// environment visibility rules are evaluated against.
func (s *FormState) Values() map[string]any {
	b := s.bindings()
	out := make(map[string]any, len(b))
	for k, p := range b {
		switch v := p.(type) {
		case *string:
			out[k] = *v
		case *int:
			out[k] = *v
		case *float64:
			out[k] = *v
		}
	}
	return out
}

// Set parses raw into the input named key. Empty text leaves numeric
// inputs untouched, matching a cleared number widget.
func (s *FormState) Set(key, raw string) error {
	p, ok := s.bindings()[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	switch v := p.(type) {
	case *string:
		if f, ok := byKey[key]; ok && f.Kind == KindEnum && !contains(f.Options, raw) {
			return fmt.Errorf("field %s: %q not in {%s}", key, raw, strings.Join(f.Options, ", "))
		}
		*v = raw
	case *int:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil || f != math.Trunc(f) {
				return fmt.Errorf("field %s: invalid integer %q", key, raw)
			}
			if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
				return fmt.Errorf("field %s: integer %q out of range", key, raw)
			}
			n = int(f)
		}
		*v = n
	case *float64:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("field %s: invalid number %q", key, raw)
		}
		*v = f
	}
	return nil
}

// Apply sets every value in values, in key order so errors are stable.
func (s *FormState) Apply(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// clamp pulls every bounded numeric input into its declared range.
func (s *FormState) clamp() {
	b := s.bindings()
	for _, f := range schema {
		if f.Min == nil && f.Max == nil {
			continue
		}
		switch v := b[f.Key].(type) {
		case *int:
			*v = clampInt(*v, f.Min, f.Max)
		case *float64:
			*v = clampFloat(*v, f.Min, f.Max)
		}
	}
}

func clampFloat(x float64, lo, hi *float64) float64 {
	if lo != nil && x < *lo {
		x = *lo
	}
	if hi != nil && x > *hi {
		x = *hi
	}
	return x
}

// clampInt compares in integer arithmetic; schema bounds are whole numbers.
func clampInt(x int, lo, hi *float64) int {
	if lo != nil && x < int(math.Ceil(*lo)) {
		x = int(math.Ceil(*lo))
	}
	if hi != nil && x > int(math.Floor(*hi)) {
		x = int(math.Floor(*hi))
	}
	return x
}
