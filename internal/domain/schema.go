package domain

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Group names a form section.
type Group string

const (
	GroupBasic       Group = "Basic"
	GroupAnalysis    Group = "Analysis"
	GroupOutput      Group = "Output/Options"
	GroupAdvanced    Group = "Advanced"
	GroupArea        Group = "Area"
	GroupSensitivity Group = "Sensitivity"
)

// Groups lists the sections in display order.
var Groups = []Group{GroupBasic, GroupAnalysis, GroupOutput, GroupAdvanced, GroupArea, GroupSensitivity}

// Kind is the value type of a field.
type Kind string

const (
	KindString Kind = "string"
	KindPath   Kind = "path"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindEnum   Kind = "enum"
	KindTagged Kind = "tagged" // assembled from other inputs, not entered directly
	KindNested Kind = "nested" // object of child fields
)

// Field describes one form input or one key of the control file.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Group    Group    `json:"group"`
	Kind     Kind     `json:"kind"`
	Default  any      `json:"default,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
	Help     string   `json:"help,omitempty"`

	// Persisted fields are written to the record. Discriminators and the
	// sub-inputs of tagged values are form-only.
	Persisted bool `json:"persisted"`

	// Parent is set for children of a nested key such as AREAEXTENT.
	Parent string `json:"parent,omitempty"`

	// VisibleWhen is an expr boolean expression over the current values,
	// e.g. `POINTAREA in ["point", "grid"]`. Empty means always visible.
	VisibleWhen string `json:"visible_when,omitempty"`

	program *vm.Program
}

// Input reports whether the field is entered directly by the user.
func (f Field) Input() bool {
	return f.Kind != KindTagged && f.Kind != KindNested
}

func bound(v float64) *float64 { return &v }

var (
	boolOptions = []string{"true", "false"}
	offOptions  = []string{"false", "true"}
)

const (
	visibleRectangular = `DOMAINTYPE == "rectangular"`
	visibleIrregular   = `DOMAINTYPE == "irregular"`
	visiblePoint       = `POINTAREA in ["point", "grid"]`
	visibleBox         = `POINTAREA == "rectangle"`
	visibleWatershed   = `POINTAREA == "watershed"`
)

func catalog() []Field {
	fields := []Field{
		{Key: KeyMainPath, Label: "Main path", Group: GroupBasic, Kind: KindPath, Required: true, Persisted: true,
			Help: "Directory where the control file is located and in which subdirectories will be created or modified."},
		{Key: KeyScenarioName, Label: "Scenario Name", Group: GroupBasic, Kind: KindPath, Required: true, Persisted: true,
			Help: "Name for the scenario. This will be the name of the subdirectory and the prefix for various output."},
		{Key: KeyRainPath, Label: "RAINPATH", Group: GroupBasic, Kind: KindString, Required: true, Persisted: true,
			Help: "The location of the rainfall input NetCDF4 files. Only needed if creating a new storm catalog."},
		{Key: KeyCatalogName, Label: "CATALOGNAME", Group: GroupBasic, Kind: KindString, Persisted: true,
			Help: "The name of the storm catalog."},
		{Key: KeyCreateCatalog, Label: "Create Catalog?", Group: GroupBasic, Kind: KindEnum, Options: boolOptions, Persisted: true,
			Help: "True: create new catalog, False: use existing."},
		{Key: KeyDuration, Label: "Duration", Group: GroupBasic, Kind: KindInt, Min: bound(1), Persisted: true,
			Help: "Duration of the rainfall accumulation period in hours."},
		{Key: KeyDurationCorrection, Label: "Duration Correction?", Group: GroupBasic, Kind: KindEnum, Options: boolOptions, Persisted: true,
			Help: "Recommended if generating IDF curves, particularly if they are of relatively short duration."},
		{Key: KeyNStorms, Label: "NSTORMS", Group: GroupBasic, Kind: KindInt, Min: bound(1), Persisted: true,
			Help: "How many storms to include in the storm catalog or analysis."},

		{Key: KeyNYears, Label: "Number of Years", Group: GroupAnalysis, Kind: KindInt, Min: bound(1), Persisted: true,
			Help: "How many years of annual maxima rainfall to be synthesized."},
		{Key: KeyNRealizations, Label: "Number of Realizations", Group: GroupAnalysis, Kind: KindInt, Min: bound(1), Persisted: true,
			Help: "How many NYEARS-long sequences to be generated."},
		{Key: KeyUncertainty, Label: "Uncertainty", Group: GroupAnalysis, Kind: KindString, Persisted: true,
			Help: "Type of uncertainty to calculate ('ensemble' or a positive integer)."},
		{Key: KeyTimeSeparation, Label: "TIMESEPARATION", Group: GroupAnalysis, Kind: KindInt, Min: bound(0), Persisted: true,
			Help: "The minimum separation time in hours between two storms."},
		{Key: KeyDomainType, Label: "DOMAINTYPE", Group: GroupAnalysis, Kind: KindEnum, Options: []string{DomainRectangular, DomainIrregular}, Persisted: true,
			Help: "Type of domain: 'rectangular' or 'irregular'."},
		{Key: KeyAreaExtent, Label: "AREAEXTENT", Group: GroupAnalysis, Kind: KindNested, Persisted: true, VisibleWhen: visibleRectangular},
		{Key: KeyLatitudeMin, Label: "LATITUDE_MIN", Group: GroupAnalysis, Kind: KindFloat, Parent: KeyAreaExtent, VisibleWhen: visibleRectangular,
			Help: "Southern boundary of transposition domain."},
		{Key: KeyLatitudeMax, Label: "LATITUDE_MAX", Group: GroupAnalysis, Kind: KindFloat, Parent: KeyAreaExtent, VisibleWhen: visibleRectangular,
			Help: "Northern boundary of transposition domain."},
		{Key: KeyLongitudeMin, Label: "LONGITUDE_MIN", Group: GroupAnalysis, Kind: KindFloat, Parent: KeyAreaExtent, VisibleWhen: visibleRectangular,
			Help: "Western boundary of transposition domain."},
		{Key: KeyLongitudeMax, Label: "LONGITUDE_MAX", Group: GroupAnalysis, Kind: KindFloat, Parent: KeyAreaExtent, VisibleWhen: visibleRectangular,
			Help: "Eastern boundary of transposition domain."},
		{Key: KeyDomainShp, Label: "DOMAINSHP", Group: GroupAnalysis, Kind: KindString, Persisted: true, VisibleWhen: visibleIrregular,
			Help: "File path for RainyDay-compliant shapefile defining the boundary."},

		{Key: KeyDiagnosticPlots, Label: "DIAGNOSTICPLOTS", Group: GroupOutput, Kind: KindEnum, Options: boolOptions, Persisted: true,
			Help: "Set to 'true' to produce diagnostic plots."},
		{Key: KeyFreqAnalysis, Label: "FREQANALYSIS", Group: GroupOutput, Kind: KindEnum, Options: boolOptions, Persisted: true,
			Help: "Create a '.FreqAnalysis' file based on the rainfall annual maxima generated."},
		{Key: KeyScenarios, Label: "SCENARIOS", Group: GroupOutput, Kind: KindEnum, Options: offOptions, Persisted: true,
			Help: "Create watershed-specific spacetime rainfall scenarios."},
		{Key: KeySpinPeriod, Label: "SPINPERIOD", Group: GroupOutput, Kind: KindString, Persisted: true,
			Help: "'false' or integer number of days to prepend rainfall period."},
		{Key: KeyReturnThreshold, Label: "RETURNTHRESHOLD", Group: GroupOutput, Kind: KindInt, Min: bound(1), Persisted: true,
			Help: "Minimum return period for scenarios."},
	}

	fields = append(fields, taggedFields(KeyExcludeStorms, "Storms", GroupOutput, []string{TagNone, TagRange, TagList}, bound(1), nil,
		"How to specify storms to exclude.")...)
	fields = append(fields, taggedFields(KeyExcludeMonths, "Months", GroupAdvanced, []string{TagNone, TagRange, TagList}, bound(1), bound(12),
		"How to specify months to exclude.")...)
	fields = append(fields, taggedFields(KeyIncludeYears, "Years", GroupAdvanced, []string{TagAll, TagRange, TagList}, bound(1900), bound(2100),
		"How to specify years to include.")...)

	fields = append(fields,
		Field{Key: KeyResampling, Label: "RESAMPLING", Group: GroupAdvanced, Kind: KindEnum, Options: []string{"poisson", "empirical", "negbinom"}, Persisted: true,
			Help: "Method for generating the number of storms."},
		Field{Key: KeyTransposition, Label: "TRANSPOSITION", Group: GroupAdvanced, Kind: KindEnum, Options: []string{"uniform", "nonuniform"}, Persisted: true,
			Help: "How the random spatial transposition should be done."},
		Field{Key: KeyRotationType, Label: "Rotation Angle Type", Group: GroupAdvanced, Kind: KindEnum, Options: []string{TagNone, TagCustom},
			Help: "Whether to enable storm rotation."},
		Field{Key: KeyRotationMin, Label: "Min Angle", Group: GroupAdvanced, Kind: KindInt, Max: bound(0), VisibleWhen: `ROTATION_TYPE == "Custom"`},
		Field{Key: KeyRotationMax, Label: "Max Angle", Group: GroupAdvanced, Kind: KindInt, Min: bound(0), VisibleWhen: `ROTATION_TYPE == "Custom"`},
		Field{Key: KeyRotationCount, Label: "N Angles", Group: GroupAdvanced, Kind: KindInt, Min: bound(1), VisibleWhen: `ROTATION_TYPE == "Custom"`},
		Field{Key: KeyRotationAngle, Label: "ROTATIONANGLE", Group: GroupAdvanced, Kind: KindTagged, Persisted: true},
		Field{Key: KeyReturnLevels, Label: "RETURNLEVELS (comma-separated)", Group: GroupAdvanced, Kind: KindString, Persisted: true},

		Field{Key: KeyPointArea, Label: "POINTAREA", Group: GroupArea, Kind: KindEnum, Options: []string{AreaPoint, AreaGrid, AreaRectangle, AreaWatershed}, Persisted: true,
			Help: "Defines the area that will be used in rainfall calculations."},
		Field{Key: KeyPointLat, Label: "POINTLAT", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visiblePoint,
			Help: "The latitude of the analysis point."},
		Field{Key: KeyPointLon, Label: "POINTLON", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visiblePoint,
			Help: "The longitude of the analysis point."},
		Field{Key: KeyBoxYMin, Label: "BOX_YMIN", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visibleBox,
			Help: "Southernmost boundary of the analysis box."},
		Field{Key: KeyBoxYMax, Label: "BOX_YMAX", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visibleBox,
			Help: "Northernmost boundary of the analysis box."},
		Field{Key: KeyBoxXMin, Label: "BOX_XMIN", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visibleBox,
			Help: "Westernmost boundary of the analysis box."},
		Field{Key: KeyBoxXMax, Label: "BOX_XMAX", Group: GroupArea, Kind: KindFloat, Persisted: true, VisibleWhen: visibleBox,
			Help: "Easternmost boundary of the analysis box."},
		Field{Key: KeyWatershedShp, Label: "WATERSHEDSHP", Group: GroupArea, Kind: KindString, Persisted: true, VisibleWhen: visibleWatershed,
			Help: "File path for RainyDay-compliant shapefile defining the watershed boundary."},

		Field{Key: KeySensIntensity, Label: "SENS_INTENSITY", Group: GroupSensitivity, Kind: KindString, Persisted: true,
			Help: "'false' or decimal percentage change to rainfall intensity."},
		Field{Key: KeySensFrequency, Label: "SENS_FREQUENCY", Group: GroupSensitivity, Kind: KindString, Persisted: true,
			Help: "'false' or decimal percentage change to storm occurrence rate."},
		Field{Key: KeyCalcType, Label: "CALCTYPE", Group: GroupSensitivity, Kind: KindEnum, Options: []string{"ams", "pds"}, Persisted: true,
			Help: "Type of analysis: 'ams'/'annmax' or 'pds'/'partialduration'."},
		Field{Key: KeyNPerYear, Label: "NPERYEAR", Group: GroupSensitivity, Kind: KindString, Persisted: true,
			Help: "'false' or positive integer for multiple rainstorms per year."},
		Field{Key: KeyMaxTranspo, Label: "Max Transposition", Group: GroupSensitivity, Kind: KindEnum, Options: offOptions, Persisted: true,
			Help: "If 'true', find the specific transposition that maximizes precipitation."},
	)
	return fields
}

// taggedFields expands one tagged key into its discriminator, range bounds,
// list text and the persisted result.
func taggedFields(key, noun string, group Group, options []string, lo, hi *float64, help string) []Field {
	typeKey := key + suffixType
	isRange := fmt.Sprintf(`%s == %q`, typeKey, TagRange)
	isList := fmt.Sprintf(`%s == %q`, typeKey, TagList)
	verb := "Exclude"
	if options[0] == TagAll {
		verb = "Include"
	}
	return []Field{
		{Key: typeKey, Label: fmt.Sprintf("%s %s Type", verb, noun), Group: group, Kind: KindEnum, Options: options, Help: help},
		{Key: key + suffixMin, Label: fmt.Sprintf("%s %s Min", verb, noun), Group: group, Kind: KindInt, Min: lo, Max: hi, VisibleWhen: isRange},
		{Key: key + suffixMax, Label: fmt.Sprintf("%s %s Max", verb, noun), Group: group, Kind: KindInt, Min: lo, Max: hi, VisibleWhen: isRange},
		{Key: key + suffixList, Label: key + " (comma-separated)", Group: group, Kind: KindString, VisibleWhen: isList},
		{Key: key, Label: key, Group: group, Kind: KindTagged, Persisted: true},
	}
}

var (
	schema  = mustCompile(catalog())
	byKey   = indexFields(schema)
	inGroup = groupFields(schema)
)

func mustCompile(fields []Field) []Field {
	defaults := NewFormState().Values()
	for i := range fields {
		f := &fields[i]
		if v, ok := defaults[f.Key]; ok {
			f.Default = v
		}
		if f.VisibleWhen == "" {
			continue
		}
		program, err := expr.Compile(f.VisibleWhen, expr.Env(map[string]interface{}{}), expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			panic(fmt.Sprintf("field %s: compile visibility: %v", f.Key, err))
		}
		f.program = program
	}
	return fields
}

func indexFields(fields []Field) map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Key] = f
	}
	return m
}

func groupFields(fields []Field) map[Group][]Field {
	m := make(map[Group][]Field, len(Groups))
	for _, f := range fields {
		m[f.Group] = append(m[f.Group], f)
	}
	return m
}

// Schema returns every field descriptor in display order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// GroupFields returns the descriptors of one section in display order.
func GroupFields(g Group) []Field {
	return append([]Field(nil), inGroup[g]...)
}

// Lookup returns the descriptor for key.
func Lookup(key string) (Field, bool) {
	f, ok := byKey[key]
	return f, ok
}
