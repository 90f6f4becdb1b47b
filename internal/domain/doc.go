// Package domain models the RainyDay stochastic storm transposition control
// file and the form that produces it.
//
// # Control File
//
// RainyDay reads a single JSON object whose keys are fixed uppercase
// identifiers (DURATION, NSTORMS, DOMAINTYPE, ...). Values are strings,
// integers, floats, or, for AREAEXTENT only, a nested object of bounds.
// Boolean switches are carried as the strings "true" and "false" because
// several of them also accept other literals downstream (SPINPERIOD,
// NPERYEAR, SENS_INTENSITY).
//
// # Conditional Keys
//
// The key set depends on a handful of selections:
//
//	DOMAINTYPE  rectangular -> AREAEXTENT{LATITUDE_MIN, LATITUDE_MAX, LONGITUDE_MIN, LONGITUDE_MAX}
//	            irregular   -> DOMAINSHP
//	POINTAREA   point, grid -> POINTLAT, POINTLON
//	            rectangle   -> BOX_YMIN, BOX_YMAX, BOX_XMIN, BOX_XMAX
//	            watershed   -> WATERSHEDSHP
//
// Each conditional field declares its rule as an expr expression over the
// current selections (see [Field.VisibleWhen]); [IncludedKeys] evaluates them
// without any presentation layer involved.
//
// # Tagged Values
//
// EXCLUDESTORMS, EXCLUDEMONTHS and INCLUDEYEARS are written in one of three
// literal forms picked by a discriminator that is itself never written:
//
//	None / All -> "none" / "all"
//	Range      -> "min-max"        e.g. "1-200"
//	List       -> "[a,b,...]"      e.g. "[3,7,12]"
//
// ROTATIONANGLE is "none" or "min,max,count", e.g. "-20,20,5".
//
// # Paths
//
// MAINPATH and SCENARIONAME keep only the final element of whatever entry the
// user picked. File contents are never read.
package domain
