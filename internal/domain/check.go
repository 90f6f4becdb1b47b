package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	rangeRe    = regexp.MustCompile(`^-?\d+--?\d+$`)
	listRe     = regexp.MustCompile(`^\[.+\]$`)
	rotationRe = regexp.MustCompile(`^-?\d+,-?\d+,\d+$`)
)

// CheckRecord reports every way rec departs from the control file layout:
// missing or unexpected keys for its selections, malformed tagged values and
// wrongly typed numbers. An empty result means the record is well formed.
func CheckRecord(rec Record) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	values := selectionsOf(rec)
	want := make(map[string]bool)
	for _, k := range IncludedKeys(values) {
		want[k] = true
	}

	for _, f := range schema {
		if !f.Persisted || f.Parent != "" {
			continue
		}
		_, present := rec[f.Key]
		switch {
		case want[f.Key] && !present:
			add("%s: missing", f.Key)
		case !want[f.Key] && present:
			add("%s: not expected for %s=%v, %s=%v", f.Key, KeyDomainType, values[KeyDomainType], KeyPointArea, values[KeyPointArea])
		}
	}
	for k := range rec {
		if f, ok := Lookup(k); !ok || !f.Persisted || f.Parent != "" {
			add("%s: unknown key", k)
		}
	}

	for k, v := range rec {
		f, ok := Lookup(k)
		if !ok {
			continue
		}
		checkValue(f, v, add)
	}
	return problems
}

func checkValue(f Field, v any, add func(string, ...any)) {
	switch f.Kind {
	case KindInt:
		if _, ok := v.(int); !ok {
			add("%s: expected integer, got %T", f.Key, v)
		}
	case KindFloat:
		if _, ok := v.(float64); !ok {
			add("%s: expected number, got %T", f.Key, v)
		}
	case KindEnum:
		s, _ := v.(string)
		if !contains(f.Options, s) {
			add("%s: %q not in {%s}", f.Key, s, strings.Join(f.Options, ", "))
		}
	case KindTagged:
		s, _ := v.(string)
		if !taggedOK(f.Key, s) {
			add("%s: malformed value %q", f.Key, s)
		}
	case KindNested:
		m, ok := v.(map[string]any)
		if !ok {
			add("%s: expected object, got %T", f.Key, v)
			return
		}
		for _, child := range inGroup[f.Group] {
			if child.Parent != f.Key {
				continue
			}
			if _, ok := m[child.Key].(float64); !ok {
				add("%s.%s: missing or not a number", f.Key, child.Key)
			}
		}
	default:
		s, ok := v.(string)
		if !ok {
			add("%s: expected string, got %T", f.Key, v)
			return
		}
		if (f.Key == KeySensIntensity || f.Key == KeySensFrequency) && !sensitivityOK(s) {
			add("%s: %q is neither \"false\" nor a decimal", f.Key, s)
		}
	}
}

// sensitivityOK accepts "false" or a decimal adjustment such as "0.1".
func sensitivityOK(s string) bool {
	if s == "false" {
		return true
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

func taggedOK(key, s string) bool {
	switch key {
	case KeyRotationAngle:
		return s == "none" || rotationRe.MatchString(s)
	case KeyIncludeYears:
		return s == "all" || rangeRe.MatchString(s) || listRe.MatchString(s)
	default:
		return s == "none" || rangeRe.MatchString(s) || listRe.MatchString(s)
	}
}

// selectionsOf recovers the values visibility rules need from a record.
func selectionsOf(rec Record) map[string]any {
	values := make(map[string]any)
	for _, k := range []string{KeyDomainType, KeyPointArea} {
		if v, ok := rec[k]; ok {
			values[k] = v
		}
	}
	return values
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
