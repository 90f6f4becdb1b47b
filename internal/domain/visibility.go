package domain

import "github.com/expr-lang/expr/vm"

// Visible evaluates the field's VisibleWhen rule against the given values.
// Fields without a rule are always visible.
func Visible(f Field, values map[string]any) bool {
	if f.program == nil {
		return true
	}
	out, err := vm.Run(f.program, values)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// IncludedKeys returns the top-level record keys that the given selections
// materialize, in schema order.
func IncludedKeys(values map[string]any) []string {
	var keys []string
	for _, f := range schema {
		if !f.Persisted || f.Parent != "" {
			continue
		}
		if Visible(f, values) {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
