// Package yamlvalues reads a preset of form values from YAML, so a run of
// genconfig can start from a saved set of answers instead of the defaults.
//
// A preset is a flat mapping of input keys to scalars:
//
//	MAINPATH: /home/user/rainyday
//	DURATION: 24
//	POINTAREA: watershed
//	WATERSHEDSHP: /shp/yahara.shp
package yamlvalues

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/rainyday-config/internal/domain"
	"gopkg.in/yaml.v3"
)

// Load reads and parses the preset at path.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a preset. Every key must name a form input and every value
// must be a scalar.
func Parse(data []byte) (map[string]string, error) {
	var raw map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("parse preset: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if f, ok := domain.Lookup(k); !ok || !f.Input() {
			return nil, fmt.Errorf("parse preset: %w: %s", domain.ErrUnknownField, k)
		}
		s, err := scalar(v)
		if err != nil {
			return nil, fmt.Errorf("parse preset: %s: %w", k, err)
		}
		values[k] = s
	}
	return values, nil
}

func scalar(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", v)
	}
}
