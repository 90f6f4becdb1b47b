package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const indent = "    "

// JSON renders the record as a 4-space indented object.
func (r Record) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", indent)
	if err != nil {
		return nil, fmt.Errorf("serialize record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a control file. Numbers are restored to int or float64
// according to the schema so a decoded record compares equal to the one that
// was encoded. Keys outside the schema are kept as decoded.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	rec := make(Record, len(raw))
	for k, v := range raw {
		typed, err := restore(k, v)
		if err != nil {
			return nil, err
		}
		rec[k] = typed
	}
	return rec, nil
}

func restore(key string, v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		f, _ := Lookup(key)
		if f.Kind == KindInt {
			n, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("parse record: %s: %w", key, err)
			}
			return int(n), nil
		}
		x, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse record: %s: %w", key, err)
		}
		return x, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			typed, err := restore(k, child)
			if err != nil {
				return nil, err
			}
			out[k] = typed
		}
		return out, nil
	default:
		return v, nil
	}
}
