package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotAMapping is returned when an input document is empty or its
// top-level value is not a mapping with string keys.
var ErrNotAMapping = errors.New("assessment data must be a mapping at the top level")

// LoadAssessmentData reads assessment data from a JSON or YAML file.
// The format is chosen by extension: .yaml and .yml are YAML, everything
// else is decoded as JSON.
func LoadAssessmentData(path string) (AssessmentData, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON decodes a JSON document into AssessmentData.
// Numbers are kept as json.Number so that large integers survive a
// decode/encode cycle unchanged.
func DecodeJSON(data []byte) (AssessmentData, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotAMapping
		}
		return nil, err
	}
	return asMapping(v)
}

// DecodeYAML decodes a YAML document into AssessmentData.
// Nested mappings with non-string keys are converted to string keys so
// the result stays JSON-serializable.
func DecodeYAML(data []byte) (AssessmentData, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return asMapping(normalizeYAML(v))
}

// asMapping asserts that v is a top-level mapping.
func asMapping(v any) (AssessmentData, error) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, ErrNotAMapping
	}
	return AssessmentData(m), nil
}

// normalizeYAML walks a decoded YAML value and rewrites map[any]any
// into map[string]any.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalizeYAML(child)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range val {
			val[i] = normalizeYAML(child)
		}
		return val
	default:
		return val
	}
}
