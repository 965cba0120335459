package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// AssessmentData is the result set of an assessment run.
// It is created elsewhere and passed to writers by reference; nothing in
// this module mutates it.
type AssessmentData map[string]any

// Kind names the JSON shape of a top-level value.
type Kind string

const (
	// KindObject is a nested mapping.
	KindObject Kind = "object"
	// KindList is a sequence.
	KindList Kind = "list"
	// KindString is a string scalar.
	KindString Kind = "string"
	// KindNumber is any integer, float, or json.Number.
	KindNumber Kind = "number"
	// KindBool is a boolean.
	KindBool Kind = "bool"
	// KindNull is an explicit null.
	KindNull Kind = "null"
	// KindOther covers anything else (timestamps from YAML, custom types).
	KindOther Kind = "other"
)

// Entry is a one-line description of a top-level key.
type Entry struct {
	// Key is the top-level key.
	Key string `json:"key"`

	// Kind is the shape of the value.
	Kind Kind `json:"kind"`

	// Detail is the scalar text, or an element count for containers.
	Detail string `json:"detail"`
}

// Keys returns the top-level keys in sorted order.
func (d AssessmentData) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summarize describes every top-level entry without interpreting any key.
func (d AssessmentData) Summarize() []Entry {
	entries := make([]Entry, 0, len(d))
	for _, k := range d.Keys() {
		kind, detail := describe(d[k])
		entries = append(entries, Entry{Key: k, Kind: kind, Detail: detail})
	}
	return entries
}

// describe classifies a single value.
func describe(v any) (Kind, string) {
	switch val := v.(type) {
	case nil:
		return KindNull, "null"
	case map[string]any:
		return KindObject, countLabel(len(val), "key", "keys")
	case AssessmentData:
		return KindObject, countLabel(len(val), "key", "keys")
	case map[any]any:
		return KindObject, countLabel(len(val), "key", "keys")
	case []any:
		return KindList, countLabel(len(val), "item", "items")
	case string:
		return KindString, val
	case bool:
		return KindBool, strconv.FormatBool(val)
	case json.Number:
		return KindNumber, val.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber, fmt.Sprintf("%d", val)
	case float32:
		return KindNumber, strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return KindNumber, strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return KindOther, val.Format(time.RFC3339)
	default:
		return KindOther, fmt.Sprintf("%T", val)
	}
}

// countLabel returns "1 key" / "3 keys" style text.
func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
