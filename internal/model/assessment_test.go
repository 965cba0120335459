package model

import (
	"encoding/json"
	"testing"
	"time"
)

// TestAssessmentDataKeys tests that keys are returned in sorted order.
func TestAssessmentDataKeys(t *testing.T) {
	t.Parallel()

	t.Run("sorted keys", func(t *testing.T) {
		t.Parallel()

		data := AssessmentData{"vcenter": "vc01", "host": "esxi01", "findings": []any{}}
		got := data.Keys()
		want := []string{"findings", "host", "vcenter"}

		if len(got) != len(want) {
			t.Fatalf("expected %d keys, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("key[%d]: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("nil data has no keys", func(t *testing.T) {
		t.Parallel()

		var data AssessmentData
		if len(data.Keys()) != 0 {
			t.Error("expected no keys for nil data")
		}
	})
}

// TestAssessmentDataSummarize tests the per-key description of each value kind.
func TestAssessmentDataSummarize(t *testing.T) {
	t.Parallel()

	data := AssessmentData{
		"host":      "esxi01",
		"findings":  []any{map[string]any{"id": "CVE-1"}, map[string]any{"id": "CVE-2"}},
		"settings":  map[string]any{"ssh": false},
		"score":     json.Number("87"),
		"ratio":     0.5,
		"count":     3,
		"lockdown":  true,
		"notes":     nil,
		"scannedAt": time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	entries := data.Summarize()
	if len(entries) != len(data) {
		t.Fatalf("expected %d entries, got %d", len(data), len(entries))
	}

	byKey := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	tests := []struct {
		key        string
		wantKind   Kind
		wantDetail string
	}{
		{"host", KindString, "esxi01"},
		{"findings", KindList, "2 items"},
		{"settings", KindObject, "1 key"},
		{"score", KindNumber, "87"},
		{"ratio", KindNumber, "0.5"},
		{"count", KindNumber, "3"},
		{"lockdown", KindBool, "true"},
		{"notes", KindNull, "null"},
		{"scannedAt", KindOther, "2025-01-02T03:04:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			e, ok := byKey[tt.key]
			if !ok {
				t.Fatalf("missing entry for %q", tt.key)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("kind: expected %q, got %q", tt.wantKind, e.Kind)
			}
			if e.Detail != tt.wantDetail {
				t.Errorf("detail: expected %q, got %q", tt.wantDetail, e.Detail)
			}
		})
	}

	t.Run("entries are sorted by key", func(t *testing.T) {
		t.Parallel()
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Key > entries[i].Key {
				t.Errorf("entries not sorted: %q before %q", entries[i-1].Key, entries[i].Key)
			}
		}
	})
}
