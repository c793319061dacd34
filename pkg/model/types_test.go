package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCheckState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state CheckState
		want  bool
	}{
		{"Unchecked", Unchecked, true},
		{"Checked", Checked, true},
		{"Partial", PartiallyChecked, true},
		{"Negative", CheckState(-1), false},
		{"OutOfRange", CheckState(3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("CheckState.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckState_ZeroValueIsUnchecked(t *testing.T) {
	var s CheckState
	if s != Unchecked {
		t.Errorf("zero value = %v, want Unchecked", s)
	}
}

func TestCheckState_Glyph(t *testing.T) {
	tests := []struct {
		state CheckState
		want  string
	}{
		{Unchecked, "[]"},
		{Checked, "[v]"},
		{PartiallyChecked, "[o]"},
	}
	for _, tt := range tests {
		if got := tt.state.Glyph(); got != tt.want {
			t.Errorf("%v.Glyph() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestParseCheckState(t *testing.T) {
	for _, s := range []CheckState{Unchecked, Checked, PartiallyChecked} {
		got, err := ParseCheckState(s.String())
		if err != nil {
			t.Fatalf("ParseCheckState(%q) error: %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseCheckState(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if _, err := ParseCheckState("maybe"); err == nil {
		t.Error("expected error for unknown state name")
	}
}

func TestCheckState_JSON(t *testing.T) {
	report := NodeReport{Name: "A", Path: "A", State: PartiallyChecked}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"state":"partial"`) {
		t.Errorf("expected textual state in JSON, got %s", data)
	}

	var decoded NodeReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.State != PartiallyChecked {
		t.Errorf("decoded state = %v, want PartiallyChecked", decoded.State)
	}

	if _, err := json.Marshal(NodeReport{Name: "bad", State: CheckState(7)}); err == nil {
		t.Error("expected marshal error for invalid state")
	}
}

func TestSelectionReport_Validate(t *testing.T) {
	var sum Summary
	sum.Add(PartiallyChecked, false)
	sum.Add(Checked, true)
	sum.Add(Unchecked, true)

	r := SelectionReport{
		GeneratedAt: time.Now(),
		Nodes: []NodeReport{
			{Name: "A", State: PartiallyChecked},
			{Name: "B", State: Checked, Leaf: true},
			{Name: "C", State: Unchecked, Leaf: true},
		},
		Summary: sum,
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid report, got %v", err)
	}
	if sum.Leaves != 2 {
		t.Errorf("expected 2 leaves, got %d", sum.Leaves)
	}

	r.Nodes = r.Nodes[:2]
	if err := r.Validate(); err == nil {
		t.Error("expected error when node count and summary disagree")
	}
}
