package model

import (
	"fmt"
	"time"
)

// CheckState is the tri-state value of a tree-select checkbox.
// The zero value is Unchecked.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	PartiallyChecked
)

// Checkbox glyphs used by the default text rendering
const (
	GlyphUnchecked = "[]"
	GlyphChecked   = "[v]"
	GlyphPartial   = "[o]"
)

// IsValid returns true if the state is one of the three known values
func (s CheckState) IsValid() bool {
	switch s {
	case Unchecked, Checked, PartiallyChecked:
		return true
	}
	return false
}

// String returns the lowercase name used in config files and JSON output
func (s CheckState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case PartiallyChecked:
		return "partial"
	}
	return fmt.Sprintf("CheckState(%d)", int(s))
}

// Glyph returns the default checkbox glyph for the state.
func (s CheckState) Glyph() string {
	switch s {
	case Unchecked:
		return GlyphUnchecked
	case Checked:
		return GlyphChecked
	case PartiallyChecked:
		return GlyphPartial
	}
	return "[?]"
}

// ParseCheckState converts a name produced by String back into a CheckState.
func ParseCheckState(s string) (CheckState, error) {
	switch s {
	case "unchecked":
		return Unchecked, nil
	case "checked":
		return Checked, nil
	case "partial", "partially_checked":
		return PartiallyChecked, nil
	}
	return Unchecked, fmt.Errorf("invalid check state: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (s CheckState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid check state: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *CheckState) UnmarshalText(text []byte) error {
	parsed, err := ParseCheckState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NodeReport is the flattened view of a single node used by the JSON report.
type NodeReport struct {
	Name   string     `json:"name"`
	Path   string     `json:"path"`
	Parent string     `json:"parent,omitempty"`
	Depth  int        `json:"depth"`
	State  CheckState `json:"state"`
	Leaf   bool       `json:"leaf"`
}

// SelectionReport summarizes a forest after a click sequence.
type SelectionReport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Clicks      []string     `json:"clicks,omitempty"`
	Checked     []string     `json:"checked"`
	Lines       []string     `json:"lines"`
	Nodes       []NodeReport `json:"nodes"`
	Summary     Summary      `json:"summary"`
}

// Summary holds node counts per state.
type Summary struct {
	Total     int `json:"total"`
	Leaves    int `json:"leaves"`
	Checked   int `json:"checked"`
	Unchecked int `json:"unchecked"`
	Partial   int `json:"partial"`
}

// Add counts a node in the summary
func (s *Summary) Add(state CheckState, leaf bool) {
	s.Total++
	if leaf {
		s.Leaves++
	}
	switch state {
	case Unchecked:
		s.Unchecked++
	case Checked:
		s.Checked++
	case PartiallyChecked:
		s.Partial++
	}
}

// Validate checks if the report is internally consistent
func (r *SelectionReport) Validate() error {
	if r.Summary.Total != len(r.Nodes) {
		return fmt.Errorf("summary total (%d) does not match node count (%d)", r.Summary.Total, len(r.Nodes))
	}
	if r.Summary.Checked+r.Summary.Unchecked+r.Summary.Partial != r.Summary.Total {
		return fmt.Errorf("state counts do not add up to total (%d)", r.Summary.Total)
	}
	for _, n := range r.Nodes {
		if n.Name == "" {
			return fmt.Errorf("node name cannot be empty")
		}
		if !n.State.IsValid() {
			return fmt.Errorf("invalid state for %s: %d", n.Name, int(n.State))
		}
	}
	return nil
}
