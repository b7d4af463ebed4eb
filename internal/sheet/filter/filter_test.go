package filter

import (
	"reflect"
	"testing"
)

func TestParseAttributeFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{name: "empty", filter: "  "},
		{
			name:       "value comparison",
			filter:     "value >= 3",
			wantClause: "value >= ?",
			wantParams: []any{int64(3)},
		},
		{
			name:       "name equality",
			filter:     `name = "força"`,
			wantClause: "name = ?",
			wantParams: []any{"força"},
		},
		{
			name:       "conjunction",
			filter:     `value > 1 AND name != "fome"`,
			wantClause: "(value > ? AND name != ?)",
			wantParams: []any{int64(1), "fome"},
		},
		{
			name:       "disjunction",
			filter:     `value = 0 OR value = 5`,
			wantClause: "(value = ? OR value = ?)",
			wantParams: []any{int64(0), int64(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttributeFilter(tt.filter)
			if err != nil {
				t.Fatalf("ParseAttributeFilter(%q) returned error: %v", tt.filter, err)
			}
			if got.Clause != tt.wantClause {
				t.Fatalf("clause = %q, want %q", got.Clause, tt.wantClause)
			}
			if len(tt.wantParams) > 0 && !reflect.DeepEqual(got.Params, tt.wantParams) {
				t.Fatalf("params = %#v, want %#v", got.Params, tt.wantParams)
			}
		})
	}
}

func TestParseAttributeFilterRejectsUnknownField(t *testing.T) {
	if _, err := ParseAttributeFilter(`owner = "x"`); err == nil {
		t.Fatal("expected error for undeclared field")
	}
}

func TestParseAttributeFilterRejectsBadSyntax(t *testing.T) {
	if _, err := ParseAttributeFilter(`value >=`); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestEmpty(t *testing.T) {
	if !(SQLCondition{}).Empty() {
		t.Fatal("zero condition should be empty")
	}
}
