package conflict

import (
	"reflect"
	"testing"
)

func TestSeverityBlocking(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityLow, false},
		{SeverityMedium, false},
		{SeverityHigh, true},
		{SeverityCritical, true},
	}

	for _, tt := range tests {
		if got := tt.severity.Blocking(); got != tt.want {
			t.Errorf("Severity(%s).Blocking() = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestCanForceInstall(t *testing.T) {
	tests := []struct {
		name      string
		conflicts []Conflict
		want      bool
	}{
		{"no conflicts", nil, true},
		{"only low and medium", []Conflict{
			{Severity: SeverityLow},
			{Severity: SeverityMedium},
		}, true},
		{"one high blocks", []Conflict{
			{Severity: SeverityLow},
			{Severity: SeverityHigh},
		}, false},
		{"critical blocks", []Conflict{
			{Severity: SeverityCritical},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanForceInstall(tt.conflicts); got != tt.want {
				t.Errorf("CanForceInstall() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWarnings_ExcludesBlockingConflicts(t *testing.T) {
	conflicts := []Conflict{
		{Severity: SeverityLow, Message: "tool overlap"},
		{Severity: SeverityMedium, Message: "permission overlap"},
		{Severity: SeverityHigh, Message: "trigger collision"},
		{Severity: SeverityCritical, Message: "lookup failed"},
	}

	got := Warnings(conflicts)
	want := []string{"tool overlap", "permission overlap"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Warnings() = %v, want %v", got, want)
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{"overlap preserves first order", []string{"web_search", "code_exec", "file_read"}, []string{"file_read", "web_search"}, []string{"web_search", "file_read"}},
		{"no overlap", []string{"a"}, []string{"b"}, nil},
		{"empty inputs", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersect(tt.a, tt.b); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
