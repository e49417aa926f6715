package models

import "testing"

func TestCodesByType_KnownTypes(t *testing.T) {
	tests := []struct {
		codeType string
		want     int
	}{
		{"STATUS", 5},
		{"PRIORITY", 3},
		{"DEPENDENCY_KIND", 4},
	}

	for _, tt := range tests {
		codes := CodesByType(tt.codeType)
		if len(codes) != tt.want {
			t.Errorf("CodesByType(%q): expected %d entries, got %d", tt.codeType, tt.want, len(codes))
		}
		for _, c := range codes {
			if c.Type != tt.codeType {
				t.Errorf("CodesByType(%q): entry %q carries type %q", tt.codeType, c.Value, c.Type)
			}
			if c.Value == "" || c.Label == "" {
				t.Errorf("CodesByType(%q): entry with empty value or label: %+v", tt.codeType, c)
			}
		}
	}
}

func TestCodesByType_UnknownType(t *testing.T) {
	if codes := CodesByType("FLAVOR"); codes != nil {
		t.Errorf("expected nil for unknown code type, got %v", codes)
	}
}

func TestDependencyKindRegistryMatchesValidation(t *testing.T) {
	for _, c := range CodesByType("DEPENDENCY_KIND") {
		if !DependencyKind(c.Value).IsValid() {
			t.Errorf("registry kind %q does not pass validation", c.Value)
		}
	}
}

func TestDependencyKindRejectsUnknown(t *testing.T) {
	for _, kind := range []DependencyKind{"", "XX", "fs", "FINISH_TO_START"} {
		if kind.IsValid() {
			t.Errorf("expected kind %q to be rejected", kind)
		}
	}
}
