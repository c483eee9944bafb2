package menus

import "testing"

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "PIZZERIA", "pizzeria"},
		{"spaces to dashes", "la bella pizzeria", "la-bella-pizzeria"},
		{"trim whitespace", "  chez marcel  ", "chez-marcel"},
		{"multiple spaces", "le   bistrot", "le-bistrot"},
		{"accents stripped", "café müller", "caf-mller"},
		{"punctuation removal", "joe's grill!", "joes-grill"},
		{"multiple dashes", "sushi--bar", "sushi-bar"},
		{"leading and trailing dashes", "--tapas--", "tapas"},
		{"numbers allowed", "route 66 diner", "route-66-diner"},
		{"empty string", "", "menu"},
		{"only special chars", "!@#$%", "menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MakeSlug(tt.input)
			if result != tt.expected {
				t.Errorf("MakeSlug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
