package utils

import "testing"

func TestGeneratePublicLink(t *testing.T) {
	tests := []struct {
		name       string
		clientName string
		month      int
		year       int
		want       string
	}{
		{"simple", "Acme", 3, 2026, "acme/3/2026"},
		{"spaces become hyphens", "Acme Coffee", 12, 2025, "acme-coffee/12/2025"},
		{"whitespace runs collapse", "Acme   Coffee\tCo", 1, 2026, "acme-coffee-co/1/2026"},
		{"punctuation passes through", "José & Filhos", 7, 2026, "josé-&-filhos/7/2026"},
		{"already lowercase", "studio nove", 10, 2024, "studio-nove/10/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePublicLink(tt.clientName, tt.month, tt.year)
			if got != tt.want {
				t.Errorf("GeneratePublicLink(%q, %d, %d) = %q, want %q",
					tt.clientName, tt.month, tt.year, got, tt.want)
			}

			// Deterministic: same inputs, same output
			if again := GeneratePublicLink(tt.clientName, tt.month, tt.year); again != got {
				t.Errorf("GeneratePublicLink not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(1); got != "Janeiro" {
		t.Errorf("MonthName(1) = %q, want Janeiro", got)
	}
	if got := MonthName(12); got != "Dezembro" {
		t.Errorf("MonthName(12) = %q, want Dezembro", got)
	}
	if got := MonthName(0); got != "" {
		t.Errorf("MonthName(0) = %q, want empty", got)
	}
	if got := MonthName(13); got != "" {
		t.Errorf("MonthName(13) = %q, want empty", got)
	}
}
