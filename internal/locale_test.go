package internal

import "testing"

func TestDetectSystemLocale(t *testing.T) {
	skipSystemLocale = true
	defer func() { skipSystemLocale = false }()

	tests := []struct {
		name       string
		lcMonetary string
		lcAll      string
		lang       string
		want       string
	}{
		{"LC_MONETARY first", "sv_SE.UTF-8", "en_US.UTF-8", "de_DE.UTF-8", "sv_SE.UTF-8"},
		{"LC_ALL second", "", "en_US.UTF-8", "de_DE.UTF-8", "en_US.UTF-8"},
		{"LANG last", "", "", "de_DE.UTF-8", "de_DE.UTF-8"},
		{"C and POSIX skipped", "C", "POSIX", "pt_BR.UTF-8", "pt_BR.UTF-8"},
		{"nothing set", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_MONETARY", tt.lcMonetary)
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LANG", tt.lang)

			if got := detectSystemLocale(); got != tt.want {
				t.Errorf("detectSystemLocale() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCurrencyFromLocale_OSFormats(t *testing.T) {
	// Windows reports "sv-SE", macOS "sv_SE", Unix environments "sv_SE.UTF-8"
	for _, locale := range []string{"sv-SE", "sv_SE", "sv_SE.UTF-8"} {
		code, tag := parseCurrencyFromLocale(locale)
		if code != "SEK" || tag.String() != "sv-SE" {
			t.Errorf("parseCurrencyFromLocale(%q) = (%q, %s), want (SEK, sv-SE)", locale, code, tag)
		}
	}
}
