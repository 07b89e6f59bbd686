package internal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
currency: sek
descriptions:
  Netflix: "Video streaming"
tags:
  Netflix: [entertainment]
categories:
  Spotify: Music
renewal_dates:
  Cloud: "2024-03-20"
exclude:
  - "^Old"
  - pattern: "Trial"
    before: "2024-01-01"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Currency != "sek" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
	if cfg.GetDescription("Netflix") != "Video streaming" {
		t.Errorf("GetDescription = %q", cfg.GetDescription("Netflix"))
	}
	if tags := cfg.GetTags("Netflix"); len(tags) != 1 || tags[0] != "entertainment" {
		t.Errorf("GetTags = %v", tags)
	}
	if cfg.GetCategory("Spotify") != "Music" {
		t.Errorf("GetCategory = %q", cfg.GetCategory("Spotify"))
	}
	if d, ok := cfg.GetRenewalDate("Cloud"); !ok || !d.Equal(date("2024-03-20")) {
		t.Errorf("GetRenewalDate = %v, %v", d, ok)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := map[string]string{
		"bad regex":        "exclude:\n  - \"[\"\n",
		"bad before date":  "exclude:\n  - pattern: x\n    before: yesterday\n",
		"bad renewal date": "renewal_dates:\n  Cloud: soon\n",
		"bad rule kind":    "exclude:\n  - [a, b]\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfig_ShouldExclude(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
exclude:
  - "^Old"
  - pattern: "Trial"
    before: "2024-01-01"
  - pattern: "Beta"
    after: "2024-06-01"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{"Old Service", "2024-01-01", true},
		{"Netflix", "2024-01-01", false},
		{"Trial Plan", "2023-12-31", true},
		{"Trial Plan", "2024-01-01", false},
		{"Beta Access", "2024-05-31", false},
		{"Beta Access", "2024-06-01", true},
	}
	for _, tt := range tests {
		sub := monthlySub(tt.name, "10", tt.start)
		if got := cfg.ShouldExclude(sub); got != tt.want {
			t.Errorf("ShouldExclude(%s started %s) = %v, want %v", tt.name, tt.start, got, tt.want)
		}
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
descriptions:
  Netflix: "Video streaming"
tags:
  Netflix: [entertainment]
categories:
  Netflix: Streaming
renewal_dates:
  Cloud: "2024-03-20"
exclude:
  - "^Old"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subs := []Subscription{
		monthlySub("Netflix", "15.99", "2024-01-15"),
		yearlySub("Cloud", "99.99", "2023-06-01"),
		monthlySub("Old Service", "5", "2020-01-01"),
	}

	got, err := cfg.Apply(subs, date("2024-03-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 subscriptions after exclusion, got %d", len(got))
	}

	netflix := got[0]
	if netflix.Description != "Video streaming" || netflix.Category != "Streaming" || len(netflix.Tags) != 1 {
		t.Errorf("config not merged into Netflix: %+v", netflix)
	}
	if !got[1].RenewalDate.Equal(date("2024-03-20")) {
		t.Errorf("Cloud RenewalDate = %s, want 2024-03-20", got[1].RenewalDate.Format(DateLayout))
	}
	if subs[0].Category != "" {
		t.Error("Apply modified its input")
	}
}

func TestConfig_Apply_Errors(t *testing.T) {
	pastRenewal, err := ParseConfig([]byte("renewal_dates:\n  Cloud: \"2024-03-01\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	longCategory, err := ParseConfig([]byte("categories:\n  Cloud: " + strings.Repeat("c", 51) + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subs := []Subscription{yearlySub("Cloud", "99.99", "2023-06-01")}
	for name, cfg := range map[string]*Config{"past renewal": pastRenewal, "long category": longCategory} {
		t.Run(name, func(t *testing.T) {
			_, err := cfg.Apply(subs, date("2024-03-10"))
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestConfig_NilIsNoop(t *testing.T) {
	var cfg *Config
	subs := []Subscription{monthlySub("Netflix", "15.99", "2024-01-15")}

	got, err := cfg.Apply(subs, date("2024-03-10"))
	if err != nil || len(got) != 1 {
		t.Errorf("nil config Apply = %v, %v", got, err)
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	subs := []Subscription{monthlySub("Netflix", "15.99", "2024-01-15"), monthlySub("Spotify", "9.99", "2024-01-15")}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := GenerateConfigTemplate(subs).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, ok := cfg.Descriptions["Spotify"]; !ok || len(cfg.Descriptions) != 2 {
		t.Errorf("unexpected descriptions: %v", cfg.Descriptions)
	}
}
