package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ExcludeRule represents an exclusion rule with optional time bounds
type ExcludeRule struct {
	Pattern string `yaml:"pattern"`
	Before  string `yaml:"before,omitempty"` // Exclude only subscriptions started before this date (YYYY-MM-DD)
	After   string `yaml:"after,omitempty"`  // Exclude only subscriptions started on or after this date (YYYY-MM-DD)

	// compiled fields
	regex      *regexp.Regexp `yaml:"-"`
	beforeDate time.Time      `yaml:"-"`
	afterDate  time.Time      `yaml:"-"`
}

type Config struct {
	// Currency is the ISO code used for formatting (e.g. "USD"). Empty means auto-detect.
	Currency string `yaml:"currency,omitempty"`

	// Descriptions maps subscription names to custom descriptions
	Descriptions map[string]string `yaml:"descriptions,omitempty"`

	// Tags maps subscription names to a list of tags (e.g., "entertainment", "work")
	Tags map[string][]string `yaml:"tags,omitempty"`

	// Categories maps subscription names to a category, overriding the source file
	Categories map[string]string `yaml:"categories,omitempty"`

	// RenewalDates maps subscription names to a manually chosen next renewal date (YYYY-MM-DD)
	RenewalDates map[string]string `yaml:"renewal_dates,omitempty"`

	// Exclude is a list of exclusion rules (can be strings or objects with time bounds)
	Exclude []yaml.Node `yaml:"exclude,omitempty"`

	// compiled fields (not serialized)
	excludeRules []ExcludeRule        `yaml:"-"`
	renewalDates map[string]time.Time `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.subscription-tracker/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".subscription-tracker", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and compiles YAML config data
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse exclude rules (supports both strings and objects)
	for _, node := range cfg.Exclude {
		var rule ExcludeRule

		if node.Kind == yaml.ScalarNode {
			// Simple string pattern
			rule.Pattern = node.Value
		} else if node.Kind == yaml.MappingNode {
			// Object with pattern and optional time bounds
			if err := node.Decode(&rule); err != nil {
				return nil, fmt.Errorf("parsing exclude rule: %w", err)
			}
		} else {
			return nil, fmt.Errorf("invalid exclude rule format")
		}

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", rule.Pattern, err)
		}
		rule.regex = re

		if rule.Before != "" {
			t, err := time.Parse(DateLayout, rule.Before)
			if err != nil {
				return nil, fmt.Errorf("invalid 'before' date %q: %w", rule.Before, err)
			}
			rule.beforeDate = t
		}
		if rule.After != "" {
			t, err := time.Parse(DateLayout, rule.After)
			if err != nil {
				return nil, fmt.Errorf("invalid 'after' date %q: %w", rule.After, err)
			}
			rule.afterDate = t
		}

		cfg.excludeRules = append(cfg.excludeRules, rule)
	}

	cfg.renewalDates = make(map[string]time.Time, len(cfg.RenewalDates))
	for name, s := range cfg.RenewalDates {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid renewal date %q for %s: %w", s, name, err)
		}
		cfg.renewalDates[name] = t
	}

	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ShouldExclude returns true if the subscription matches any exclude rule,
// considering time bounds against the subscription's start date
func (c *Config) ShouldExclude(sub Subscription) bool {
	if c == nil {
		return false
	}
	for _, rule := range c.excludeRules {
		if !rule.regex.MatchString(sub.Name) {
			continue
		}
		if !rule.beforeDate.IsZero() && !sub.StartDate.Before(rule.beforeDate) {
			continue // Started on or after the "before" date, don't exclude
		}
		if !rule.afterDate.IsZero() && sub.StartDate.Before(rule.afterDate) {
			continue // Started before the "after" date, don't exclude
		}
		return true
	}
	return false
}

// GetDescription returns the custom description for a subscription, or empty string
func (c *Config) GetDescription(name string) string {
	if c == nil || c.Descriptions == nil {
		return ""
	}
	return c.Descriptions[name]
}

// GetTags returns the tags for a subscription, or nil if none
func (c *Config) GetTags(name string) []string {
	if c == nil || c.Tags == nil {
		return nil
	}
	return c.Tags[name]
}

// GetCategory returns the configured category override, or empty string
func (c *Config) GetCategory(name string) string {
	if c == nil || c.Categories == nil {
		return ""
	}
	return c.Categories[name]
}

// GetRenewalDate returns the manually configured renewal date, if any
func (c *Config) GetRenewalDate(name string) (time.Time, bool) {
	if c == nil || c.renewalDates == nil {
		return time.Time{}, false
	}
	t, ok := c.renewalDates[name]
	return t, ok
}

// Apply drops excluded subscriptions and merges descriptions, tags, category
// overrides and manual renewal dates into the rest.
// A manual renewal date before referenceDate is an error.
func (c *Config) Apply(subs []Subscription, referenceDate time.Time) ([]Subscription, error) {
	var result []Subscription
	for _, sub := range subs {
		if c.ShouldExclude(sub) {
			continue
		}
		if desc := c.GetDescription(sub.Name); desc != "" {
			sub.Description = desc
		}
		if tags := c.GetTags(sub.Name); len(tags) > 0 {
			sub.Tags = tags
		}
		if category := c.GetCategory(sub.Name); category != "" {
			sub.Category = category
			if err := Validate(sub); err != nil {
				return nil, fmt.Errorf("applying category override: %w", err)
			}
		}
		if date, ok := c.GetRenewalDate(sub.Name); ok {
			updated, err := ApplyRenewalOverride(sub, date, referenceDate)
			if err != nil {
				return nil, fmt.Errorf("applying renewal date override: %w", err)
			}
			sub = updated
		}
		result = append(result, sub)
	}
	return result, nil
}

// GenerateConfigTemplate creates a config template from loaded subscriptions
func GenerateConfigTemplate(subscriptions []Subscription) *Config {
	cfg := &Config{
		Descriptions: make(map[string]string),
	}

	for _, sub := range subscriptions {
		cfg.Descriptions[sub.Name] = "" // Empty description as placeholder
	}

	return cfg
}
