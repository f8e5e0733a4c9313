// Package config loads the YAML run configuration: the ordered source list,
// shared HTTP settings and the optional LLM extraction endpoint.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxPages   = 3
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultUserAgent  = "explorastur/1.0 (github.com/explorastur/explorastur)"
)

// Selectors drive goquery extraction for the selector-based fetcher types.
// Empty fields fall back to the per-type defaults.
type Selectors struct {
	Item     string `yaml:"item"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Location string `yaml:"location"`
	Link     string `yaml:"link"`
	NextPage string `yaml:"next_page"`
}

// Source configures one external site. Sources are processed in the order
// they appear in the file.
type Source struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"` // cards | bloglist | weekagenda | llm
	BaseURL   string    `yaml:"base_url"`
	StartURL  string    `yaml:"start_url"`
	MaxPages  int       `yaml:"max_pages"`
	Enabled   *bool     `yaml:"enabled"` // nil means enabled
	Selectors Selectors `yaml:"selectors"`
}

// IsEnabled reports whether the source should be processed.
func (s Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Validate reports a configuration problem with this source. A bad source is
// skipped and reported; it never aborts the run.
func (s Source) Validate() error {
	if s.ID == "" {
		return errors.New("source id is required")
	}
	if s.StartURL == "" {
		return fmt.Errorf("source %s: start_url is required", s.ID)
	}
	if s.Type == "" {
		return fmt.Errorf("source %s: type is required", s.ID)
	}
	if s.MaxPages < 0 {
		return fmt.Errorf("source %s: max_pages must be >= 0", s.ID)
	}
	return nil
}

// HTTP holds the shared fetch client settings.
type HTTP struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// LLM configures the OpenAI-compatible extraction endpoint used by sources
// of type "llm".
type LLM struct {
	BaseURL string        `yaml:"base_url"` // e.g. http://localhost:1234/v1
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the full run configuration.
type Config struct {
	Title   string   `yaml:"title"` // report heading
	HTTP    HTTP     `yaml:"http"`
	LLM     LLM      `yaml:"llm"`
	Sources []Source `yaml:"sources"`
}

// Load reads and parses the configuration file, then applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.applyDefaults()
	if len(c.Sources) == 0 {
		return nil, errors.New("no sources configured")
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "Eventos"
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.HTTP.MaxRetries <= 0 {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.HTTP.RetryDelay <= 0 {
		c.HTTP.RetryDelay = DefaultRetryDelay
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	for i := range c.Sources {
		if c.Sources[i].MaxPages == 0 {
			c.Sources[i].MaxPages = DefaultMaxPages
		}
		if c.Sources[i].Name == "" {
			c.Sources[i].Name = c.Sources[i].ID
		}
	}
}
