package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jbdamask/toolhost/pkg/llm"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "toolhost.yaml"

// Keys holds credentials for the generative and REST upstreams.
type Keys struct {
	Gemini      string `yaml:"gemini"`
	Anthropic   string `yaml:"anthropic"`
	OpenAI      string `yaml:"openai"`
	OpenWeather string `yaml:"openweather"`
	News        string `yaml:"news"`
}

// Endpoints overrides upstream base URLs. Empty values select the public APIs.
type Endpoints struct {
	Gemini    string `yaml:"gemini"`
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Weather   string `yaml:"weather"`
	News      string `yaml:"news"`
	Currency  string `yaml:"currency"`
}

type Config struct {
	// Models is the resolver's candidate list in priority order.
	Models    []string `yaml:"models"`
	NotesFile string   `yaml:"notes_file"`

	Debug   bool `yaml:"debug"`
	LogJSON bool `yaml:"log_json"`

	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`

	// RequestsPerMinute caps calls to each REST upstream. Zero disables the cap.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	Keys      Keys      `yaml:"keys"`
	Endpoints Endpoints `yaml:"endpoints"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Models:            append([]string(nil), llm.DefaultCandidates...),
		NotesFile:         "notes.txt",
		HTTPTimeout:       10 * time.Second,
		GenerateTimeout:   90 * time.Second,
		ProbeTimeout:      20 * time.Second,
		RequestsPerMinute: 60,
	}
}

// Load builds the configuration from defaults, then the YAML file, then the
// environment. An empty path falls back to TOOLHOST_CONFIG and then to
// DefaultFile when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("TOOLHOST_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Keys.Gemini, "GOOGLE_API_KEY")
	setString(&c.Keys.Gemini, "GEMINI_API_KEY")
	setString(&c.Keys.Anthropic, "ANTHROPIC_API_KEY")
	setString(&c.Keys.OpenAI, "OPENAI_API_KEY")
	setString(&c.Keys.OpenWeather, "OPENWEATHER_API_KEY")
	setString(&c.Keys.News, "NEWS_API_KEY")
	setString(&c.NotesFile, "TOOLHOST_NOTES_FILE")

	if v := os.Getenv("TOOLHOST_MODELS"); v != "" {
		c.Models = splitList(v)
	}
	if v := os.Getenv("TOOLHOST_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOOLHOST_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("at least one model candidate is required")
	}
	for _, m := range c.Models {
		if strings.TrimSpace(m) == "" {
			return errors.New("model candidates must not be blank")
		}
	}
	if c.HTTPTimeout <= 0 || c.GenerateTimeout <= 0 || c.ProbeTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return errors.New("requests_per_minute must not be negative")
	}
	if strings.TrimSpace(c.NotesFile) == "" {
		return errors.New("notes_file is required")
	}
	for name, raw := range map[string]string{
		"gemini":    c.Endpoints.Gemini,
		"anthropic": c.Endpoints.Anthropic,
		"openai":    c.Endpoints.OpenAI,
		"weather":   c.Endpoints.Weather,
		"news":      c.Endpoints.News,
		"currency":  c.Endpoints.Currency,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoints.%s: invalid URL %q", name, raw)
		}
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
