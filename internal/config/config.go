package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory when
// neither --config nor ADCRAFT_CONFIG is set.
const DefaultPath = "adcraft.yaml"

// PathEnv names the environment variable holding the config file path.
const PathEnv = "ADCRAFT_CONFIG"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	AI      AIConfig      `yaml:"ai"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address for Port.
func (s ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type AIConfig struct {
	Provider string        `yaml:"provider"` // "openai" or "anthropic"
	Timeout  time.Duration `yaml:"timeout"`
	// RecheckExtracted runs the weak-content check on function-call output
	// too, not only on data derived from the analysis prompt.
	RecheckExtracted bool            `yaml:"recheck_extracted"`
	OpenAI           OpenAIConfig    `yaml:"openai"`
	Anthropic        AnthropicConfig `yaml:"anthropic"`
}

type OpenAIConfig struct {
	APIKey          string `yaml:"api_key,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
	ChatModel       string `yaml:"chat_model"`
	ExtractionModel string `yaml:"extraction_model"`
	ImageModel      string `yaml:"image_model"`
	ImageSize       string `yaml:"image_size"`
	ImageQuality    string `yaml:"image_quality"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    6 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		AI: AIConfig{
			Provider: "openai",
			Timeout:  60 * time.Second,
			OpenAI: OpenAIConfig{
				ChatModel:       "gpt-4",
				ExtractionModel: "gpt-4-0613",
				ImageModel:      "dall-e-3",
				ImageSize:       "1024x1024",
				ImageQuality:    "standard",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-3-5-sonnet-20241022",
			},
		},
	}
}

// ResolvePath picks the config file: explicit flag value, then
// ADCRAFT_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config at ResolvePath("") and applies the process
// environment on top.
func Load() (*Config, error) {
	return LoadWithEnv(ResolvePath(""), os.LookupEnv)
}

// LoadWithEnv reads path (a missing file yields defaults), overlays the
// variables visible through lookup and validates the result.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a YAML file over DefaultConfig. A missing file is not
// an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: invalid number %q", v)
		}
		c.Server.Port = port
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := get("AI_PROVIDER"); ok {
		c.AI.Provider = strings.ToLower(v)
	}
	if v, ok := get("AI_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AI_TIMEOUT: %w", err)
		}
		c.AI.Timeout = d
	}
	if v, ok := get("OPENAI_API_KEY"); ok {
		c.AI.OpenAI.APIKey = v
	}
	if v, ok := get("OPENAI_BASE_URL"); ok {
		c.AI.OpenAI.BaseURL = v
	}
	if v, ok := get("ANTHROPIC_API_KEY"); ok {
		c.AI.Anthropic.APIKey = v
	}
	if v, ok := get("ANTHROPIC_MODEL"); ok {
		c.AI.Anthropic.Model = v
	}
	return nil
}

// Validate checks value ranges. Missing credentials are reported later by
// the AI gateway constructor so that commands which never call a model can
// still load the config.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"ai.timeout":              c.AI.Timeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
