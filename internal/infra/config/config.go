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

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Pollen   PollenConfig   `yaml:"pollen"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// PollenConfig points at the pollen time-series provider.
type PollenConfig struct {
	APIBaseURL string `yaml:"apiBaseUrl"`
	WindowDays int    `yaml:"windowDays"`
}

// BoundaryConfig locates the municipal boundary dataset loaded at startup.
type BoundaryConfig struct {
	GeoJSONPath string `yaml:"geojsonPath"`
}

// AdvisorConfig tunes the allergy check prompts.
type AdvisorConfig struct {
	SystemPrompt string `yaml:"systemPrompt"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("POLLEN_API_BASE_URL"); v != "" {
		cfg.Pollen.APIBaseURL = v
	}
	if v := os.Getenv("POLLEN_WINDOW_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pollen.WindowDays = parsed
		}
	}
	if v := os.Getenv("BOUNDARY_GEOJSON_PATH"); v != "" {
		cfg.Boundary.GeoJSONPath = v
	}
	if v := os.Getenv("ADVISOR_SYSTEM_PROMPT"); v != "" {
		cfg.Advisor.SystemPrompt = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":34356",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4.1-mini-2025-04-14",
			Temperature: 0.7,
		},
		Pollen: PollenConfig{
			APIBaseURL: "https://wxtech.weathernews.com/opendata/v1/pollen",
			WindowDays: 7,
		},
		Boundary: BoundaryConfig{
			GeoJSONPath: "N03-20250101.geojson",
		},
		Advisor: AdvisorConfig{
			SystemPrompt: "あなたは花粉の専門家です。",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Pollen.APIBaseURL == "" {
		return errors.New("pollen.apiBaseUrl cannot be empty")
	}
	if c.Pollen.WindowDays <= 0 {
		return errors.New("pollen.windowDays must be positive")
	}
	if c.Boundary.GeoJSONPath == "" {
		return errors.New("boundary.geojsonPath cannot be empty")
	}
	if c.Advisor.SystemPrompt == "" {
		return errors.New("advisor.systemPrompt cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
