package common

import (
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds all application configuration
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Export     ExportConfig     `yaml:"export"`
}

// LLMConfig holds settings for the external extraction service.
type LLMConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	VisionModel    string        `yaml:"vision_model"`
	APIKey         string        `yaml:"api_key"`
	Temperature    float32       `yaml:"temperature"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxVisionToken int           `yaml:"max_vision_tokens"`
}

// ExtractionConfig holds orchestrator behavior settings.
type ExtractionConfig struct {
	MaxPromptChars  int  `yaml:"max_prompt_chars"`
	FallbackEnabled bool `yaml:"fallback_enabled"`
}

// ExportConfig holds workbook output settings.
type ExportConfig struct {
	BySupplierSheets bool `yaml:"by_supplier_sheets"`
}

// LoadConfig loads configuration from an optional YAML file, then applies
// environment variable overrides. A missing file is not an error; env-only
// configuration is a supported mode.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o",
			VisionModel:    "gpt-4o",
			Temperature:    0.1,
			Timeout:        45 * time.Second,
			MaxVisionToken: 1000,
		},
		Extraction: ExtractionConfig{
			MaxPromptChars:  12000,
			FallbackEnabled: true,
		},
		Export: ExportConfig{
			BySupplierSheets: true,
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, NewAppError("CONFIG_ERROR", "read config file", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse config file", err)
		}
	}

	cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("OPENAI_MODEL", cfg.LLM.Model)
	cfg.LLM.VisionModel = getEnv("OPENAI_VISION_MODEL", cfg.LLM.VisionModel)
	cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", cfg.LLM.Timeout)
	cfg.Extraction.MaxPromptChars = getEnvAsInt("EXTRACT_MAX_PROMPT_CHARS", cfg.Extraction.MaxPromptChars)
	cfg.Extraction.FallbackEnabled = getEnvAsBool("EXTRACT_FALLBACK_ENABLED", cfg.Extraction.FallbackEnabled)
	cfg.Export.BySupplierSheets = getEnvAsBool("EXPORT_BY_SUPPLIER_SHEETS", cfg.Export.BySupplierSheets)

	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Extraction.MaxPromptChars <= 0 {
		return NewAppError("CONFIG_ERROR", "max_prompt_chars must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
