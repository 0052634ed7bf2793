package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Values come from an optional YAML
// file, with environment variables taking precedence over both the
// file and the built-in defaults.
type Config struct {
	Port     int    `yaml:"port"`
	AudioDir string `yaml:"audio_dir"`

	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	JWTSecret string `yaml:"jwt_secret"`

	// UseMockAdapters swaps the speech and analysis providers for
	// local in-process fakes, useful for development without API keys.
	UseMockAdapters bool `yaml:"use_mock_adapters"`

	GeminiAPIKey     string `yaml:"gemini_api_key"`
	ElevenLabsAPIKey string `yaml:"elevenlabs_api_key"`
}

func defaultConfig() *Config {
	c := &Config{}
	c.Port = 8080
	c.AudioDir = "data/audio"
	c.Mongo.URI = "mongodb://localhost:27017"
	c.Mongo.Database = "echolisten"
	return c
}

// Load reads the config file at path if it exists, then applies env
// overrides. An empty path falls back to echolisten.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "echolisten.yaml"
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("AUDIO_DIR"); v != "" {
		c.AudioDir = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("USE_MOCK_ADAPTERS"); v != "" {
		c.UseMockAdapters = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		c.ElevenLabsAPIKey = v
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
