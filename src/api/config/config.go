package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "MEDCHECK_CONFIG"

	defaultPort         = "8080"
	defaultProvider     = "gemini"
	defaultTimeoutSecs  = 120
	defaultSystemPrompt = "You are a rigorous medical fact-checker. Judge claims strictly on published scientific evidence."
)

// Config holds everything the API service needs at startup.
type Config struct {
	Port      string `yaml:"port"`
	JWTSecret string `yaml:"jwtSecret"`

	AI struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`
		SystemPrompt   string `yaml:"systemPrompt"`
		GeminiKey      string `yaml:"geminiKey"`
		OpenAIKey      string `yaml:"openaiKey"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	CORSOrigins []string `yaml:"corsOrigins"`
}

// Load reads YAML configuration (if MEDCHECK_CONFIG points at a file) and
// applies environment overrides on top.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (using defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (using defaults)", path, err)
			cfg = defaults()
		}
	}

	cfg.applyEnvOverrides()

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "CHANGE_ME"
		log.Printf("config: JWT_SECRET not set, using insecure default")
	}
	return cfg
}

func defaults() Config {
	var cfg Config
	cfg.Port = defaultPort
	cfg.AI.Provider = defaultProvider
	cfg.AI.SystemPrompt = defaultSystemPrompt
	cfg.AI.TimeoutSeconds = defaultTimeoutSecs
	cfg.CORSOrigins = []string{"http://localhost:3000"}
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("AI_SYSTEM_PROMPT"); v != "" {
		c.AI.SystemPrompt = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.OpenAIKey = v
	}
	if v := os.Getenv("AI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.AI.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.CORSOrigins = origins
		}
	}
}

// AITimeout returns the provider call timeout as a duration.
func (c Config) AITimeout() time.Duration {
	if c.AI.TimeoutSeconds <= 0 {
		return defaultTimeoutSecs * time.Second
	}
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write deadline. It must outlive
// one provider round-trip, whatever timeout that is configured with.
func (c Config) WriteTimeout() time.Duration {
	return c.AITimeout() + 30*time.Second
}
