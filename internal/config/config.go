package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted in configuration and on the command line
const (
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// ProviderNames lists providers in the order they are offered to the user
var ProviderNames = []string{ProviderOpenAI, ProviderClaude, ProviderDeepSeek, ProviderGemini}

// providerEnv maps each provider to the environment variable holding its key
var providerEnv = map[string]string{
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderClaude:   "ANTHROPIC_API_KEY",
	ProviderDeepSeek: "DEEPSEEK_API_KEY",
	ProviderGemini:   "GEMINI_API_KEY",
}

// Config holds all configuration settings
type Config struct {
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type RepositoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	Ref  string `yaml:"ref" mapstructure:"ref"` // empty = HEAD
}

type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // empty = ask
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RedisAddr   string  `yaml:"redis_addr" mapstructure:"redis_addr"` // shared quota, empty = disabled
	UseKeychain bool    `yaml:"use_keychain" mapstructure:"use_keychain"`
	MaxInput    int     `yaml:"max_input_bytes" mapstructure:"max_input_bytes"`

	OpenAI   ProviderConfig `yaml:"openai" mapstructure:"openai"`
	Claude   ProviderConfig `yaml:"claude" mapstructure:"claude"`
	DeepSeek ProviderConfig `yaml:"deepseek" mapstructure:"deepseek"`
	Gemini   ProviderConfig `yaml:"gemini" mapstructure:"gemini"`
}

// ProviderConfig is everything needed to construct one backend
type ProviderConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Path      string        `yaml:"path" mapstructure:"path"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr string        `yaml:"redis_addr" mapstructure:"redis_addr"` // shared cache instead of Path
}

type LogConfig struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Directory string `yaml:"directory" mapstructure:"directory"` // empty = stderr only
	JSON      bool   `yaml:"json" mapstructure:"json"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Repository: RepositoryConfig{
			Path: ".",
		},
		LLM: LLMConfig{
			Temperature: 0.7,
			RateLimit:   2,
			UseKeychain: true,
			MaxInput:    64 * 1024,
			OpenAI: ProviderConfig{
				Model: "gpt-4-turbo-preview",
			},
			Claude: ProviderConfig{
				Model:   "claude-3-5-haiku-latest",
				BaseURL: "https://api.anthropic.com/v1/",
			},
			DeepSeek: ProviderConfig{
				Model:   "deepseek-chat",
				BaseURL: "https://api.deepseek.com/v1",
			},
			Gemini: ProviderConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(homeDir, ".merit", "cache.db"),
			TTL:     7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, .env files and the environment
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("repository", cfg.Repository)
	v.SetDefault("llm", cfg.LLM)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("log", cfg.Log)

	v.SetEnvPrefix("MERIT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".merit")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".merit"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides variables that are already set, so the first file wins.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".merit", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Key precedence: environment > keychain > config file.
func applyEnvOverrides(cfg *Config) {
	for _, name := range ProviderNames {
		pc := cfg.LLM.ProviderConfig(name)
		if key := os.Getenv(providerEnv[name]); key != "" {
			pc.APIKey = key
		} else if pc.APIKey == "" && cfg.LLM.UseKeychain {
			km := NewKeyringManager()
			if key, err := km.GetProviderKey(name); err == nil && key != "" {
				pc.APIKey = key
			}
		}
	}

	if provider := os.Getenv("MERIT_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if temp := os.Getenv("MERIT_TEMPERATURE"); temp != "" {
		if t, err := strconv.ParseFloat(temp, 64); err == nil {
			cfg.LLM.Temperature = t
		}
	}
	if addr := os.Getenv("MERIT_REDIS_ADDR"); addr != "" {
		cfg.LLM.RedisAddr = addr
	}
	if path := os.Getenv("MERIT_REPO"); path != "" {
		cfg.Repository.Path = expandPath(path)
	}
	if path := os.Getenv("MERIT_CACHE_PATH"); path != "" {
		cfg.Cache.Path = expandPath(path)
	}
	if addr := os.Getenv("MERIT_CACHE_REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if level := os.Getenv("MERIT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

// ProviderConfig returns a pointer to the named provider's settings, or nil
// for an unknown name.
func (l *LLMConfig) ProviderConfig(name string) *ProviderConfig {
	switch name {
	case ProviderOpenAI:
		return &l.OpenAI
	case ProviderClaude:
		return &l.Claude
	case ProviderDeepSeek:
		return &l.DeepSeek
	case ProviderGemini:
		return &l.Gemini
	default:
		return nil
	}
}

// Configured returns the names of providers that have an API key, in
// ProviderNames order.
func (l *LLMConfig) Configured() []string {
	var names []string
	for _, name := range ProviderNames {
		if l.ProviderConfig(name).APIKey != "" {
			names = append(names, name)
		}
	}
	return names
}

// EnvVar returns the environment variable that holds the provider's key
func EnvVar(provider string) string {
	return providerEnv[provider]
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file. API keys are never written; they belong
// in the keychain or the environment.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	llm := c.LLM
	for _, name := range ProviderNames {
		llm.ProviderConfig(name).APIKey = ""
	}

	v.Set("repository", c.Repository)
	v.Set("llm", llm)
	v.Set("cache", c.Cache)
	v.Set("log", c.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
