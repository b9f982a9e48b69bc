// Package config handles loading and validating the hearth configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

// Config is the root configuration for the hearth daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Source     SourceConfig     `mapstructure:"source"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Skills     SkillsConfig     `mapstructure:"skills"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// SourceConfig selects and configures the utterance source.
type SourceConfig struct {
	Backend       string        `mapstructure:"backend"` // "console" or "http"
	HTTPPort      int           `mapstructure:"http_port"`
	ListenTimeout time.Duration `mapstructure:"listen_timeout"`
}

// ClassifierConfig selects and configures the embedding backend and the
// confidence policy applied by the dispatcher.
type ClassifierConfig struct {
	Backend   string       `mapstructure:"backend"` // "openai" or "ollama"
	Threshold float64      `mapstructure:"threshold"`
	OpenAI    OpenAIConfig `mapstructure:"openai"`
	Ollama    OllamaConfig `mapstructure:"ollama"`
}

// OpenAIConfig holds OpenAI Embeddings API settings.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OllamaConfig holds self-hosted embedding model settings.
type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// SkillsConfig holds per-skill settings.
type SkillsConfig struct {
	RemindersFile  string                  `mapstructure:"reminders_file"`
	TemperatureMin int                     `mapstructure:"temperature_min"`
	TemperatureMax int                     `mapstructure:"temperature_max"`
	Devices        map[string]DeviceConfig `mapstructure:"devices"`
	Search         SearchConfig            `mapstructure:"search"`
	Weather        WeatherConfig           `mapstructure:"weather"`
}

// DeviceConfig describes one simulated smart-home device.
type DeviceConfig struct {
	Kind        string `mapstructure:"kind"` // "light", "thermostat", "door"
	Power       string `mapstructure:"power"`
	Brightness  int    `mapstructure:"brightness"`
	Temperature int    `mapstructure:"temperature"`
}

// SearchConfig holds knowledge lookup settings.
type SearchConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	MaxChars int    `mapstructure:"max_chars"`
}

// WeatherConfig holds OpenWeatherMap settings. An empty APIKey switches the
// weather skill to canned offline responses.
type WeatherConfig struct {
	APIKey      string `mapstructure:"api_key"`
	DefaultCity string `mapstructure:"default_city"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voice    string `mapstructure:"voice"`    // Piper voice model name
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text, console
}

// DefaultDevices returns the simulated device registry used when the config
// file does not declare one.
func DefaultDevices() map[string]DeviceConfig {
	return map[string]DeviceConfig{
		"living room light": {Kind: "light", Power: "off"},
		"bedroom light":     {Kind: "light", Power: "off"},
		"thermostat":        {Kind: "thermostat", Power: "off", Temperature: 20},
		"garage door":       {Kind: "door", Power: "off"},
	}
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./hearth.yaml, ./configs/hearth.yaml, /etc/hearth/hearth.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("source.backend", "console")
	v.SetDefault("source.http_port", 8080)
	v.SetDefault("source.listen_timeout", "15s")
	v.SetDefault("classifier.backend", "openai")
	v.SetDefault("classifier.threshold", 0.4)
	v.SetDefault("classifier.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("classifier.openai.model", "text-embedding-3-small")
	v.SetDefault("classifier.ollama.endpoint", "http://localhost:11434/api/embeddings")
	v.SetDefault("classifier.ollama.model", "nomic-embed-text")
	v.SetDefault("skills.reminders_file", "data/reminders.jsonl")
	v.SetDefault("skills.temperature_min", 10)
	v.SetDefault("skills.temperature_max", 35)
	v.SetDefault("skills.search.endpoint", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("skills.search.max_chars", 300)
	v.SetDefault("skills.weather.api_key", "${OPENWEATHER_API_KEY}")
	v.SetDefault("skills.weather.default_city", "London")
	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.backend", "piper")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("tts.piper.voice", "en_US-lessac-medium")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("hearth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hearth")
	}

	// Environment variables: HEARTH_CLASSIFIER_THRESHOLD, HEARTH_SOURCE_BACKEND, etc.
	v.SetEnvPrefix("HEARTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.Classifier.OpenAI.APIKey = resolveEnvRef(cfg.Classifier.OpenAI.APIKey)
	cfg.Skills.Weather.APIKey = resolveEnvRef(cfg.Skills.Weather.APIKey)

	if len(cfg.Skills.Devices) == 0 {
		cfg.Skills.Devices = DefaultDevices()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the invariants the rest of the daemon relies on. A
// violation here aborts startup.
func (c *Config) Validate() error {
	if c.Classifier.Threshold <= 0 || c.Classifier.Threshold > 1 {
		return fmt.Errorf("classifier.threshold must be in (0,1], got %v", c.Classifier.Threshold)
	}
	switch c.Classifier.Backend {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown classifier backend %q", c.Classifier.Backend)
	}
	switch c.Source.Backend {
	case "console", "http":
	default:
		return fmt.Errorf("unknown source backend %q", c.Source.Backend)
	}
	if c.Source.ListenTimeout <= 0 {
		return fmt.Errorf("source.listen_timeout must be positive, got %v", c.Source.ListenTimeout)
	}
	if c.Skills.TemperatureMin >= c.Skills.TemperatureMax {
		return fmt.Errorf("temperature range is empty: min %d, max %d",
			c.Skills.TemperatureMin, c.Skills.TemperatureMax)
	}
	for name, dev := range c.Skills.Devices {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("device with empty name in skills.devices")
		}
		switch dev.Kind {
		case "light", "thermostat", "door":
		default:
			return fmt.Errorf("device %q has unknown kind %q", name, dev.Kind)
		}
	}
	if c.Skills.RemindersFile == "" {
		return fmt.Errorf("skills.reminders_file must not be empty")
	}
	if c.Skills.Search.MaxChars <= 0 {
		return fmt.Errorf("skills.search.max_chars must be positive, got %d", c.Skills.Search.MaxChars)
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
// Unset references resolve to the empty string so optional keys stay optional.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case "console":
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: level})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
