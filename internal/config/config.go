package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Broadcast   BroadcastConfig   `yaml:"broadcast"`
}

type ServerConfig struct {
	Address        string `yaml:"address"`
	RequestTimeout int    `yaml:"request_timeout"` // seconds
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

type GeminiConfig struct {
	Model        string   `yaml:"model"`
	SummaryModel string   `yaml:"summary_model"`
	APIKeys      []string `yaml:"api_keys"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

type PathsConfig struct {
	Temp   string `yaml:"temp"`
	Spool  string `yaml:"spool"`
	Failed string `yaml:"failed"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type BroadcastConfig struct {
	SendBuffer int `yaml:"send_buffer"`
}

// Load reads the YAML file at path, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv lets secrets live outside the config file.
func (c *Config) applyEnv() {
	if keys := os.Getenv("GEMINI_API_KEY"); keys != "" {
		c.Gemini.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if dsn := os.Getenv("SCRIBE_DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if pw := os.Getenv("PGPASSWORD"); pw != "" && c.Database.Driver == "postgres" &&
		!strings.Contains(c.Database.DSN, "://") && !strings.Contains(c.Database.DSN, "password=") {
		c.Database.DSN = strings.TrimSpace(c.Database.DSN + " password=" + pw)
	}
}

func (c *Config) Validate() error {
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required (or set GEMINI_API_KEY)")
	}
	switch c.Database.Driver {
	case "":
		c.Database.Driver = "sqlite"
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		if c.Database.Driver == "postgres" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
		c.Database.DSN = "data/scribe.sqlite"
	}
	switch strings.ToLower(c.Logging.Format) {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Server.Address == "" {
		c.Server.Address = ":3001"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 120
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 25 << 20
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.SummaryModel == "" {
		c.Gemini.SummaryModel = c.Gemini.Model
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "tmp"
	}
	if c.Paths.Failed == "" && c.Paths.Spool != "" {
		c.Paths.Failed = "data/failed"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 4
	}
	if c.Broadcast.SendBuffer == 0 {
		c.Broadcast.SendBuffer = 64
	}

	return nil
}

// RequestTimeoutDuration returns server.request_timeout as a time.Duration.
func (s ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}
