package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Gemini: GeminiConfig{APIKeys: []string{"k1"}},
			},
			wantErr: false,
		},
		{
			name:    "missing api keys",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "unknown driver",
			config: Config{
				Gemini:   GeminiConfig{APIKeys: []string{"k1"}},
				Database: DatabaseConfig{Driver: "mysql"},
			},
			wantErr: true,
		},
		{
			name: "postgres without dsn",
			config: Config{
				Gemini:   GeminiConfig{APIKeys: []string{"k1"}},
				Database: DatabaseConfig{Driver: "postgres"},
			},
			wantErr: true,
		},
		{
			name: "bad log format",
			config: Config{
				Gemini:  GeminiConfig{APIKeys: []string{"k1"}},
				Logging: LoggingConfig{Format: "xml"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Gemini: GeminiConfig{APIKeys: []string{"k1"}}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %v, want %v", cfg.Database.Driver, "sqlite")
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %v, want %v", cfg.Gemini.Model, "gemini-2.5-flash")
	}
	if cfg.Gemini.SummaryModel != cfg.Gemini.Model {
		t.Errorf("SummaryModel = %v, want %v", cfg.Gemini.SummaryModel, cfg.Gemini.Model)
	}
	if cfg.FFmpeg.SampleRate != 16000 || cfg.FFmpeg.Channels != 1 {
		t.Errorf("FFmpeg = %+v, want 16000 Hz mono", cfg.FFmpeg)
	}
	if cfg.Server.RequestTimeoutDuration() != 120*time.Second {
		t.Errorf("RequestTimeoutDuration() = %v, want %v", cfg.Server.RequestTimeoutDuration(), 120*time.Second)
	}
	if cfg.Paths.Failed != "" {
		t.Errorf("Failed = %v, want empty without spool", cfg.Paths.Failed)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.Server.AllowedOrigins)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SCRIBE_DATABASE_DSN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":8080"

database:
  driver: "sqlite"
  dsn: "file::memory:"

gemini:
  model: "gemini-2.5-flash"
  api_keys: ["a", "b"]

paths:
  spool: "data/spool"

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("Address = %v, want %v", cfg.Server.Address, ":8080")
	}
	if len(cfg.Gemini.APIKeys) != 2 {
		t.Errorf("APIKeys = %v, want 2 keys", cfg.Gemini.APIKeys)
	}
	if cfg.Paths.Failed != "data/failed" {
		t.Errorf("Failed = %v, want %v", cfg.Paths.Failed, "data/failed")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " k1, k2 ,,")
	t.Setenv("SCRIBE_DATABASE_DSN", "")
	t.Setenv("PGPASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: "postgres"
  dsn: "host=localhost dbname=scribe_backend user=postgres"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Gemini.APIKeys; len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Errorf("APIKeys = %v, want [k1 k2]", got)
	}
	want := "host=localhost dbname=scribe_backend user=postgres password=secret"
	if cfg.Database.DSN != want {
		t.Errorf("DSN = %v, want %v", cfg.Database.DSN, want)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
