package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
	StoreMemory   = "memory"

	TransportPostgres = "postgres"
	TransportSupabase = "supabase"
	TransportNats     = "nats"
	TransportRedis    = "redis"
	TransportMemory   = "memory"
	TransportNone     = "none"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Notes    NotesConfig    `yaml:"notes"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type AppConfig struct {
	Port               string `yaml:"port"`
	Environment        string `yaml:"environment"`
	LogFilePath        string `yaml:"log_file_path"`
	CorsAllowedOrigins string `yaml:"cors_allowed_origins"`
	NatsURL            string `yaml:"nats_url"`
	RedisURL           string `yaml:"redis_url"`
}

type DatabaseConfig struct {
	Connection   string `yaml:"connection"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// NotesConfig selects where notes live and how change events travel.
type NotesConfig struct {
	StoreDriver   string `yaml:"store_driver"`
	SyncTransport string `yaml:"sync_transport"`
	Table         string `yaml:"table"`
	Channel       string `yaml:"channel"`
}

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Port:               "3000",
			Environment:        "development",
			LogFilePath:        "app.log",
			CorsAllowedOrigins: "http://localhost:5173",
			NatsURL:            "nats://localhost:4222",
			RedisURL:           "redis://localhost:6379",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 100,
			MaxIdleConns: 10,
		},
		Notes: NotesConfig{
			StoreDriver:   StorePostgres,
			SyncTransport: TransportPostgres,
			Table:         "note_app",
			Channel:       "note_updates",
		},
		Tracing: TracingConfig{
			Endpoint: "localhost:4318",
		},
	}
}

// Load resolves configuration in order: built-in defaults, the YAML file
// named by NOTES_CONFIG_FILE, then environment variables (including .env).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := defaults()
	if path := getEnv("NOTES_CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			log.Printf("Warning: ignoring config file %s: %v", path, err)
		}
	}

	applyEnv(cfg)
	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.App.Port = getEnv("APP_PORT", cfg.App.Port)
	cfg.App.Environment = getEnv("GO_ENV", cfg.App.Environment)
	cfg.App.LogFilePath = getEnv("LOG_FILE_PATH", cfg.App.LogFilePath)
	cfg.App.CorsAllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.App.CorsAllowedOrigins)
	cfg.App.NatsURL = getEnv("NATS_URL", cfg.App.NatsURL)
	cfg.App.RedisURL = getEnv("REDIS_URL", cfg.App.RedisURL)

	cfg.Database.Connection = getEnv("DB_CONNECTION_STRING", cfg.Database.Connection)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", cfg.Supabase.AnonKey)

	cfg.Notes.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.Notes.StoreDriver))
	cfg.Notes.SyncTransport = strings.ToLower(getEnv("SYNC_TRANSPORT", cfg.Notes.SyncTransport))
	cfg.Notes.Table = getEnv("NOTES_TABLE", cfg.Notes.Table)
	cfg.Notes.Channel = getEnv("NOTES_CHANNEL", cfg.Notes.Channel)

	cfg.Tracing.Enabled = getEnvAsBool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
}

// Validate rejects driver and transport combinations that cannot work.
func (c *Config) Validate() error {
	switch c.Notes.StoreDriver {
	case StorePostgres:
		if c.Database.Connection == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required for store driver %q", c.Notes.StoreDriver)
		}
	case StoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required for store driver %q", c.Notes.StoreDriver)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Notes.StoreDriver)
	}

	switch c.Notes.SyncTransport {
	case TransportPostgres:
		if c.Database.Connection == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required for sync transport %q", c.Notes.SyncTransport)
		}
	case TransportSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required for sync transport %q", c.Notes.SyncTransport)
		}
	case TransportMemory:
		if c.Notes.StoreDriver != StoreMemory {
			return fmt.Errorf("sync transport %q only works with the memory store", TransportMemory)
		}
	case TransportNats, TransportRedis, TransportNone:
	default:
		return fmt.Errorf("unknown sync transport %q", c.Notes.SyncTransport)
	}

	if c.Notes.Table == "" {
		return fmt.Errorf("NOTES_TABLE must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
