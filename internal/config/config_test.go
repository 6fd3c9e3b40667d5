package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "8080"
notes:
  store_driver: memory
  sync_transport: memory
  table: notes_from_file
database:
  max_open_conns: 5
`), 0o600))

	t.Setenv("NOTES_CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SYNC_TRANSPORT", "NONE")

	cfg := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, StoreMemory, cfg.Notes.StoreDriver)
	assert.Equal(t, TransportNone, cfg.Notes.SyncTransport)
	assert.Equal(t, "notes_from_file", cfg.Notes.Table)
	assert.Equal(t, "note_updates", cfg.Notes.Channel)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unterminated"), 0o600))

	cfg := defaults()
	assert.Error(t, loadFile(path, cfg))
	assert.Error(t, loadFile(filepath.Join(t.TempDir(), "missing.yaml"), cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"postgres needs dsn", func(c *Config) {}, true},
		{"postgres with dsn", func(c *Config) { c.Database.Connection = "postgres://x" }, false},
		{"supabase needs credentials", func(c *Config) {
			c.Notes.StoreDriver = StoreSupabase
			c.Notes.SyncTransport = TransportSupabase
		}, true},
		{"supabase with credentials", func(c *Config) {
			c.Notes.StoreDriver = StoreSupabase
			c.Notes.SyncTransport = TransportSupabase
			c.Supabase.URL = "https://abc.supabase.co"
			c.Supabase.AnonKey = "key"
		}, false},
		{"memory everything", func(c *Config) {
			c.Notes.StoreDriver = StoreMemory
			c.Notes.SyncTransport = TransportMemory
		}, false},
		{"memory transport needs memory store", func(c *Config) {
			c.Database.Connection = "postgres://x"
			c.Notes.SyncTransport = TransportMemory
		}, true},
		{"nats with memory store", func(c *Config) {
			c.Notes.StoreDriver = StoreMemory
			c.Notes.SyncTransport = TransportNats
		}, false},
		{"unknown store", func(c *Config) { c.Notes.StoreDriver = "sqlite" }, true},
		{"unknown transport", func(c *Config) {
			c.Notes.StoreDriver = StoreMemory
			c.Notes.SyncTransport = "carrier-pigeon"
		}, true},
		{"empty table", func(c *Config) {
			c.Notes.StoreDriver = StoreMemory
			c.Notes.SyncTransport = TransportNone
			c.Notes.Table = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	cfg := defaults()
	assert.False(t, cfg.IsProduction())
	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
