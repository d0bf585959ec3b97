package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New("/tmp/taskmgr-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Dir != "/tmp/taskmgr-test" {
		t.Errorf("expected dir to be kept, got %q", cfg.Dir)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("expected default backend %q, got %q", BackendREST, cfg.Backend)
	}
	if cfg.REST.Table != "tasks" || cfg.MySQL.Table != "tasks" {
		t.Errorf("expected default table names, got %q / %q", cfg.REST.Table, cfg.MySQL.Table)
	}
	if cfg.Google.ListID != "@default" {
		t.Errorf("expected default list id, got %q", cfg.Google.ListID)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/xdg", AppName) {
		t.Errorf("expected XDG path, got %q", got)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `backend: MySQL
mysql:
  dsn: "user:pw@tcp(db:3306)/app"
  table: todo
logging:
  level: debug
  file: taskmgr.log
`)

	cfg, _ := New(dir)
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != BackendMySQL {
		t.Errorf("expected backend normalized to %q, got %q", BackendMySQL, cfg.Backend)
	}
	if cfg.MySQL.DSN != "user:pw@tcp(db:3306)/app" || cfg.MySQL.Table != "todo" {
		t.Errorf("unexpected mysql config: %+v", cfg.MySQL)
	}
	if cfg.REST.Table != "tasks" {
		t.Errorf("expected rest default to survive, got %q", cfg.REST.Table)
	}
	if cfg.LogPath() != filepath.Join(dir, "taskmgr.log") {
		t.Errorf("expected relative log path resolved against dir, got %q", cfg.LogPath())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `rest:
  url: https://file.example.com
  api_key: from-file
`)
	t.Setenv("TASKMGR_REST_API_KEY", "from-env")

	cfg, _ := New(dir)
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.REST.URL != "https://file.example.com" {
		t.Errorf("expected url from file, got %q", cfg.REST.URL)
	}
	if cfg.REST.APIKey != "from-env" {
		t.Errorf("expected api key from env, got %q", cfg.REST.APIKey)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, _ := New(t.TempDir())
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("expected default backend, got %q", cfg.Backend)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "backend: [unterminated\n")

	cfg, _ := New(dir)
	err := cfg.Load()
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), ConfigFile) {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"rest ok", func(c *Config) { c.REST.URL = "https://x"; c.REST.APIKey = "k" }, ""},
		{"rest missing url", func(c *Config) { c.REST.APIKey = "k" }, "rest.url"},
		{"rest missing key", func(c *Config) { c.REST.URL = "https://x" }, "rest.api_key"},
		{"mysql ok", func(c *Config) { c.Backend = BackendMySQL; c.MySQL.DSN = "dsn" }, ""},
		{"mysql missing dsn", func(c *Config) { c.Backend = BackendMySQL }, "mysql.dsn"},
		{"google missing client", func(c *Config) { c.Backend = BackendGoogleTasks }, "oauth_client.json"},
		{"unknown", func(c *Config) { c.Backend = "sqlite" }, "unknown backend: sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := New(dir)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_GoogleNeedsToken(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := New(dir)
	cfg.Backend = BackendGoogleTasks

	if err := os.WriteFile(cfg.OAuthClientPath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not logged in, got %v", err)
	}

	if err := os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("RemoveToken: %v", err)
	}
	if cfg.HasToken() {
		t.Error("expected token removed")
	}
}
