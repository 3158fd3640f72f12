package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
store:
  backend: firebase
  base_url: "https://demo.firebaseio.com"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Errorf("workers = %d, want default 8", cfg.Bot.Workers)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("redis ttl = %s, want 1h", cfg.Redis.TTL)
	}
	if cfg.ImageHost.Endpoint == "" {
		t.Error("image host endpoint default missing")
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried")
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	path := writeConfig(t, `
store:
  backend: firebase
  base_url: "https://demo.firebaseio.com"
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestLoadConfigTokenFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:env")
	path := writeConfig(t, `
store:
  backend: firebase
  base_url: "https://demo.firebaseio.com"
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bot.Token != "999:env" {
		t.Fatalf("token = %q", cfg.Bot.Token)
	}
}

func TestLoadConfigPostgresNeedsURL(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	path := writeConfig(t, `
store:
  backend: postgres
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for missing database.url")
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	path := writeConfig(t, `
store:
  backend: dynamo
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
