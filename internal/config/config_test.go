package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.Database.Type != DatabaseSQLite {
		t.Errorf("database type: got %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.SQLitePath != "data/stock_sentry.db" {
		t.Errorf("sqlite path: got %q", cfg.Database.SQLitePath)
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Errorf("smtp defaults: %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}
	if cfg.Monitor.DailyTime != "09:30" {
		t.Errorf("daily time: got %q", cfg.Monitor.DailyTime)
	}
	if cfg.Web.Host != "127.0.0.1" || cfg.Web.Port != 5000 {
		t.Errorf("web defaults: %s:%d", cfg.Web.Host, cfg.Web.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  type: d1
  d1:
    account_id: acct
    database_id: db
    api_token: tok
monitor:
  daily_time: "16:00"
web:
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Type != DatabaseD1 || cfg.Database.D1.AccountID != "acct" {
		t.Errorf("d1 settings: %+v", cfg.Database)
	}
	if cfg.Monitor.DailyTime != "16:00" {
		t.Errorf("daily time: got %q", cfg.Monitor.DailyTime)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("port: got %d", cfg.Web.Port)
	}
	// Unset fields still pick up defaults.
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("smtp port default: got %d", cfg.Email.SMTPPort)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  type: sqlite\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("DB_TYPE", "d1")
	t.Setenv("CF_ACCOUNT_ID", "env-acct")
	t.Setenv("DAILY_TIME", "10:15")
	t.Setenv("SMTP_PORT", "465")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Type != DatabaseD1 {
		t.Errorf("env must override file: got %q", cfg.Database.Type)
	}
	if cfg.Database.D1.AccountID != "env-acct" {
		t.Errorf("account id: got %q", cfg.Database.D1.AccountID)
	}
	if cfg.Monitor.DailyTime != "10:15" {
		t.Errorf("daily time: got %q", cfg.Monitor.DailyTime)
	}
	if cfg.Email.SMTPPort != 465 {
		t.Errorf("smtp port: got %d", cfg.Email.SMTPPort)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"unknown db type", func(c *Config) { c.Database.Type = "postgres" }, true},
		{"d1 without credentials", func(c *Config) { c.Database.Type = DatabaseD1 }, true},
		{"d1 with credentials", func(c *Config) {
			c.Database.Type = DatabaseD1
			c.Database.D1 = D1Config{AccountID: "a", DatabaseID: "b", APIToken: "c"}
		}, false},
		{"bad daily time", func(c *Config) { c.Monitor.DailyTime = "9:3pm" }, true},
		{"email enabled without sender", func(c *Config) { c.Email.Enabled = true }, true},
		{"email enabled complete", func(c *Config) {
			c.Email.Enabled = true
			c.Email.Sender = "a@b.c"
			c.Email.Password = "pw"
			c.Email.Recipient = "d@e.f"
		}, false},
		{"port out of range", func(c *Config) { c.Web.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
	cfg.Email.Enabled = true
	cfg.Email.Sender = "me@example.com"
	cfg.Email.Password = "secret"
	cfg.Email.Recipient = "you@example.com"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions: got %o, want 0600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Email != cfg.Email {
		t.Errorf("email settings did not survive the round trip: %+v", got.Email)
	}
}
