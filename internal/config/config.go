package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Database backend identifiers.
const (
	DatabaseSQLite = "sqlite"
	DatabaseD1     = "d1"
)

// D1Config holds Cloudflare D1 credentials for the remote backend.
type D1Config struct {
	AccountID  string `yaml:"account_id"`
	DatabaseID string `yaml:"database_id"`
	APIToken   string `yaml:"api_token"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  int    `yaml:"smtp_port"`
}

// Config holds all application configuration. It is built once at startup and
// passed into constructors; nothing mutates it afterwards.
type Config struct {
	Database struct {
		Type       string   `yaml:"type"`
		SQLitePath string   `yaml:"sqlite_path"`
		D1         D1Config `yaml:"d1"`
	} `yaml:"database"`
	Email   EmailConfig `yaml:"email"`
	Monitor struct {
		DailyTime        string `yaml:"daily_time"`
		TestMode         bool   `yaml:"test_mode"`
		TestIntervalSecs int    `yaml:"test_interval_secs"`
	} `yaml:"monitor"`
	Web struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"web"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.Database.Type = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CF_ACCOUNT_ID"); v != "" {
		cfg.Database.D1.AccountID = v
	}
	if v := os.Getenv("CF_DATABASE_ID"); v != "" {
		cfg.Database.D1.DatabaseID = v
	}
	if v := os.Getenv("CF_API_TOKEN"); v != "" {
		cfg.Database.D1.APIToken = v
	}
	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		cfg.Email.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = p
		}
	}
	if v := os.Getenv("DAILY_TIME"); v != "" {
		cfg.Monitor.DailyTime = v
	}
	if v := os.Getenv("WEB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = p
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = DatabaseSQLite
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_sentry.db"
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Monitor.DailyTime == "" {
		cfg.Monitor.DailyTime = "09:30"
	}
	if cfg.Monitor.TestIntervalSecs == 0 {
		cfg.Monitor.TestIntervalSecs = 60
	}
	if cfg.Web.Host == "" {
		cfg.Web.Host = "127.0.0.1"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 5000
	}

	return cfg, nil
}

// Save writes the configuration back to disk. Used by the setup wizard.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks cross-field consistency before anything is wired up.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case DatabaseSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required")
		}
	case DatabaseD1:
		d1 := c.Database.D1
		if d1.AccountID == "" || d1.DatabaseID == "" || d1.APIToken == "" {
			return fmt.Errorf("database.d1 requires account_id, database_id and api_token")
		}
	default:
		return fmt.Errorf("database.type must be %q or %q, got %q", DatabaseSQLite, DatabaseD1, c.Database.Type)
	}

	if _, err := time.Parse("15:04", c.Monitor.DailyTime); err != nil {
		return fmt.Errorf("monitor.daily_time must be HH:MM: %w", err)
	}

	if c.Email.Enabled {
		if c.Email.Sender == "" || c.Email.Password == "" {
			return fmt.Errorf("email.sender and email.password are required when email is enabled")
		}
		if c.Email.Recipient == "" {
			return fmt.Errorf("email.recipient is required when email is enabled")
		}
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port out of range: %d", c.Web.Port)
	}
	return nil
}
