// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath       = "config.toml"
	DefaultHTTPAddr         = ":8080"
	DefaultJWTExpiresIn     = "24h"
	DefaultPGHost           = "127.0.0.1"
	DefaultPGPort           = 5432
	DefaultPGUser           = "postgres"
	DefaultPGDatabase       = "kinect"
	DefaultPGSSLMode        = "disable"
	DefaultMailProvider     = "log"
	DefaultSMTPPort         = 587
	DefaultReminderDays     = 90
	DefaultMaxPerEmail      = 5
	DefaultDispatchDelayMS  = 1000
	DefaultSendTimeoutSec   = 30
	DefaultDailySchedule    = "0 9 * * *"
	DefaultWeeklySchedule   = "0 9 * * MON"
	DefaultMonthlySchedule  = "0 9 1 * *"
	DefaultBestFriendDays   = 30
	DefaultFriendDays       = 90
	DefaultAcquaintanceDays = 180
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Mail      MailConfig      `toml:"mail"`
	Reminders RemindersConfig `toml:"reminders"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds JWT secret and token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// MailConfig selects and configures the outbound mail transport.
// Provider is one of "smtp", "mailgun", or "log" (no delivery, log only).
type MailConfig struct {
	Provider string `toml:"provider"`
	From     string `toml:"from"`

	SMTPHost     string `toml:"smtp_host"`
	SMTPPort     int    `toml:"smtp_port"`
	SMTPUser     string `toml:"smtp_user"`
	SMTPPassword string `toml:"smtp_password"`

	MailgunDomain string `toml:"mailgun_domain"`
	MailgunAPIKey string `toml:"mailgun_api_key"`
}

// RemindersConfig tunes the reminder engine and its dispatch cadences.
type RemindersConfig struct {
	// DefaultDays is the fallback threshold when a contact has neither a
	// custom value nor a list that defines one.
	DefaultDays int `toml:"default_days"`
	// UseCategoryDefaults switches the fallback to the per-category table below.
	UseCategoryDefaults bool `toml:"use_category_defaults"`
	BestFriendDays      int  `toml:"best_friend_days"`
	FriendDays          int  `toml:"friend_days"`
	AcquaintanceDays    int  `toml:"acquaintance_days"`

	MaxContactsPerEmail int `toml:"max_contacts_per_email"`
	DispatchDelayMS     int `toml:"dispatch_delay_ms"`
	SendTimeoutSec      int `toml:"send_timeout_sec"`

	DailySchedule   string `toml:"daily_schedule"`
	WeeklySchedule  string `toml:"weekly_schedule"`
	MonthlySchedule string `toml:"monthly_schedule"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Mail: MailConfig{
			Provider: DefaultMailProvider,
			From:     "reminders@kinect.local",
			SMTPPort: DefaultSMTPPort,
		},
		Reminders: RemindersConfig{
			DefaultDays:         DefaultReminderDays,
			BestFriendDays:      DefaultBestFriendDays,
			FriendDays:          DefaultFriendDays,
			AcquaintanceDays:    DefaultAcquaintanceDays,
			MaxContactsPerEmail: DefaultMaxPerEmail,
			DispatchDelayMS:     DefaultDispatchDelayMS,
			SendTimeoutSec:      DefaultSendTimeoutSec,
			DailySchedule:       DefaultDailySchedule,
			WeeklySchedule:      DefaultWeeklySchedule,
			MonthlySchedule:     DefaultMonthlySchedule,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
