package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Report   ReportConfig   `mapstructure:"report"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig points at the embedded SQLite file.
type DatabaseConfig struct {
	Path            string `mapstructure:"path"`
	BusyTimeoutMS   int    `mapstructure:"busy_timeout_ms"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the go-sqlite3 connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on", c.Path, c.BusyTimeoutMS)
}

// RedisConfig optional redis used for admin session state.
// An empty Addr disables redis and the in-process store is used.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AdminConfig shared access phrase and session token settings.
type AdminConfig struct {
	AccessPhrase     string        `mapstructure:"access_phrase"`
	AccessPhraseHash string        `mapstructure:"access_phrase_hash"` // bcrypt, takes precedence
	JWTSecret        string        `mapstructure:"jwt_secret"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	LoginRateLimit   int           `mapstructure:"login_rate_limit"`
	LoginRateWindow  time.Duration `mapstructure:"login_rate_window"`
}

// ReportConfig form options and reporting rules.
type ReportConfig struct {
	Timezone          string   `mapstructure:"timezone"`
	PersonalIDMaxLen  int      `mapstructure:"personal_id_max_len"`
	ExpectedHeadcount int      `mapstructure:"expected_headcount"`
	Supervisors       []string `mapstructure:"supervisors"`
	WorkLocations     []string `mapstructure:"work_locations"`
}

// Location resolves the configured time zone.
func (c *ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LogConfig logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.
// Precedence: environment > config file > defaults. A .env file in the working
// directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.path", "reports.db")
	v.SetDefault("db.busy_timeout_ms", 5000)
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("admin.access_phrase", "")
	v.SetDefault("admin.access_phrase_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.session_ttl", "30m")
	v.SetDefault("admin.login_rate_limit", 10)
	v.SetDefault("admin.login_rate_window", "1m")

	v.SetDefault("report.timezone", "Asia/Jerusalem")
	v.SetDefault("report.personal_id_max_len", 4)
	v.SetDefault("report.expected_headcount", 95)
	v.SetDefault("report.supervisors", []string{})
	v.SetDefault("report.work_locations", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("SHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// legacy deployments keep the phrase in PASSWORD
	if cfg.Admin.AccessPhrase == "" && cfg.Admin.AccessPhraseHash == "" {
		cfg.Admin.AccessPhrase = os.Getenv("PASSWORD")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Admin.AccessPhrase == "" && c.Admin.AccessPhraseHash == "" {
		return fmt.Errorf("config: admin.access_phrase or admin.access_phrase_hash is required")
	}
	if len(c.Admin.JWTSecret) < 16 {
		return fmt.Errorf("config: admin.jwt_secret must be at least 16 characters")
	}
	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("config: admin.session_ttl must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: db.path is required")
	}
	if c.Report.PersonalIDMaxLen <= 0 {
		return fmt.Errorf("config: report.personal_id_max_len must be positive")
	}
	if _, err := c.Report.Location(); err != nil {
		return fmt.Errorf("config: unknown report.timezone %q: %w", c.Report.Timezone, err)
	}
	return nil
}
