package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Environment string
	DB          DBConfig
	JWT         JWTConfig
	Log         LogConfig
	S3          S3Config
	Export      ExportConfig
	Email       EmailConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify caller tokens.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Leeway time.Duration `mapstructure:"leeway"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// S3Config holds the object storage used to archive report exports.
// An empty Bucket disables archiving.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether report exports should be archived.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	Format    string `mapstructure:"format"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// EmailConfig holds notification delivery settings. Provider is "ses" or "noop".
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Enabled reports whether notifications are delivered through SES.
func (e *EmailConfig) Enabled() bool {
	return e.Provider == "ses"
}

// Load reads configuration from environment variables with the COBRANCA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COBRANCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cobranca")
	v.SetDefault("db.password", "cobranca_secret")
	v.SetDefault("db.name", "cobranca_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "cobranca")
	v.SetDefault("jwt.leeway", "30s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	// S3 defaults
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Export defaults
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.key_prefix", "reports")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "sa-east-1")
	v.SetDefault("email.from_address", "noreply@cobranca.local")
	v.SetDefault("email.from_name", "Cobranca")

	envBindings := map[string]string{
		"environment":        "COBRANCA_ENVIRONMENT",
		"db.host":            "COBRANCA_DB_HOST",
		"db.port":            "COBRANCA_DB_PORT",
		"db.user":            "COBRANCA_DB_USER",
		"db.password":        "COBRANCA_DB_PASSWORD",
		"db.name":            "COBRANCA_DB_NAME",
		"db.sslmode":         "COBRANCA_DB_SSLMODE",
		"db.max_open":        "COBRANCA_DB_MAX_OPEN",
		"db.max_idle":        "COBRANCA_DB_MAX_IDLE",
		"jwt.secret":         "COBRANCA_JWT_SECRET",
		"jwt.issuer":         "COBRANCA_JWT_ISSUER",
		"jwt.leeway":         "COBRANCA_JWT_LEEWAY",
		"log.level":          "COBRANCA_LOG_LEVEL",
		"log.format":         "COBRANCA_LOG_FORMAT",
		"log.output":         "COBRANCA_LOG_OUTPUT",
		"s3.region":          "COBRANCA_S3_REGION",
		"s3.bucket":          "COBRANCA_S3_BUCKET",
		"s3.endpoint":        "COBRANCA_S3_ENDPOINT",
		"s3.access_key":      "COBRANCA_S3_ACCESS_KEY",
		"s3.secret_key":      "COBRANCA_S3_SECRET_KEY",
		"s3.presign_expiry":  "COBRANCA_S3_PRESIGN_EXPIRY",
		"export.format":      "COBRANCA_EXPORT_FORMAT",
		"export.key_prefix":  "COBRANCA_EXPORT_KEY_PREFIX",
		"email.provider":     "COBRANCA_EMAIL_PROVIDER",
		"email.region":       "COBRANCA_EMAIL_REGION",
		"email.from_address": "COBRANCA_EMAIL_FROM_ADDRESS",
		"email.from_name":    "COBRANCA_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{
		Environment: v.GetString("environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
		Leeway: v.GetDuration("jwt.leeway"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Export = ExportConfig{
		Format:    strings.ToLower(v.GetString("export.format")),
		KeyPrefix: strings.Trim(v.GetString("export.key_prefix"), "/"),
	}
	cfg.Email = EmailConfig{
		Provider:    strings.ToLower(v.GetString("email.provider")),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	if cfg.Export.Format != "csv" && cfg.Export.Format != "xlsx" {
		return nil, fmt.Errorf("config: unsupported export format %q", cfg.Export.Format)
	}

	if cfg.Email.Provider != "ses" && cfg.Email.Provider != "noop" {
		return nil, fmt.Errorf("config: unsupported email provider %q", cfg.Email.Provider)
	}

	return cfg, nil
}
