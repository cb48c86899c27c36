package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Import   ImportConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	BodyLimit   string
	CORSOrigins []string
}

type AuthConfig struct {
	// UserHeader carries the id of the user already authenticated upstream.
	UserHeader string
}

type DatabaseConfig struct {
	Driver      string
	URL         string
	AutoMigrate bool
}

type ImportConfig struct {
	Workers         int
	PollInterval    time.Duration
	JobRetention    time.Duration
	MaxRetainedJobs int
	// MaxUploadSize caps a backup in bytes, for uploads and CLI files alike.
	MaxUploadSize   int64
}

type LogConfig struct {
	Level slog.Level
	File  string
}

const maxImportWorkers = 10

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit", "25M")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("auth.user_header", "X-User-ID")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("import.workers", 2)
	v.SetDefault("import.poll_interval", "500ms")
	v.SetDefault("import.job_retention", "24h")
	v.SetDefault("import.max_retained_jobs", 500)
	v.SetDefault("import.max_upload_size", 64<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads config.yaml from configPath when present, then applies
// environment overrides such as DATABASE_URL or IMPORT_WORKERS.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			BodyLimit:   v.GetString("server.body_limit"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		Auth: AuthConfig{
			UserHeader: v.GetString("auth.user_header"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("database.driver")),
			URL:         v.GetString("database.url"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Import: ImportConfig{
			Workers:         clampWorkers(v.GetInt("import.workers")),
			PollInterval:    v.GetDuration("import.poll_interval"),
			JobRetention:    v.GetDuration("import.job_retention"),
			MaxRetainedJobs: v.GetInt("import.max_retained_jobs"),
			MaxUploadSize:   v.GetInt64("import.max_upload_size"),
		},
		Log: LogConfig{
			Level: parseLogLevel(v.GetString("log.level")),
			File:  v.GetString("log.file"),
		},
	}
}

func clampWorkers(workers int) int {
	if workers <= 0 {
		return 2
	}
	if workers > maxImportWorkers {
		return maxImportWorkers
	}
	return workers
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
