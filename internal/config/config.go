package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Archive    ArchiveConfig
	EDB        EDBConfig
	Filesystem FilesystemConfig
	Monitor    MonitorConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Queue    string
}

type ArchiveConfig struct {
	URL     string
	Timeout time.Duration
}

type EDBConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type FilesystemConfig struct {
	// ArchiveRoot is the read-only tree holding raw science files, laid
	// out per program (jw<PPPPP>/<filename>).
	ArchiveRoot string
	// OutputRoot receives per-monitor working directories.
	OutputRoot string
}

type MonitorConfig struct {
	// ApertureConcurrency bounds parallel aperture processing in a run.
	ApertureConcurrency int
	// PipelineCommand is the executable invoked to run the stage-1
	// calibration pipeline on an uncalibrated exposure.
	PipelineCommand string
	PipelineTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "quicklook")
	v.SetDefault("DB_PASSWORD", "quicklook")
	v.SetDefault("DB_NAME", "quicklook")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_QUEUE", "quicklook:monitor_jobs")

	v.SetDefault("ARCHIVE_URL", "https://mast.stsci.edu")
	v.SetDefault("ARCHIVE_TIMEOUT", "60s")

	v.SetDefault("EDB_URL", "https://mast.stsci.edu/jwst/api/v0.1/edb")
	v.SetDefault("EDB_TOKEN", "")
	v.SetDefault("EDB_TIMEOUT", "60s")

	v.SetDefault("FS_ARCHIVE_ROOT", "/data/archive")
	v.SetDefault("FS_OUTPUT_ROOT", "/data/outputs")

	v.SetDefault("MONITOR_APERTURE_CONCURRENCY", 4)
	v.SetDefault("MONITOR_PIPELINE_COMMAND", "calwebb_detector1")
	v.SetDefault("MONITOR_PIPELINE_TIMEOUT", "30m")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Queue:    v.GetString("REDIS_QUEUE"),
		},
		Archive: ArchiveConfig{
			URL:     v.GetString("ARCHIVE_URL"),
			Timeout: parseDuration(v.GetString("ARCHIVE_TIMEOUT"), 60*time.Second),
		},
		EDB: EDBConfig{
			URL:     v.GetString("EDB_URL"),
			Token:   v.GetString("EDB_TOKEN"),
			Timeout: parseDuration(v.GetString("EDB_TIMEOUT"), 60*time.Second),
		},
		Filesystem: FilesystemConfig{
			ArchiveRoot: v.GetString("FS_ARCHIVE_ROOT"),
			OutputRoot:  v.GetString("FS_OUTPUT_ROOT"),
		},
		Monitor: MonitorConfig{
			ApertureConcurrency: v.GetInt("MONITOR_APERTURE_CONCURRENCY"),
			PipelineCommand:     v.GetString("MONITOR_PIPELINE_COMMAND"),
			PipelineTimeout:     parseDuration(v.GetString("MONITOR_PIPELINE_TIMEOUT"), 30*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
