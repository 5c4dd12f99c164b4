package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refdata-io/valueset-backend/internal/platform/envutil"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
)

type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode)
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads the optional YAML file pointed at by VALUESET_CONFIG, then
// applies environment overrides on top. Environment always wins so
// deployments can patch a single value without editing the file.
func Load(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         "8000",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "valuesets",
			SSLMode: "disable",
		},
		Log: LogConfig{Mode: "development"},
	}

	if path := envutil.String("VALUESET_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("config file loaded", "path", path)
	}

	cfg.Server.Port = envutil.String("SERVER_PORT", cfg.Server.Port)
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.Log.Mode = envutil.String("LOG_MODE", cfg.Log.Mode)

	return cfg, nil
}
