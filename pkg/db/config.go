package db

import (
	"os"
	"strconv"

	"github.com/go-faster/errors"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoadPostgresConfig reads DB_* variables. Port defaults to 5432 and
// sslmode to "disable".
func LoadPostgresConfig() (PostgresConfig, error) {
	cfg := PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     5432,
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if raw := os.Getenv("DB_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return PostgresConfig{}, errors.Wrap(err, "parse DB_PORT")
		}
		cfg.Port = port
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.Host == "" || cfg.DBName == "" {
		return PostgresConfig{}, errors.New("DB_HOST and DB_NAME are required")
	}
	return cfg, nil
}
