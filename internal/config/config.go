// Package config reads the storefront's runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/models"
)

type Config struct {
	HTTPAddr string

	// Store is the restaurant's location, the origin of every delivery.
	Store    models.Coordinate
	Location *time.Location

	GeocoderURL       string
	GeocoderUserAgent string
	GeocodeCacheTTL   time.Duration

	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string
	EmailQueue       string
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		GeocoderURL:       getenv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getenv("GEOCODER_USER_AGENT", "restaurant-storefront/1.0"),
		GeocodeCacheTTL:   24 * time.Hour,
		RabbitMQHost:      os.Getenv("RABBITMQ_HOST"),
		RabbitMQPort:      getenv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:      getenv("RABBITMQ_USER", "guest"),
		RabbitMQPassword:  getenv("RABBITMQ_PASSWORD", "guest"),
		EmailQueue:        getenv("EMAIL_QUEUE", "email_jobs"),
	}

	var err error
	if cfg.Store.Lat, err = parseFloatEnv("STORE_LAT"); err != nil {
		return Config{}, err
	}
	if cfg.Store.Lng, err = parseFloatEnv("STORE_LNG"); err != nil {
		return Config{}, err
	}
	if !cfg.Store.Valid() {
		return Config{}, errors.Errorf("store coordinate out of range: %+v", cfg.Store)
	}

	if raw := os.Getenv("GEOCODE_CACHE_TTL"); raw != "" {
		if cfg.GeocodeCacheTTL, err = time.ParseDuration(raw); err != nil {
			return Config{}, errors.Wrap(err, "parse GEOCODE_CACHE_TTL")
		}
	}

	if cfg.Location, err = time.LoadLocation(getenv("STORE_TIMEZONE", "America/Sao_Paulo")); err != nil {
		return Config{}, errors.Wrap(err, "load STORE_TIMEZONE")
	}

	return cfg, nil
}

// RabbitMQURL returns the AMQP URL, or "" when no broker host is configured.
func (c Config) RabbitMQURL() string {
	if c.RabbitMQHost == "" {
		return ""
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitMQUser, c.RabbitMQPassword, c.RabbitMQHost, c.RabbitMQPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseFloatEnv(key string) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, errors.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return v, nil
}
