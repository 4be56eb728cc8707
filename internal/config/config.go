package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Database struct {
		Driver       string `env:"DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres mysql"`
		DSN          string `env:"DSN" envDefault:"timekeeper.db" validate:"required"`
		MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10" validate:"gte=1"`
	} `envPrefix:"DATABASE_"`
	Log struct {
		Level  string `env:"LEVEL" envDefault:"info"`
		Format string `env:"FORMAT" envDefault:"text" validate:"oneof=text json"`
	} `envPrefix:"LOG_"`
	Report struct {
		Zone          string `env:"ZONE" envDefault:"UTC"`
		LateThreshold string `env:"LATE_THRESHOLD" envDefault:"09:05"`
	} `envPrefix:"REPORT_"`
	CalendarPath string `env:"CALENDAR_PATH"`
}

var instance *Config
var once sync.Once

// Get returns the process-wide configuration, loading it on first use.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.LateThreshold(); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Location resolves REPORT_ZONE.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Report.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_ZONE %q: %w", c.Report.Zone, err)
	}
	return loc, nil
}

// LateThreshold parses REPORT_LATE_THRESHOLD as a time of day.
func (c *Config) LateThreshold() (time.Duration, error) {
	t, err := time.Parse("15:04", c.Report.LateThreshold)
	if err != nil {
		return 0, fmt.Errorf("invalid REPORT_LATE_THRESHOLD %q: %w", c.Report.LateThreshold, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// NewLogger builds the application logger from the LOG_* settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
