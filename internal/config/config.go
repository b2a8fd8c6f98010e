// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries every tunable the process consumes. Values come from the
// environment with shipped defaults.
type Config struct {
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"campushub.db"`

	FinePerDay     float64 `env:"FINE_PER_DAY" envDefault:"1"`
	LoanPeriodDays int     `env:"LOAN_PERIOD_DAYS" envDefault:"14"`

	MaxBooksStudent int `env:"MAX_BOOKS_STUDENT" envDefault:"5"`
	MaxBooksFaculty int `env:"MAX_BOOKS_FACULTY" envDefault:"10"`
	MaxBooksStaff   int `env:"MAX_BOOKS_STAFF" envDefault:"3"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"campushub"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
