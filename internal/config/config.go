package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/attendance.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:""`

	// Studio matching policy.
	MatchRadiusM float64 `env:"MATCH_RADIUS_M" envDefault:"500"`

	// Device acquisition options, mirrored to what the client is asked to
	// run its geolocation request with.
	LocationHighAccuracy bool          `env:"LOCATION_HIGH_ACCURACY" envDefault:"true"`
	LocationTimeout      time.Duration `env:"LOCATION_TIMEOUT" envDefault:"10s"`
	LocationMaxAge       time.Duration `env:"LOCATION_MAX_AGE" envDefault:"5m"`

	// AutoDetectDelay is the wait before the one-time automatic detection
	// after the studio list loads with permission already granted.
	AutoDetectDelay time.Duration `env:"AUTO_DETECT_DELAY" envDefault:"500ms"`

	// GateFallbackTimeout bounds gate evaluation (role lookup plus
	// controller state). When exceeded the gate logs a warning and
	// fails open.
	GateFallbackTimeout time.Duration `env:"GATE_FALLBACK_TIMEOUT" envDefault:"3s"`

	// ControllerIdleTimeout evicts a session's location controller after
	// this long without use. Zero disables eviction.
	ControllerIdleTimeout time.Duration `env:"CONTROLLER_IDLE_TIMEOUT" envDefault:"30m"`

	// First-boot seeding. The admin user is created only when the users
	// table is empty and a password is configured.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@studio.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:""`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
