package server

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/config"
)

// Seed bootstraps a fresh install: the first admin account on an empty
// users table and a couple of demo studios on an empty studios table.
// Idempotent: each part does nothing once any row exists.
func Seed(ctx context.Context, logger *slog.Logger, cfg *config.Config, store Store) error {
	if err := seedAdmin(ctx, logger, cfg, store); err != nil {
		return err
	}
	return seedStudios(ctx, logger, store)
}

// seedAdmin is skipped with a warning when no seed password is configured.
func seedAdmin(ctx context.Context, logger *slog.Logger, cfg *config.Config, store Store) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.SeedAdminPassword == "" {
		logger.Warn("users table is empty but SEED_ADMIN_PASSWORD is not set; skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u, err := store.CreateUser(ctx, cfg.SeedAdminEmail, string(hash), "Administrator", attendance.RoleAdmin)
	if err != nil {
		return err
	}

	logger.Info("seeded initial admin user", "email", u.Email)
	return nil
}

func seedStudios(ctx context.Context, logger *slog.Logger, store Store) error {
	existing, err := store.ListStudios(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, s := range demoStudios() {
		if _, err := store.CreateStudio(ctx, s); err != nil {
			return err
		}
	}

	logger.Info("seeded demo studios")
	return nil
}

func demoStudios() []attendance.Studio {
	lat, lon := 40.7128, -74.0060
	return []attendance.Studio{
		{
			Name:      "Downtown Studio",
			Tagline:   "The original space",
			Latitude:  &lat,
			Longitude: &lon,
		},
		{
			Name:    "Pop-up Studio",
			Tagline: "Location to be announced",
		},
	}
}
