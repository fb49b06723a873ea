package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"github.com/JokoCodes/service-scheduler/config"
)

const migrationSource = "file://migrations/postgres"

func migrationDBName(cfg *config.Config) string {
	name := cfg.DB.Postgres.Write.Name
	if cfg.DB.Postgres.Prefix != "" {
		return cfg.DB.Postgres.Prefix + name
	}

	return name
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&x-migrations-table=%s",
		cfg.DB.Postgres.Write.Username,
		cfg.DB.Postgres.Write.Password,
		net.JoinHostPort(cfg.DB.Postgres.Write.Host, cfg.DB.Postgres.Write.Port),
		migrationDBName(cfg),
		cfg.DB.Postgres.Write.SSLMode,
		cfg.DB.Postgres.MigrationTable,
	)

	mig, err := migrate.New(migrationSource, connectionString)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action string) error {
	mig, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer mig.Close()

	var run func() error

	switch action {
	case "up":
		run = mig.Up
	case "step-up":
		run = func() error { return mig.Steps(1) }
	case "down":
		run = func() error { return mig.Steps(-1) }
	case "drop":
		run = mig.Down
	default:
		return fmt.Errorf("unknown migration action: %s", action)
	}

	if err := run(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration action %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration completed")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, "up")
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, "step-up")
}

func Down(cfg *config.Config) error {
	return Runner(cfg, "down")
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, "drop")
}
