package app

import (
	"context"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, cfg *config.Config, command string, args ...string) error {
	db, err := postgres.Connect(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return postgres.Migrate(db, migrations.MigrationFiles, command, args...)
}
