package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/config"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/db"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

// NewMigrateCmd creates the migrate subcommand and its up, down and status
// children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back or list the embedded PostgreSQL migrations.`,
	}
	config.RegisterMigrateFlags(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator) error {
				applied, err := m.Up(ctx)
				if err != nil {
					return oops.Code("MIGRATION_FAILED").With("operation", "apply migrations").Wrap(err)
				}
				cmd.Printf("Applied %d migration(s)\n", applied)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator) error {
				if err := m.Down(ctx); err != nil {
					return oops.Code("MIGRATION_FAILED").With("operation", "roll back migration").Wrap(err)
				}
				cmd.Println("Rolled back one migration")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return oops.Code("MIGRATION_STATUS_FAILED").With("operation", "read migration status").Wrap(err)
				}
				for _, s := range statuses {
					cmd.Printf("%-6d %-8s %s\n", s.Version, statusLabel(s.Applied), s.Name)
				}
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(context.Context, *db.Migrator) error) error {
	cfg, err := config.LoadMigrateConfig(configFile, cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}

	log, err := logger.New(cfg.LogDir, "auth-migrate", cfg.LogLevel)
	if err != nil {
		return oops.Code("LOGGER_INIT_FAILED").Wrap(err)
	}
	defer func() { _ = log.Close() }()

	migrator, err := db.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open migrator").Wrap(err)
	}
	defer func() { _ = migrator.Close() }()

	return fn(cmd.Context(), migrator)
}

func statusLabel(applied bool) string {
	if applied {
		return "applied"
	}
	return "pending"
}
