package cli

import (
	"fmt"

	"github.com/gdugdh24/meetmatch-backend/internal/config"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/database"
	mongostore "github.com/gdugdh24/meetmatch-backend/internal/repository/mongo"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/postgres"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema or the mongo indexes of the configured store",
		RunE:  runMigrate,
	}

	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)
	defer log.Sync()
	ctx := cmd.Context()

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := database.NewMongoClient(ctx, &cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		if err := mongostore.NewStore(db).EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	default:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("store migrated", "driver", cfg.Store.Driver)
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
