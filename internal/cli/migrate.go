package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.StoreDriver != config.StoreMySQL {
				return errors.New("migrate requires STORE_DRIVER=mysql")
			}
			log, err := newLogger(logConfigOf(cfg))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := openMySQL(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(cmd.Context(), db, log)
		},
	}
}
