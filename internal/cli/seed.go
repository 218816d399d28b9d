package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/service"
)

// NewSeedCmd inserts the default room list into an empty catalog.  Existing
// rooms are never touched.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default rooms when the catalog is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.StoreDriver != config.StoreMySQL {
				return errors.New("seed requires STORE_DRIVER=mysql; use serve --seed with the memory store")
			}
			log, err := newLogger(logConfigOf(cfg))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := openStores(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			names := cfg.SeedRooms
			if len(names) == 0 {
				names = service.DefaultSeedRooms
			}
			n, err := service.NewRoomService(st.rooms, log).Seed(cmd.Context(), names)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("seed finished", zap.Int("added", n))
			return nil
		},
	}
}
