package cli

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/logger"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

// stores bundles the repositories selected by STORE_DRIVER.  db is nil for
// the in-memory driver.
type stores struct {
	db           *sql.DB
	rooms        service.RoomStore
	reservations service.ReservationStore
}

func (s stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func openStores(cfg config.Config, log *zap.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		rooms, reservations := repository.NewMemoryStore()
		return stores{rooms: rooms, reservations: reservations}, nil
	default:
		db, err := openMySQL(cfg)
		if err != nil {
			return stores{}, err
		}
		return stores{
			db:           db,
			rooms:        repository.NewRoomRepo(db),
			reservations: repository.NewReservationRepo(db),
		}, nil
	}
}

func openMySQL(cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}
	return db, nil
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	log, err := logger.NewLogger(lc.Level, lc.Format, serviceName)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func logConfigOf(cfg config.Config) config.LogConfig {
	return config.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}
}
