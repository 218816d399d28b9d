package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func NewServeCmd() *cobra.Command {
	var migrate, seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate, seed)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving (mysql only)")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the default rooms when the catalog is empty")
	return cmd
}

func runServe(ctx context.Context, migrate, seed bool) error {
	cfg := config.Load()
	log, err := newLogger(logConfigOf(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if migrate && st.db != nil {
		if err := database.Migrate(ctx, st.db, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled", zap.String("addr", config.RedisAddr()))
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	qCfg := config.LoadQueueConfig()

	var listeners []service.ChangeListener
	if inv := middleware.NewCacheInvalidator(cacheCfg, rdb, log); inv != nil {
		listeners = append(listeners, inv)
	}
	if qCfg.Enabled {
		pub := queue.NewPublisher(qCfg, log)
		pubCtx, stopPub := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			pub.Run(pubCtx)
		}()
		// Runs after e.Shutdown so events from in-flight requests are flushed.
		defer func() {
			stopPub()
			<-done
		}()
		listeners = append(listeners, pub)
		log.Info("publishing reservation events", zap.String("queue", qCfg.QueueName))
	}

	rooms := service.NewRoomService(st.rooms, log)
	reservations := service.NewReservationService(st.rooms, st.reservations, service.NewClock(loc), log, listeners...)

	if seed {
		names := cfg.SeedRooms
		if len(names) == 0 {
			names = service.DefaultSeedRooms
		}
		n, err := rooms.Seed(ctx, names)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info("seeded rooms", zap.Int("added", n))
	}

	tmpl, err := handler.ParseTemplates()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = tmpl
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins}))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(rlCfg, rdb, log))

	router.RegisterRoutes(e, st.db, rdb)
	router.RegisterReservations(e, handler.NewReservationHandler(reservations, log), middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterRooms(e, handler.NewRoomHandler(rooms, log))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
			zap.String("timezone", loc.String()))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
