package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/logger"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// NewWorkerCmd consumes reservation change events and appends them to the
// audit log file.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume reservation events into the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(config.LoadLogConfig())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			qCfg := config.LoadQueueConfig()
			if err := os.MkdirAll(filepath.Dir(qCfg.LogPath), 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			audit, err := logger.NewFileLogger(qCfg.LogPath)
			if err != nil {
				return fmt.Errorf("open audit log: %w", err)
			}
			defer func() { _ = audit.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("audit worker started", zap.String("queue", qCfg.QueueName), zap.String("log_path", qCfg.LogPath))
			err = queue.StartAuditConsumer(ctx, qCfg, log.Named("worker"), audit)
			if errors.Is(err, context.Canceled) {
				log.Info("audit worker stopped")
				return nil
			}
			return err
		},
	}
}
