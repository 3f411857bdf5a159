package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"teachjournal/internal/amqp"
	"teachjournal/internal/config"
	applog "teachjournal/internal/log"
	"teachjournal/internal/worker"
)

const statsInterval = 5 * time.Minute

func newWorkerCommand() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume entry events and audit stored durations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunWorker(cmd.Context(), func(cfg *config.Config) {
				if cmd.Flags().Changed("repair") {
					cfg.AuditRepair = repair
				}
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "re-save entries whose stored duration has drifted")
	return cmd
}

func workerConfig() (*config.Config, error) {
	cfg, err := LoadStorageConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DataBackend == "memory" {
		return nil, errors.New("the worker needs a persistent backend, got memory")
	}
	if cfg.AMQPURL == "" {
		return nil, errors.New("AMQP_URL is required for the worker")
	}
	return cfg, nil
}

// RunWorker runs the audit worker until SIGINT or SIGTERM. override may
// adjust the loaded configuration before anything starts.
func RunWorker(parent context.Context, override func(*config.Config)) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := workerConfig()
	if err != nil {
		return err
	}
	if override != nil {
		override(cfg)
	}

	logger := SetupLogger(cfg.SlogLevel()).WithComponent(applog.ComponentWorker)
	logger.Info("Starting journal worker", "repair", cfg.AuditRepair)

	store, closeStore, err := openStore(parent, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	ctx, done := GracefulShutdown(parent, logger, shutdownTimeout, nil)

	auditWorker := worker.NewAuditWorker(store, cfg.AuditRepair)

	logger.Info("Performing startup audit...")
	if err := auditWorker.StartupAuditCheck(ctx); err != nil {
		// keep consuming, the next events still get audited
		logger.Error("Startup audit failed", "error", err)
	}

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeEntryEvents(ctx, auditWorker.HandleEntryEvent)
	}()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			logStats(logger, auditWorker.Stats())
			return nil
		case err := <-consumeErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("message consumption failed: %w", err)
			}
			<-ctx.Done()
		case <-ticker.C:
			logStats(logger, auditWorker.Stats())
		}
	}
}

func logStats(logger *applog.Logger, s worker.AuditStats) {
	logger.Info("Audit stats",
		"processed", s.Processed,
		"mismatched", s.Mismatched,
		"zero_length", s.ZeroLength,
		"repaired", s.Repaired,
		"missing", s.Missing)
}
