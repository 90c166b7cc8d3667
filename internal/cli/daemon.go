package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"groupsync/internal/service/reconcile"
)

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run reconciliation on a schedule until interrupted",
		Long:  "Run an immediate reconciliation pass, then repeat on the configured cron schedule. Overlapping runs are serialized.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			if schedule != "" {
				cfg.Schedule = schedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			adminDB, permsDB, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStores(adminDB, permsDB)

			svc := newService(adminDB, permsDB, cfg, logger)
			runner := &serialRunner{svc: svc, logger: logger}

			// First pass up front so a misconfigured daemon fails fast.
			if _, err := svc.Run(ctx); err != nil {
				return err
			}

			c := cron.New()
			if _, err := c.AddFunc(cfg.Schedule, func() { runner.run(ctx) }); err != nil {
				return err
			}
			c.Start()
			logger.Info("daemon started", "schedule", cfg.Schedule)

			<-ctx.Done()
			logger.Info("shutting down")
			stopCtx := c.Stop()
			<-stopCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule override (e.g. \"@every 5m\")")

	return cmd
}

// serialRunner guards against overlapping reconciliation runs. Concurrent
// runs against the same stores are not safe; a tick that fires while a run
// is still in flight is skipped.
type serialRunner struct {
	svc    *reconcile.Service
	logger *slog.Logger
	mu     sync.Mutex
}

func (r *serialRunner) run(ctx context.Context) {
	if !r.mu.TryLock() {
		r.logger.Warn("previous reconciliation still running, skipping tick")
		return
	}
	defer r.mu.Unlock()

	if _, err := r.svc.Run(ctx); err != nil {
		r.logger.Error("reconciliation failed", "error", err)
	}
}
