package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lotoqueue/internal/config"
	"lotoqueue/internal/ledger"
	"lotoqueue/internal/logging"
	"lotoqueue/internal/notifications"
	"lotoqueue/internal/publisher"
	"lotoqueue/internal/runner"
	"lotoqueue/internal/services"
	"lotoqueue/internal/sheets"
	"lotoqueue/internal/stamp"
)

// errRunLocked is returned when another run holds the state lock.
var errRunLocked = errors.New("another lotoqueue run is already in progress")

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var maxPerRun int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Publish pending rows once and record the outcome in the sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.Queue.DryRun = dryRun
			}
			if maxPerRun > 0 {
				cfg.Queue.MaxPerRun = maxPerRun
			}
			return executeRun(cmd.Context(), ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log planned uploads and cell updates without side effects")
	cmd.Flags().IntVar(&maxPerRun, "max", 0, "Override the maximum number of rows processed this run")
	return cmd
}

func executeRun(parent context.Context, cc *commandContext, cfg *config.Config, out io.Writer) error {
	runID := uuid.NewString()
	runCtx := services.WithRunID(parent, runID)

	logger, logPath, err := logging.NewFromConfig(cfg, runID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logging.NewComponentLogger(logger, "cli")

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errRunLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	notifier := notifications.NewService(cfg)
	started := time.Now()
	logging.WithContext(runCtx, logger).Info("run started",
		logging.Bool("dry_run", cfg.Queue.DryRun),
		logging.Int("max_per_run", cfg.Queue.MaxPerRun),
		logging.String("log_file", logPath),
		logging.String(logging.FieldEventType, "run_started"),
	)

	audit := openLedger(runCtx, cfg, runID, logger)
	if audit != nil {
		defer audit.Close()
	}

	summary, runErr := runQueue(runCtx, cc, cfg, runID, audit, logger)
	if runErr != nil {
		logging.ErrorWithContext(logging.WithContext(runCtx, logger), "run failed", "run_failed",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "check credentials, sheet ids and tab names"),
		)
		if err := notifier.NotifyError(context.WithoutCancel(runCtx), runErr, "run"); err != nil {
			logger.Warn("notification failed", logging.Error(err))
		}
	}

	duration := time.Since(started)
	if audit != nil {
		finish := ledger.Run{ID: runID, Processed: summary.Processed, OK: summary.OK, Failed: summary.Failed + summary.Errored}
		if runErr != nil {
			finish.Error = runErr.Error()
		}
		if err := audit.FinishRun(context.WithoutCancel(runCtx), finish); err != nil {
			logger.Warn("ledger finish failed", logging.Error(err))
		}
	}
	if runErr == nil {
		report := notifications.RunReport{
			RunID:     runID,
			Processed: summary.Processed,
			OK:        summary.OK,
			Failed:    summary.Failed + summary.Errored,
			Duration:  duration,
			DryRun:    summary.DryRun,
		}
		if err := notifier.NotifyRunCompleted(runCtx, report); err != nil {
			logger.Warn("notification failed", logging.Error(err))
		}
	}
	if removed := logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath); removed > 0 {
		logger.Info("old run logs pruned", logging.Int("removed", removed))
	}

	printSummary(out, runID, summary)
	return runErr
}

func runQueue(ctx context.Context, cc *commandContext, cfg *config.Config, runID string, audit *ledger.Store, logger *slog.Logger) (runner.Summary, error) {
	queueTab, creds, err := cc.openStores(ctx, cfg)
	if err != nil {
		return runner.Summary{}, err
	}
	clock, err := stamp.New(cfg.Queue.Timezone)
	if err != nil {
		return runner.Summary{}, services.Wrap(services.ErrConfiguration, "cli", "timezone", cfg.Queue.Timezone, err)
	}

	pub := publisher.New(publisher.Options{
		Credentials: creds,
		Uploader:    cc.deps.uploader(cfg),
		Renderer:    cc.deps.renderer(cfg, logger),
		Clock:       clock,
		ChannelGap:  cfg.ChannelGap(),
		DryRun:      cfg.Queue.DryRun,
		Logger:      logger,
	})

	r := runner.New(runner.Options{
		Store:     sheets.NewAdapter(queueTab, logger),
		Publisher: pub,
		Clock:     clock,
		Settings:  runner.SettingsFromConfig(cfg),
		OnRow:     ledgerRecorder(audit, runID, logger),
		Logger:    logger,
	})
	return r.Run(ctx)
}

func openLedger(ctx context.Context, cfg *config.Config, runID string, logger *slog.Logger) *ledger.Store {
	store, err := ledger.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "ledger unavailable", "ledger_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history is not recorded"),
		)
		return nil
	}
	if err := store.BeginRun(ctx, runID, cfg.Queue.DryRun); err != nil {
		logging.WarnWithContext(logger, "ledger begin failed", "ledger_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history is not recorded"),
		)
		_ = store.Close()
		return nil
	}
	return store
}

// ledgerRecorder turns each settled row into one attempt per channel, or a
// single row-level attempt when the publisher failed before fanning out.
func ledgerRecorder(audit *ledger.Store, runID string, logger *slog.Logger) func(context.Context, runner.RowOutcome) {
	if audit == nil {
		return nil
	}
	return func(ctx context.Context, outcome runner.RowOutcome) {
		base := ledger.Attempt{
			RunID:   runID,
			Row:     outcome.Draw.Row,
			Lottery: outcome.Draw.Lottery,
			Contest: outcome.Draw.Contest,
			Network: publisher.Network,
		}
		var attempts []ledger.Attempt
		switch {
		case outcome.Err != nil:
			a := base
			a.Outcome = publisher.OutcomeFailed.String()
			a.Detail = outcome.Err.Error()
			attempts = append(attempts, a)
		case len(outcome.Result.Channels) == 0:
			a := base
			a.Outcome = publisher.OutcomeSkipped.String()
			a.Detail = "no accounts"
			attempts = append(attempts, a)
		}
		for _, ch := range outcome.Result.Channels {
			a := base
			a.Account = ch.Account
			a.Outcome = ch.Outcome.String()
			a.VideoID = ch.VideoID
			a.URL = ch.URL
			a.Detail = ch.Detail
			attempts = append(attempts, a)
		}
		for _, a := range attempts {
			if err := audit.RecordAttempt(ctx, a); err != nil {
				logger.Warn("ledger attempt not recorded", logging.Int("row", a.Row), logging.Error(err))
			}
		}
	}
}

func printSummary(out io.Writer, runID string, summary runner.Summary) {
	mode := "live"
	if summary.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "Run %s (%s)\n", runID, mode)
	fmt.Fprintf(out, "Pending: %d  Processed: %d  OK: %d  Failed: %d  Errored: %d\n",
		summary.Pending, summary.Processed, summary.OK, summary.Failed, summary.Errored)
	if summary.Apply.Requested > 0 {
		fmt.Fprintf(out, "Cells written: %d/%d (batched: %s)\n", summary.Apply.Written, summary.Apply.Requested, yesNo(summary.Apply.Batched))
	}
	for _, row := range summary.Rows {
		fmt.Fprintf(out, "  row %d %s %s: %s\n", row.Draw.Row, row.Draw.Name(), row.Draw.Contest, row.Queued)
		for _, ch := range row.Result.Channels {
			fmt.Fprintf(out, "    %s: %s\n", ch.Account, ch.Status())
		}
	}
}
