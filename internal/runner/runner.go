package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lotoqueue/internal/config"
	"lotoqueue/internal/logging"
	"lotoqueue/internal/lottery"
	"lotoqueue/internal/publisher"
	"lotoqueue/internal/services"
	"lotoqueue/internal/sheets"
	"lotoqueue/internal/stamp"
)

// Store is the tabular surface the runner reads and writes.
type Store interface {
	ReadAll(ctx context.Context) (sheets.Table, error)
	EnsureColumn(name string) (int, bool)
	Headers() []string
	SetHeaders(ctx context.Context, headers []string) error
	BatchApply(ctx context.Context, updates []sheets.CellUpdate) sheets.ApplyResult
}

// Publisher fans one draw out to its channels.
type Publisher interface {
	Publish(ctx context.Context, draw lottery.Draw) (publisher.Result, error)
}

// Settings are the runner's knobs.
type Settings struct {
	QueuedColumn    string
	PublishedColumn string
	MaxPerRun       int
	ItemPause       time.Duration
	DryRun          bool
}

// SettingsFromConfig extracts runner settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		QueuedColumn:    cfg.Sheet.QueuedColumn,
		PublishedColumn: cfg.Sheet.PublishedColumn,
		MaxPerRun:       cfg.Queue.MaxPerRun,
		ItemPause:       cfg.ItemPause(),
		DryRun:          cfg.Queue.DryRun,
	}
}

// Options wires a Runner.
type Options struct {
	Store     Store
	Publisher Publisher
	Clock     *stamp.Clock
	Settings  Settings
	Sleep     publisher.SleepFunc
	// OnRow observes every settled row, e.g. to append to the audit ledger.
	OnRow  func(ctx context.Context, outcome RowOutcome)
	Logger *slog.Logger
}

// Runner executes one pass over the queue tab.
type Runner struct {
	store     Store
	publisher Publisher
	clock     *stamp.Clock
	settings  Settings
	sleep     publisher.SleepFunc
	onRow     func(ctx context.Context, outcome RowOutcome)
	logger    *slog.Logger
}

// New builds a Runner.
func New(opts Options) *Runner {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = publisher.Sleep
	}
	clock := opts.Clock
	if clock == nil {
		clock = stamp.InLocation(time.Local)
	}
	settings := opts.Settings
	if settings.MaxPerRun <= 0 {
		settings.MaxPerRun = 10
	}
	return &Runner{
		store:     opts.Store,
		publisher: opts.Publisher,
		clock:     clock,
		settings:  settings,
		sleep:     sleep,
		onRow:     opts.OnRow,
		logger:    logging.NewComponentLogger(opts.Logger, "runner"),
	}
}

// PendingRow is a row selected for processing.
type PendingRow struct {
	Draw   lottery.Draw
	Queued string
}

// RowStatus is the control state of one non-idle row.
type RowStatus struct {
	Draw      lottery.Draw
	State     State
	Queued    string
	Published string
}

// RowOutcome is the settled state of one processed row.
type RowOutcome struct {
	Draw      lottery.Draw
	Queued    string
	Published string
	Result    publisher.Result
	// Err is set when the publisher failed for the row as a whole.
	Err error
}

// OK reports whether at least one channel succeeded.
func (o RowOutcome) OK() bool { return o.Err == nil && o.Result.OkAny }

// Summary describes a completed run.
type Summary struct {
	Scanned   int
	Pending   int
	Processed int
	OK        int
	Failed    int
	Errored   int
	DryRun    bool
	Updates   []sheets.CellUpdate
	Apply     sheets.ApplyResult
	Rows      []RowOutcome
}

// Run reads the queue, publishes up to MaxPerRun pending rows, and writes
// both control cells of every processed row in a single batch.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{DryRun: r.settings.DryRun}
	logger := logging.WithContext(ctx, r.logger)

	table, layout, err := r.prepare(ctx, true)
	if err != nil {
		return summary, err
	}
	if len(table.Headers) == 0 {
		logger.Info("queue tab is empty; nothing to do", logging.String(logging.FieldEventType, "queue_empty"))
		return summary, nil
	}
	summary.Scanned = len(table.Rows)

	pending := r.collect(table, layout)
	summary.Pending = len(pending)
	if len(pending) == 0 {
		logger.Info("no pending rows", logging.String(logging.FieldEventType, "queue_idle"))
		return summary, nil
	}
	if len(pending) > r.settings.MaxPerRun {
		pending = pending[:r.settings.MaxPerRun]
	}
	logger.Info("pending rows selected",
		logging.Int("pending", summary.Pending),
		logging.Int("selected", len(pending)),
		logging.Bool("dry_run", r.settings.DryRun),
		logging.String(logging.FieldEventType, "queue_selected"),
	)

	var runErr error
	for i, row := range pending {
		outcome, ok := r.process(ctx, row)
		if !ok {
			runErr = ctx.Err()
			break
		}
		summary.Rows = append(summary.Rows, outcome)
		summary.Processed++
		switch {
		case outcome.Err != nil:
			summary.Errored++
		case outcome.Result.OkAny:
			summary.OK++
		default:
			summary.Failed++
		}
		summary.Updates = append(summary.Updates,
			sheets.CellUpdate{Cell: sheets.CellA1(outcome.Draw.Row, layout.Published), Value: outcome.Published},
			sheets.CellUpdate{Cell: sheets.CellA1(outcome.Draw.Row, layout.Queued), Value: outcome.Queued},
		)
		if r.onRow != nil {
			r.onRow(ctx, outcome)
		}
		if i < len(pending)-1 {
			if err := r.sleep(ctx, r.settings.ItemPause); err != nil {
				runErr = err
				break
			}
		}
	}

	r.commit(ctx, &summary)
	logger.Info("queue run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("ok", summary.OK),
		logging.Int("failed", summary.Failed),
		logging.Int("errored", summary.Errored),
		logging.String(logging.FieldEventType, "queue_finished"),
	)
	return summary, runErr
}

// Pending lists pending rows without publishing or writing anything.
func (r *Runner) Pending(ctx context.Context) ([]PendingRow, error) {
	table, layout, err := r.prepare(ctx, false)
	if err != nil || len(table.Headers) == 0 {
		return nil, err
	}
	return r.collect(table, layout), nil
}

// Rows classifies every row whose Queued cell is set, in sheet order. Like
// Pending it writes nothing.
func (r *Runner) Rows(ctx context.Context) ([]RowStatus, error) {
	table, layout, err := r.prepare(ctx, false)
	if err != nil || len(table.Headers) == 0 {
		return nil, err
	}
	var rows []RowStatus
	for i := range table.Rows {
		queued := trim(table.Cell(i, layout.Queued))
		published := trim(table.Cell(i, layout.Published))
		state := Classify(queued, published)
		if state == StateIdle {
			continue
		}
		rows = append(rows, RowStatus{Draw: layout.Draw(table, i), State: state, Queued: queued, Published: published})
	}
	return rows, nil
}

// prepare reads the tab and makes sure both control columns exist. When
// persist is false (or in dry-run) new columns exist only in memory.
func (r *Runner) prepare(ctx context.Context, persist bool) (sheets.Table, Layout, error) {
	table, err := r.store.ReadAll(ctx)
	if err != nil {
		return sheets.Table{}, Layout{}, fmt.Errorf("read queue: %w", err)
	}
	if len(table.Headers) == 0 {
		return table, Layout{}, nil
	}

	_, createdQueued := r.store.EnsureColumn(r.settings.QueuedColumn)
	_, createdPublished := r.store.EnsureColumn(r.settings.PublishedColumn)
	if createdQueued || createdPublished {
		headers := r.store.Headers()
		if persist && !r.settings.DryRun {
			if err := r.store.SetHeaders(ctx, headers); err != nil {
				return sheets.Table{}, Layout{}, fmt.Errorf("write header row: %w", err)
			}
			r.logger.Info("control columns created",
				logging.Bool("queued_created", createdQueued),
				logging.Bool("published_created", createdPublished),
				logging.String(logging.FieldEventType, "columns_created"),
			)
			if table, err = r.store.ReadAll(ctx); err != nil {
				return sheets.Table{}, Layout{}, fmt.Errorf("re-read queue: %w", err)
			}
			if len(table.Headers) < len(headers) {
				table.Headers = headers
			}
		} else {
			table.Headers = headers
		}
	}

	layout := ResolveLayout(table, r.settings.QueuedColumn, r.settings.PublishedColumn)
	if layout.Queued < 0 || layout.Published < 0 {
		return sheets.Table{}, Layout{}, services.Wrap(services.ErrValidation, "runner", "layout",
			"control columns missing after header update", nil)
	}
	return table, layout, nil
}

func (r *Runner) collect(table sheets.Table, layout Layout) []PendingRow {
	var pending []PendingRow
	for i := range table.Rows {
		queued := table.Cell(i, layout.Queued)
		if !IsPending(queued, table.Cell(i, layout.Published)) {
			continue
		}
		pending = append(pending, PendingRow{Draw: layout.Draw(table, i), Queued: trim(queued)})
	}
	return pending
}

// process publishes one row. It returns false when ctx was cancelled before
// the row settled, in which case no cells are written for it.
func (r *Runner) process(ctx context.Context, row PendingRow) (RowOutcome, bool) {
	rowCtx := services.WithRow(ctx, row.Draw.Row)
	logger := logging.WithContext(rowCtx, r.logger)
	logger.Info("processing row",
		logging.String("lottery", row.Draw.Lottery),
		logging.String("contest", row.Draw.Contest),
		logging.String("date", row.Draw.Date),
	)

	outcome := RowOutcome{Draw: row.Draw}
	result, err := r.publisher.Publish(rowCtx, row.Draw)
	if ctx.Err() != nil {
		logging.WarnWithContext(logger, "row abandoned: run cancelled", "row_cancelled",
			logging.String(logging.FieldImpact, "row stays pending for the next run"),
		)
		return outcome, false
	}
	now := r.clock.Stamp()
	if err != nil {
		logging.ErrorWithContext(logger, "row failed", "row_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the render and upload logs for this row"),
		)
		outcome.Err = err
		outcome.Result = result
		outcome.Published = "Falha " + publisher.Network + " em " + now + " | " + err.Error()
		outcome.Queued = "ERRO " + now
		return outcome, true
	}

	outcome.Result = result
	outcome.Published = strings.TrimSpace(result.MarkValue)
	if outcome.Published == "" {
		outcome.Published = "Processado em " + now
	}
	if result.OkAny {
		outcome.Queued = "OK " + now
	} else {
		outcome.Queued = "ERRO " + now
	}
	logger.Info("row settled",
		logging.String("queued", outcome.Queued),
		logging.Int("channels", len(result.Channels)),
		logging.String(logging.FieldEventType, "row_settled"),
	)
	return outcome, true
}

func (r *Runner) commit(ctx context.Context, summary *Summary) {
	if len(summary.Updates) == 0 {
		return
	}
	if r.settings.DryRun {
		for _, u := range summary.Updates {
			r.logger.Info("dry run: planned update",
				logging.String("cell", u.Cell),
				logging.String("value", u.Value),
				logging.String(logging.FieldEventType, "dry_run_update"),
			)
		}
		return
	}
	// Cancellation of the run must not discard the outcomes already produced.
	summary.Apply = r.store.BatchApply(context.WithoutCancel(ctx), summary.Updates)
}

func trim(s string) string { return strings.TrimSpace(s) }
