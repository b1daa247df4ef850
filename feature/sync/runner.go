package sync

import (
	"context"
	"fmt"
	"time"

	"payment-sync/core/asaas"
	"payment-sync/core/batch"
	"payment-sync/core/database"
	"payment-sync/core/logger"
	"payment-sync/core/paginate"
	"payment-sync/core/reconcile"
	"payment-sync/core/retry"
	"payment-sync/feature/charges"
	chargemodels "payment-sync/feature/charges/models"
	"payment-sync/feature/customers"
	customermodels "payment-sync/feature/customers/models"
	"payment-sync/feature/installments"
	installmentmodels "payment-sync/feature/installments/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Remote is the part of the provider client a run uses.
type Remote interface {
	MyAccount(ctx context.Context) (asaas.Account, error)
	ListCustomers(ctx context.Context, p asaas.ListParams) (asaas.Page[asaas.Customer], error)
	ListPayments(ctx context.Context, p asaas.ListParams) (asaas.Page[asaas.Payment], error)
	ListInstallments(ctx context.Context, p asaas.ListParams) (asaas.Page[asaas.Installment], error)
	GetCustomer(ctx context.Context, id string) (asaas.Customer, error)
}

// Runner executes sync runs.
type Runner struct {
	remote   Remote
	db       *gorm.DB
	dbCfg    database.Config
	cfg      Config
	pageSize int
	logger   *zap.Logger
	history  *History
	archive  *Archive
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithHistory persists every run.
func WithHistory(h *History) Option {
	return func(r *Runner) { r.history = h }
}

// WithArchive uploads every finished run.
func WithArchive(a *Archive) Option {
	return func(r *Runner) { r.archive = a }
}

// WithPageSize sets the provider page size.
func WithPageSize(n int) Option {
	return func(r *Runner) { r.pageSize = n }
}

// NewRunner creates a runner writing into db.
func NewRunner(remote Remote, db *gorm.DB, dbCfg database.Config, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		remote:   remote,
		db:       db,
		dbCfg:    dbCfg,
		cfg:      cfg,
		pageSize: paginate.DefaultPageSize,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tables lists the models a run writes. They must be migrated before a run.
func Tables() []any {
	return []any{
		&customermodels.Cliente{},
		&chargemodels.Cobranca{},
		&installmentmodels.Parcelamento{},
	}
}

// Run synchronizes the requested entities in order. The returned error is
// non-nil only when setup fails; record and page failures are carried in the
// result.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if len(req.Entities) == 0 {
		req.Entities = Entities
	}
	log := logger.WithRun(r.logger, req.ID)

	res := Result{ID: req.ID, DryRun: req.DryRun, StartedAt: r.now()}

	if r.history != nil {
		if err := r.history.Begin(ctx, req, res.StartedAt); err != nil {
			log.Warn("Failed to record run start", zap.Error(err))
		}
	}

	log.Info("Sync run started",
		zap.String("entities", JoinEntities(req.Entities)),
		zap.Bool("dry_run", req.DryRun),
		zap.Bool("retry_failed", req.RetryFailed))

	account, err := r.setup(ctx)
	if err != nil {
		res.FinishedAt = r.now()
		r.finish(ctx, log, req, &res, err)
		return res, err
	}
	res.Account = account.Name

	tables := newTableSet(r.db, r.dbCfg, log)
	for _, e := range req.Entities {
		if ctx.Err() != nil {
			break
		}
		res.Entities = append(res.Entities, r.syncEntity(ctx, log, e, req, tables))
	}
	if err := ctx.Err(); err != nil {
		res.Interrupted = true
		log.Warn("Sync run interrupted", zap.Int("entities_done", len(res.Entities)), zap.Error(err))
	}

	res.FinishedAt = r.now()
	r.finish(ctx, log, req, &res, nil)
	LogReport(log, res, 20)
	return res, nil
}

// Probe checks that the provider accepts the credentials.
func (r *Runner) Probe(ctx context.Context) (asaas.Account, error) {
	account, err := r.remote.MyAccount(ctx)
	if err != nil {
		return asaas.Account{}, fmt.Errorf("provider probe failed: %w", err)
	}
	return account, nil
}

// setup verifies both ends of the run before any record is read.
func (r *Runner) setup(ctx context.Context) (asaas.Account, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return asaas.Account{}, fmt.Errorf("setup: %w", err)
	}
	_, err = retry.Do(ctx, database.RetryPolicy(r.dbCfg, r.logger), func(ctx context.Context, _ int) error {
		return sqlDB.PingContext(ctx)
	})
	if err != nil {
		return asaas.Account{}, fmt.Errorf("setup: store unreachable: %w", err)
	}

	for _, model := range Tables() {
		if !r.db.WithContext(ctx).Migrator().HasTable(model) {
			return asaas.Account{}, fmt.Errorf("setup: table for %T is missing, run migrate first", model)
		}
	}

	account, err := r.Probe(ctx)
	if err != nil {
		return asaas.Account{}, fmt.Errorf("setup: %w", err)
	}
	return account, nil
}

// finish records the run even when ctx is already cancelled.
func (r *Runner) finish(ctx context.Context, log *zap.Logger, req Request, res *Result, runErr error) {
	ctx = context.WithoutCancel(ctx)
	if runErr != nil {
		log.Error("Sync run aborted", zap.Error(runErr))
	}

	if r.archive != nil && runErr == nil {
		key, err := r.archive.Save(ctx, *res)
		if err != nil {
			log.Warn("Failed to archive run report", zap.Error(err))
		} else {
			res.ArchiveKey = key
			log.Info("Run report archived", zap.String("key", key))
		}
	}

	if r.history != nil {
		if err := r.history.Finish(ctx, req, *res, runErr); err != nil {
			log.Warn("Failed to record run result", zap.Error(err))
		}
	}
}

// tableSet holds the stores shared by the entities of one run.
type tableSet struct {
	customers    *database.Table[customermodels.Cliente]
	charges      *database.Table[chargemodels.Cobranca]
	installments *database.Table[installmentmodels.Parcelamento]
}

func newTableSet(db *gorm.DB, cfg database.Config, log *zap.Logger) tableSet {
	return tableSet{
		customers:    database.NewTable[customermodels.Cliente](db, cfg, log),
		charges:      database.NewTable[chargemodels.Cobranca](db, cfg, log),
		installments: database.NewTable[installmentmodels.Parcelamento](db, cfg, log),
	}
}

func (r *Runner) engineOptions(log *zap.Logger, req Request, entity Entity) reconcile.Options {
	opts := reconcile.Options{
		DryRun:      req.DryRun,
		RetryFailed: req.RetryFailed,
		Batch: batch.Options{
			Width: r.cfg.BatchSize,
			Delay: r.cfg.BatchDelay(),
		},
	}
	if every := r.cfg.ProgressEvery; every > 0 {
		width := max(r.cfg.BatchSize, 1)
		opts.Batch.OnChunk = func(done, total int) {
			if done == total || (done/width)%every == 0 {
				log.Debug("Batch progress", zap.String("entity", string(entity)), zap.Int("done", done), zap.Int("total", total))
			}
		}
	}
	return opts
}

func (r *Runner) syncEntity(ctx context.Context, log *zap.Logger, e Entity, req Request, t tableSet) EntityResult {
	opts := r.engineOptions(log, req, e)

	switch e {
	case EntityCustomers:
		engine := reconcile.NewEngine[asaas.Customer, customermodels.Cliente](customers.NewAdapter(t.customers), opts, log)
		return syncPages(ctx, log, engine, req.DryRun, paginate.Fetcher[asaas.Customer]{
			Name: string(e), PageSize: r.pageSize, Delay: r.cfg.PageDelay(), Logger: log,
			Fetch: func(ctx context.Context, offset, limit int) (asaas.Page[asaas.Customer], error) {
				return r.remote.ListCustomers(ctx, asaas.ListParams{Offset: offset, Limit: limit})
			},
		})

	case EntityCharges:
		parent := reconcile.NewEngine[asaas.Customer, customermodels.Cliente](customers.NewAdapter(t.customers), opts, log)
		adapter := charges.NewAdapter(t.charges, t.customers, r.remote, parent)
		engine := reconcile.NewEngine[asaas.Payment, chargemodels.Cobranca](adapter, opts, log)
		return syncPages(ctx, log, engine, req.DryRun, paginate.Fetcher[asaas.Payment]{
			Name: string(e), PageSize: r.pageSize, Delay: r.cfg.PageDelay(), Logger: log,
			Fetch: func(ctx context.Context, offset, limit int) (asaas.Page[asaas.Payment], error) {
				return r.remote.ListPayments(ctx, asaas.ListParams{Offset: offset, Limit: limit})
			},
		})

	case EntityInstallments:
		adapter := installments.NewAdapter(t.installments, t.customers)
		engine := reconcile.NewEngine[asaas.Installment, installmentmodels.Parcelamento](adapter, opts, log)
		return syncPages(ctx, log, engine, req.DryRun, paginate.Fetcher[asaas.Installment]{
			Name: string(e), PageSize: r.pageSize, Delay: r.cfg.PageDelay(), Logger: log,
			Fetch: func(ctx context.Context, offset, limit int) (asaas.Page[asaas.Installment], error) {
				return r.remote.ListInstallments(ctx, asaas.ListParams{Offset: offset, Limit: limit})
			},
		})
	}

	return EntityResult{
		Report: reconcile.Report{Entity: string(e), DryRun: req.DryRun},
		Error:  fmt.Sprintf("unknown entity %q", e),
	}
}

// syncPages reconciles each page as soon as it arrives. A page that cannot be
// fetched ends the entity; the pages before it stay in the report.
func syncPages[R, L any](ctx context.Context, log *zap.Logger, engine *reconcile.Engine[R, L], dryRun bool, f paginate.Fetcher[R]) EntityResult {
	res := EntityResult{Report: reconcile.Report{Entity: engine.Name(), DryRun: dryRun, StartedAt: time.Now()}}

	log.Info("Entity sync started", zap.String("entity", engine.Name()))
	for page, err := range f.Pages(ctx) {
		if err != nil {
			res.Error = err.Error()
			log.Error("Entity enumeration stopped", zap.String("entity", engine.Name()), zap.Int("pages", res.Pages), zap.Error(err))
			break
		}
		res.Pages++
		res.Report.Merge(engine.Run(ctx, page))
	}
	res.Report.FinishedAt = time.Now()
	return res
}
