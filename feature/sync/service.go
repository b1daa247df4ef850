package sync

import (
	"context"
	"errors"
	gosync "sync"

	"payment-sync/core/ratelimit"
	"payment-sync/feature/sync/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a run is triggered while another one is
// still running.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// ErrNoArchive is returned when a run has no archived report.
var ErrNoArchive = errors.New("run report is not archived")

// Snapshotter exposes the governor state.
type Snapshotter interface {
	Snapshot() ratelimit.State
}

// Service runs syncs in the background for the HTTP surface.
type Service struct {
	runner   *Runner
	history  *History
	archive  *Archive
	governor Snapshotter
	cfg      Config
	logger   *zap.Logger

	mu      gosync.Mutex
	current string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      gosync.WaitGroup
}

// NewService creates a new sync service. history, archive and governor may be nil.
func NewService(runner *Runner, history *History, archive *Archive, governor Snapshotter, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		runner:   runner,
		history:  history,
		archive:  archive,
		governor: governor,
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Trigger starts a run in the background and returns its ID.
func (s *Service) Trigger(ctx context.Context, entities []Entity, dryRun bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" {
		return s.current, ErrRunInProgress
	}
	if s.ctx.Err() != nil {
		return "", s.ctx.Err()
	}

	req := Request{
		ID:          uuid.NewString(),
		Entities:    entities,
		DryRun:      dryRun,
		RetryFailed: s.cfg.RetryFailed,
	}

	// Recorded before returning so the ID is immediately queryable.
	if s.history != nil {
		if err := s.history.Begin(ctx, req, s.runner.now()); err != nil {
			return "", err
		}
	}

	s.current = req.ID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.current = ""
			s.mu.Unlock()
		}()
		if _, err := s.runner.Run(s.ctx, req); err != nil {
			s.logger.Error("Background sync run failed", zap.String("run_id", req.ID), zap.Error(err))
		}
	}()

	return req.ID, nil
}

// Current returns the ID of the running run, if any.
func (s *Service) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Wait blocks until background runs finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Shutdown cancels the running run and waits for it.
func (s *Service) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

// Run returns the history row of a run.
func (s *Service) Run(ctx context.Context, id string) (models.SyncRun, bool, error) {
	if s.history == nil {
		return models.SyncRun{}, false, nil
	}
	return s.history.Get(ctx, id)
}

// Report returns the archived result of a run.
func (s *Service) Report(ctx context.Context, id string) (Result, error) {
	run, found, err := s.Run(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if !found || run.ArchiveKey == "" || s.archive == nil {
		return Result{}, ErrNoArchive
	}
	return s.archive.Load(ctx, run.ArchiveKey)
}

// RateLimit returns the governor state.
func (s *Service) RateLimit() (ratelimit.State, bool) {
	if s.governor == nil {
		return ratelimit.State{}, false
	}
	return s.governor.Snapshot(), true
}
