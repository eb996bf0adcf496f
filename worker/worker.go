package worker

import (
	"bizdesk-backend/models"
	"bizdesk-backend/utils/logger"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Worker runs session maintenance in the background: it bootstraps the
// identity tables on startup and periodically sweeps expired entries out
// of the token revocation list.
type Worker struct {
	Config       *models.Config
	Logger       logger.Logger
	CronJob      *cron.Cron
	LockManager  *LockManager
	Bootstrap    *TableBootstrap
	Sweeper      models.TokenSweeper
	WorkerConfig *models.WorkerConfig
	OwnerID      string

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
	stopOnce  sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger, sweeper models.TokenSweeper) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("token sweeper cannot be nil")
	}

	// Generate unique owner ID for this instance
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &models.WorkerConfig{
		CronSchedule:   getCronScheduleForEnvironment(cfg.AppEnv),
		LockTimeout:    30 * time.Minute,
		LockFilePath:   fmt.Sprintf("/tmp/bizdesk-bootstrap-%s.lock", cfg.AppEnv),
		Environment:    cfg.AppEnv,
		RequiredTables: cfg.Tables,
		SkipBootstrap:  os.Getenv("BOOTSTRAP_SKIP") == "true",
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	bootstrap, err := NewTableBootstrap(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create table bootstrap: %w", err)
	}

	lockManager := NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment)

	workerCtx, cancel := context.WithCancel(context.Background())

	return &Worker{
		Config:       cfg,
		Logger:       log,
		CronJob:      cron.New(),
		LockManager:  lockManager,
		Bootstrap:    bootstrap,
		Sweeper:      sweeper,
		WorkerConfig: workerConfig,
		OwnerID:      ownerID,
		stopChan:     make(chan struct{}),
		ctx:          workerCtx,
		cancel:       cancel,
	}, nil
}

// Start runs the table bootstrap and schedules the token sweep
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}

	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.Logger.Infof("Starting session maintenance worker with schedule: %s", w.WorkerConfig.CronSchedule)
	w.Logger.Infof("Worker ID: %s", w.OwnerID)

	if w.WorkerConfig.SkipBootstrap {
		w.Logger.Info("Table bootstrap skipped via BOOTSTRAP_SKIP")
	} else if err := w.runBootstrap(); err != nil {
		return err
	}

	if err := w.CronJob.AddFunc(w.WorkerConfig.CronSchedule, w.sweepTokens); err != nil {
		return fmt.Errorf("failed to add token sweep job: %w", err)
	}

	w.CronJob.Start()
	w.isRunning = true

	w.Logger.Info("Session maintenance worker started successfully")
	return nil
}

// runBootstrap acquires the bootstrap lock and ensures the tables exist
func (w *Worker) runBootstrap() error {
	lockInfo, err := w.LockManager.AcquireLock(w.OwnerID)
	if err != nil {
		// Another instance is bootstrapping; serving can proceed once
		// it finishes, so this is not fatal.
		w.Logger.Warnf("Skipping table bootstrap, lock not acquired: %v", err)
		return nil
	}

	defer func() {
		if err := w.LockManager.ReleaseLock(lockInfo); err != nil {
			w.Logger.Errorf("Failed to release bootstrap lock: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(w.ctx, 15*time.Minute)
	defer cancel()

	if err := w.Bootstrap.Execute(ctx, w.WorkerConfig.RequiredTables); err != nil {
		return fmt.Errorf("table bootstrap failed: %w", err)
	}

	w.Logger.Info("Table bootstrap completed successfully")
	return nil
}

// sweepTokens is the cron job that purges expired revoked tokens
func (w *Worker) sweepTokens() {
	select {
	case <-w.ctx.Done():
		w.Logger.Debug("Worker is stopping, skipping token sweep")
		return
	default:
	}

	removed := w.Sweeper.CleanupExpiredTokens()
	if removed > 0 {
		w.Logger.Infof("Token sweep removed %d expired revocation entries", removed)
	} else {
		w.Logger.Debug("Token sweep found no expired revocation entries")
	}
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.isRunning
}

// Stop stops the session maintenance worker
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		if !w.isRunning {
			return
		}

		w.Logger.Info("Stopping session maintenance worker")

		if w.cancel != nil {
			w.cancel()
		}

		if w.CronJob != nil {
			w.CronJob.Stop()
		}

		w.isRunning = false
		close(w.stopChan)

		w.Logger.Info("Session maintenance worker stopped")
	})

	return nil
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}

	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}

	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}

	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}

	if config.CronSchedule != "" {
		cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := cronParser.Parse(config.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
		}
	}

	return nil
}

// getCronScheduleForEnvironment returns environment-specific sweep schedules
func getCronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "*/30 * * * * *" // Every 30 seconds for development
	case "testing":
		return "0 */5 * * * *" // Every 5 minutes for testing
	case "production":
		return "0 */15 * * * *" // Every 15 minutes for production
	default:
		return "0 */10 * * * *" // Every 10 minutes default
	}
}
