package models

import "time"

// TokenSweeper purges server-side session state that has outlived its
// expiry. Implemented by the JWT manager's revocation list.
type TokenSweeper interface {
	CleanupExpiredTokens() int
}

// WorkerConfig holds configuration for the session maintenance worker
type WorkerConfig struct {
	// Cron schedule for the token sweep
	CronSchedule string `json:"cron_schedule"`

	// Lock settings for the table bootstrap phase
	LockTimeout  time.Duration `json:"lock_timeout"`
	LockFilePath string        `json:"lock_file_path"`

	// Environment settings
	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	// Feature flags
	SkipBootstrap bool `json:"skip_bootstrap"`
}

// LockInfo represents distributed lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}
