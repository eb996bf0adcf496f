package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bizdesk-backend/models"

	"github.com/google/uuid"
)

// LockManager handles file-based locking so that only one instance runs
// the table bootstrap at a time
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// NewLockManager creates a new lock manager
func NewLockManager(lockPath string, timeout time.Duration, env string) *LockManager {
	return &LockManager{
		LockFilePath: lockPath,
		LockTimeout:  timeout,
		Environment:  env,
	}
}

// AcquireLock takes the bootstrap lock for ownerID. A live lock held by the
// same owner in the same environment is extended instead of failing.
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	if err := os.MkdirAll(filepath.Dir(lm.LockFilePath), 0o755); err != nil {
		return nil, err
	}

	existing, err := lm.readLockFile()
	if err == nil && time.Now().Before(existing.ExpiresAt) {
		if existing.Owner != ownerID || existing.Environment != lm.Environment {
			return nil, fmt.Errorf("lock held by %s until %s", existing.Owner, existing.ExpiresAt)
		}
		existing.ExpiresAt = time.Now().Add(lm.LockTimeout)
		if err := lm.writeLockFile(existing); err != nil {
			return nil, fmt.Errorf("failed to extend lock: %w", err)
		}
		return existing, nil
	}

	lock := &models.LockInfo{
		ID:          "bootstrap-" + uuid.NewString(),
		Owner:       ownerID,
		AcquiredAt:  time.Now(),
		ExpiresAt:   time.Now().Add(lm.LockTimeout),
		Environment: lm.Environment,
	}
	if err := lm.writeLockFile(lock); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return lock, nil
}

func (lm *LockManager) readLockFile() (*models.LockInfo, error) {
	data, err := os.ReadFile(lm.LockFilePath)
	if err != nil {
		return nil, err
	}

	var lock models.LockInfo
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &lock, nil
}

// writeLockFile writes through a temp file and renames so readers never
// observe a partially written lock
func (lm *LockManager) writeLockFile(lock *models.LockInfo) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}

	tempFile := lm.LockFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp lock file: %w", err)
	}
	if err := os.Rename(tempFile, lm.LockFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp lock file: %w", err)
	}
	return nil
}

// CleanupExpiredLocks removes the lock file once its expiry has passed
func (lm *LockManager) CleanupExpiredLocks() error {
	lock, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if time.Now().After(lock.ExpiresAt) {
		return os.Remove(lm.LockFilePath)
	}
	return nil
}

// ReleaseLock releases the lock, refusing to remove one held by another owner
func (lm *LockManager) ReleaseLock(lock *models.LockInfo) error {
	current, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if current.Owner != lock.Owner {
		return fmt.Errorf("cannot release lock owned by %s", current.Owner)
	}

	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
