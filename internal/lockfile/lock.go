// Package lockfile provides the advisory file lock guarding a board's tier
// files.
//
// The store has no compare-and-swap: two unlocked writers would silently
// clobber each other. Every engine operation therefore holds this lock for
// its whole load-to-save span. The lock is advisory; only cooperating
// processes are excluded.
package lockfile

import (
	"errors"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
)

var errLocked = errors.New("board lock held by another process")

// Lock is a held advisory lock. Release it when the operation's writes are
// durable.
type Lock struct {
	f    *os.File
	path string
}

// Acquire takes the exclusive lock at path, retrying with capped exponential
// backoff until timeout. A timeout of zero tries exactly once.
func Acquire(path string, timeout time.Duration) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644) // #nosec G304 - lock path derives from config
	if err != nil {
		return nil, fault.Wrap(fault.StoreIO, err, "opening lock file")
	}

	op := func() error {
		err := flockExclusive(f)
		if errors.Is(err, errLocked) {
			return err // retryable
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = timeout

	if err := backoff.Retry(op, policy); err != nil {
		f.Close()
		if errors.Is(err, errLocked) {
			return nil, fault.New(fault.StoreLocked, "board is locked by another process (lock file %s)", path).
				WithHint("wait for the other operation to finish, or remove a stale lock file if no process holds it")
		}
		return nil, fault.Wrap(fault.StoreIO, err, "acquiring board lock")
	}
	return &Lock{f: f, path: path}, nil
}

// Release unlocks and closes the lock file. The file itself is left in
// place; its presence carries no meaning without a held flock.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := flockUnlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
