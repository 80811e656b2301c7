package ksynth

import (
	"sync"

	"github.com/papapumpkin/quasar/internal/kerrors"
)

// hullWriter is the minimal store surface the lock needs: an internal,
// gate-bypassing write (see kstate.Store.SetInternal's doc comment for
// why this bypass is restricted to trusted kernel writers).
type hullWriter interface {
	SetInternal(path string, value any, source string) (bool, error)
}

// Lock is the exclusive hull-write lock described in spec.md §4.9 and
// §5: at most one holder at any time, over the closed set of hull paths.
// Grounded in original_source/magnet/kernel/synthesis_lock.py.
type Lock struct {
	mu    sync.Mutex
	owner string
}

// NewLock builds an unheld lock.
func NewLock() *Lock { return &Lock{} }

// IsLocked reports whether the lock is currently held.
func (l *Lock) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner != ""
}

// Owner returns the current holder, or "" if unheld.
func (l *Lock) Owner() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

// Acquire takes the lock for owner. Fails with SynthesisLockError if
// already held by a different owner; acquiring twice by the same owner
// is idempotent.
func (l *Lock) Acquire(owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != "" && l.owner != owner {
		return kerrors.SynthesisLock(l.owner, owner, "lock already held")
	}
	l.owner = owner
	return nil
}

// Release gives up the lock. Fails with SynthesisLockError if called by
// a non-owner.
func (l *Lock) Release(owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == "" {
		return nil
	}
	if l.owner != owner {
		return kerrors.SynthesisLock(l.owner, owner, "release attempted by non-owner")
	}
	l.owner = ""
	return nil
}

// WriteHullParams atomically writes every hull path in params under the
// lock. It fails with SynthesisLockError if owner does not hold the lock,
// and refuses a partial write (missing lwl, beam, or draft) rather than
// committing anything.
func (l *Lock) WriteHullParams(params map[string]float64, owner string, store hullWriter) error {
	l.mu.Lock()
	held := l.owner
	l.mu.Unlock()
	if held != owner {
		return kerrors.SynthesisLock(held, owner, "write attempted without holding the lock")
	}
	required := []string{"hull.lwl", "hull.beam", "hull.draft"}
	for _, r := range required {
		if _, ok := params[r]; !ok {
			return kerrors.SynthesisLock(owner, owner, "partial hull write refused: missing "+r)
		}
	}
	for path, v := range params {
		if _, err := store.SetInternal(path, v, "synthesis:"+owner); err != nil {
			return err
		}
	}
	return nil
}

// ExclusiveAccess acquires the lock for owner, runs fn, and releases the
// lock regardless of fn's outcome — the Go equivalent of synthesis_lock.py's
// exclusive_access contextmanager.
func (l *Lock) ExclusiveAccess(owner string, fn func() error) error {
	if err := l.Acquire(owner); err != nil {
		return err
	}
	defer l.Release(owner)
	return fn()
}
