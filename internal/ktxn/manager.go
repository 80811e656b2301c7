// Package ktxn implements the kernel's transaction manager (spec.md §4.4):
// a single active transaction per design state, snapshot-based rollback,
// and the sole mutation-gate chokepoint the state store consults before
// accepting a write to a refinable path.
//
// Deliberate deviation from original_source: original_source's Python
// TransactionManager supports nested transactions via a stack
// (parent_transaction_id). spec.md §3 states an explicit invariant — "The
// active-transaction count is 0 or 1. No nesting." — so this
// implementation has no nesting: a second Begin while one is active
// always fails with TxnInProgress.
package ktxn

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/quasar/internal/kerrors"
	"github.com/papapumpkin/quasar/internal/kstate"
)

// Change is one write recorded against the active transaction.
type Change struct {
	Path     string
	Old, New any
}

// Manager is the single-active-transaction manager for one Store. It
// implements kstate.TxnGate and must be registered with the store via
// store.SetGate(manager) before any refinable write is attempted.
type Manager struct {
	mu sync.Mutex

	store *kstate.Store

	txnID      string
	active     bool
	snapshot   kstate.Snapshot
	changes    []Change
	savepoints map[string]kstate.Snapshot
}

// New builds a transaction manager over store and wires it as the
// store's mutation gate.
func New(store *kstate.Store) *Manager {
	m := &Manager{store: store, savepoints: make(map[string]kstate.Snapshot)}
	store.SetGate(m)
	return m
}

// Active implements kstate.TxnGate.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// RecordChange implements kstate.TxnGate: every write observed while a
// transaction is active is appended to that transaction's change list,
// satisfying "every refinable-path write is observed by exactly one
// transaction's change list".
func (m *Manager) RecordChange(path string, old, new any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return
	}
	m.changes = append(m.changes, Change{Path: path, Old: old, New: new})
}

// Begin starts a new transaction, snapshotting the current state for
// rollback. Fails with TxnInProgress if one is already active.
func (m *Manager) Begin() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return "", kerrors.TxnInProgress("ktxn.Begin")
	}
	m.txnID = uuid.NewString()
	m.active = true
	m.snapshot = m.store.ToDict()
	m.changes = nil
	m.savepoints = make(map[string]kstate.Snapshot)
	return m.txnID, nil
}

// InTransaction reports whether a transaction is currently active.
func (m *Manager) InTransaction() bool {
	return m.Active()
}

// Commit ends the active transaction identified by txnID, clears the
// change list, and increments design_version by exactly one. Rollback
// never changes design_version; only Commit does, and only once.
func (m *Manager) Commit(txnID string) error {
	m.mu.Lock()
	if !m.active || txnID != m.txnID {
		m.mu.Unlock()
		return kerrors.TxnInProgress("ktxn.Commit: no matching active transaction")
	}
	m.active = false
	m.changes = nil
	m.savepoints = nil
	m.mu.Unlock()

	m.store.BumpVersionForCommit()
	m.appendHistory("transaction_commit")
	return nil
}

// Rollback restores the state captured at Begin and records a
// transaction_rollback history entry. design_version is unchanged.
func (m *Manager) Rollback(txnID string) error {
	m.mu.Lock()
	if !m.active || txnID != m.txnID {
		m.mu.Unlock()
		return kerrors.TxnInProgress("ktxn.Rollback: no matching active transaction")
	}
	snap := m.snapshot
	m.active = false
	m.changes = nil
	m.savepoints = nil
	m.mu.Unlock()

	m.store.FromDict(snap)
	m.appendHistory("transaction_rollback")
	return nil
}

// Savepoint captures the current state under name, valid only within the
// active transaction.
func (m *Manager) Savepoint(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return kerrors.TxnInProgress("ktxn.Savepoint: no active transaction")
	}
	m.savepoints[name] = m.store.ToDict()
	return nil
}

// RollbackToSavepoint restores the state captured by an earlier Savepoint
// call without ending the transaction.
func (m *Manager) RollbackToSavepoint(name string) error {
	m.mu.Lock()
	snap, ok := m.savepoints[name]
	active := m.active
	m.mu.Unlock()
	if !active {
		return kerrors.TxnInProgress("ktxn.RollbackToSavepoint: no active transaction")
	}
	if !ok {
		return kerrors.TxnInProgress("ktxn.RollbackToSavepoint: unknown savepoint " + name)
	}
	m.store.FromDict(snap)
	return nil
}

func (m *Manager) appendHistory(action string) {
	m.store.AppendHistoryExternal(time.Now(), "kernel/transactions", action, "", nil, nil)
}
