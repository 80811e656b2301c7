package kernel

// Begin starts a transaction, the only way a refinable path may be
// written. Fails if one is already active.
func (k *Kernel) Begin() (string, error) {
	return k.Txn.Begin()
}

// Commit finalizes the active transaction, bumping design_version.
func (k *Kernel) Commit(txnID string) error {
	return k.Txn.Commit(txnID)
}

// Rollback discards the active transaction's changes, restoring the
// pre-transaction snapshot without bumping design_version.
func (k *Kernel) Rollback(txnID string) error {
	return k.Txn.Rollback(txnID)
}

// Savepoint records a named restore point within the active transaction.
func (k *Kernel) Savepoint(name string) error {
	return k.Txn.Savepoint(name)
}

// RollbackToSavepoint restores state to a previously recorded savepoint.
func (k *Kernel) RollbackToSavepoint(name string) error {
	return k.Txn.RollbackToSavepoint(name)
}

// InTransaction reports whether a transaction is currently active.
func (k *Kernel) InTransaction() bool {
	return k.Txn.InTransaction()
}
