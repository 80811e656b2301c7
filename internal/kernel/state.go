package kernel

import "github.com/papapumpkin/quasar/internal/kstate"

// Get reads path, returning def if unset. Satisfies spec.md §6's
// lenient-get surface.
func (k *Kernel) Get(path string, def any) any {
	return k.Store.Get(path, def)
}

// GetStrict reads path, erroring if the path is not declared in the
// schema (distinct from a declared-but-unassigned MISSING value).
func (k *Kernel) GetStrict(path string) (any, error) {
	return k.Store.GetStrict(path)
}

// Set writes path through the mutation gate: refinable paths require an
// active transaction.
func (k *Kernel) Set(path string, value any, source string) (bool, error) {
	return k.Store.Set(path, value, source)
}

// Patch applies every key/value pair via Set.
func (k *Kernel) Patch(updates map[string]any, source string) ([]string, error) {
	return k.Store.Patch(updates, source)
}

// Summary reports a whole-state summary.
func (k *Kernel) Summary() kstate.Summary {
	return k.Store.Summary()
}

// Diff reports the field-level differences against another store,
// e.g. a snapshot taken before a transaction.
func (k *Kernel) Diff(other *kstate.Store) map[string]kstate.DiffEntry {
	return k.Store.Diff(other)
}
