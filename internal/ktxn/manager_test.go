package ktxn

import (
	"testing"

	"github.com/papapumpkin/quasar/internal/kstate"
)

func TestBeginCommitBumpsVersionAndAllowsRefinableWrite(t *testing.T) {
	store := kstate.New("test")
	mgr := New(store)

	before := store.DesignVersion()
	txnID, err := mgr.Begin()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Set("hull.loa", 24.0, "test"); err != nil {
		t.Fatalf("expected refinable write to succeed inside a transaction: %v", err)
	}

	if err := mgr.Commit(txnID); err != nil {
		t.Fatal(err)
	}
	if store.DesignVersion() != before+1 {
		t.Fatalf("expected design_version to bump by 1 on commit, got %d want %d", store.DesignVersion(), before+1)
	}
}

func TestBeginTwiceFails(t *testing.T) {
	store := kstate.New("test")
	mgr := New(store)
	if _, err := mgr.Begin(); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Begin(); err == nil {
		t.Fatal("expected TxnInProgress error on nested Begin")
	}
}

func TestRollbackRestoresStateWithoutBumpingVersion(t *testing.T) {
	store := kstate.New("test")
	mgr := New(store)
	before := store.DesignVersion()

	txnID, err := mgr.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Set("hull.loa", 24.0, "test"); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Rollback(txnID); err != nil {
		t.Fatal(err)
	}

	if got := store.Get("hull.loa", nil); got != nil {
		t.Fatalf("expected hull.loa to be rolled back to unset, got %v", got)
	}
	if store.DesignVersion() != before {
		t.Fatalf("rollback must not bump design_version, got %d want %d", store.DesignVersion(), before)
	}
}

func TestCommitWithWrongTxnIDFails(t *testing.T) {
	store := kstate.New("test")
	mgr := New(store)
	if _, err := mgr.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Commit("not-the-real-id"); err == nil {
		t.Fatal("expected error committing with a mismatched transaction id")
	}
}
