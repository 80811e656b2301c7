// Package kstate implements the kernel's state store: the in-memory
// design state, addressed by dotted path with alias normalization and
// schema-strict access. It is the sole data-holding component; every
// other kernel package reads and writes design state through it.
package kstate

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/quasar/internal/kerrors"
	"github.com/papapumpkin/quasar/internal/krefine"
	"github.com/papapumpkin/quasar/internal/kschema"
)

// HistoryEntry records one recoverable or successful state change.
type HistoryEntry struct {
	Timestamp time.Time
	Source    string
	Action    string
	Path      string
	Old       any
	New       any
}

// PhaseMetadata is the per-phase bookkeeping record described in spec.md
// §3 ("Phase metadata"): state, timestamps, who entered each state.
type PhaseMetadata struct {
	State      string // draft|active|locked|approved|error
	EnteredBy  string
	EnteredAt  time.Time
	Attributes map[string]any
}

// TxnGate is the interface the transaction manager (package ktxn)
// implements and registers with a Store via SetGate. It lets Set consult
// "is a transaction active" and record refinable writes to the active
// transaction's change list without kstate importing ktxn (which itself
// wraps a Store), avoiding an import cycle.
type TxnGate interface {
	Active() bool
	RecordChange(path string, old, new any)
}

type noopGate struct{}

func (noopGate) Active() bool                      { return false }
func (noopGate) RecordChange(_ string, _, _ any)   {}

// Store owns one design state: identity, the ~27 sections, phase
// metadata, and history. All access is mutex-guarded; the kernel expects
// a single controlling goroutine per design per spec.md §5, but the mutex
// makes accidental concurrent access safe rather than silently racy.
type Store struct {
	mu sync.Mutex

	designID      string
	designName    string
	schemaVersion string
	designVersion uint64
	createdAt     time.Time
	updatedAt     time.Time

	sections         map[string]map[string]any
	phaseStates      map[string]PhaseMetadata
	history          []HistoryEntry
	lockedParameters []string

	gate TxnGate
}

// New creates an empty design state with a generated design id.
func New(designName string) *Store {
	now := time.Now()
	s := &Store{
		designID:      uuid.NewString(),
		designName:    designName,
		schemaVersion: "1",
		createdAt:     now,
		updatedAt:     now,
		sections:      make(map[string]map[string]any, len(kschema.SectionNames)),
		phaseStates:   make(map[string]PhaseMetadata),
		gate:          noopGate{},
	}
	for _, name := range kschema.SectionNames {
		s.sections[name] = make(map[string]any)
	}
	return s
}

// SetGate installs the transaction gate consulted by Set. Called once by
// the kernel facade when wiring a Store to its ktxn.Manager.
func (s *Store) SetGate(g TxnGate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g == nil {
		g = noopGate{}
	}
	s.gate = g
}

// DesignID returns the design's stable identity.
func (s *Store) DesignID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.designID
}

// DesignVersion returns the monotonically increasing version counter.
func (s *Store) DesignVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.designVersion
}

// BumpVersionForCommit increments design_version by exactly one. Called
// only by ktxn.Manager.Commit, just before it records the commit's
// history entry.
func (s *Store) BumpVersionForCommit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designVersion++
}

// AppendHistoryExternal lets ktxn record transaction lifecycle entries
// (transaction_commit, transaction_rollback) against this store's history
// without exposing the store's internal locking to other packages.
func (s *Store) AppendHistoryExternal(ts time.Time, source, action, path string, old, new any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, HistoryEntry{
		Timestamp: ts, Source: source, Action: action, Path: path, Old: old, New: new,
	})
}

// Exists reports whether path (after alias normalization) is declared in
// the schema. Fails with InvalidPath-shaped behavior by returning false
// and an error for unknown paths, matching spec.md's "fails with
// InvalidPath if the path is not in the schema".
func (s *Store) Exists(path string) (bool, error) {
	canon := kschema.Normalize(path)
	if _, ok := kschema.FieldDefFor(canon); !ok {
		return false, kerrors.InvalidPath(path, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.navigate(canon)
	return found, nil
}

// Get performs an alias-normalized, lenient read: an unknown path returns
// the supplied default; a declared path with no assigned value returns
// the schema default if the field has one, else the supplied default.
func (s *Store) Get(path string, def any) any {
	canon := kschema.Normalize(path)
	if _, ok := kschema.FieldDefFor(canon); !ok {
		return def
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.navigate(canon)
	if !found {
		if fd, ok := kschema.FieldDefFor(canon); ok && fd.Default != nil {
			return fd.Default
		}
		return def
	}
	return v
}

// GetStrict performs an alias-normalized, schema-strict read. It returns
// kschema.Missing{} for a schema-valid path with no assigned value, and
// an InvalidPath error for a path not declared in the schema.
func (s *Store) GetStrict(path string) (any, error) {
	canon := kschema.Normalize(path)
	fd, ok := kschema.FieldDefFor(canon)
	if !ok {
		return nil, kerrors.InvalidPath(path, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.navigate(canon)
	if !found {
		if fd.Default != nil {
			return fd.Default, nil
		}
		return kschema.Missing{}, nil
	}
	return v, nil
}

// Set alias-normalizes path, checks the mutation gate, clamps declared
// numeric bounds, assigns the value, and records a history entry. It
// returns (true, nil) on assignment, (false, nil) when the path is
// schema-valid but its parent container is absent (the caller should
// materialize the parent section first — in practice this kernel's
// two-level schema means this case cannot occur for declared paths), and
// a non-nil error for InvalidPath / MutationEnforcement.
func (s *Store) Set(path string, value any, source string) (bool, error) {
	canon := kschema.Normalize(path)
	if _, ok := kschema.FieldDefFor(canon); !ok {
		return false, kerrors.InvalidPath(path, source)
	}

	s.mu.Lock()
	refinable := krefine.IsRefinable(canon)
	gateActive := s.gate.Active()
	if refinable && !gateActive {
		s.mu.Unlock()
		s.appendHistory(source, "MutationEnforcement", canon, nil, nil)
		return false, kerrors.MutationEnforcement(canon, source)
	}

	if fv, ok := value.(float64); ok {
		if _, hasBound := kschema.ParamBounds[canon]; hasBound {
			clamped, warnings := kschema.ClampToBounds(canon, fv)
			value = clamped
			for _, w := range warnings {
				s.recordWarningLocked(source, canon, w)
			}
		}
	}

	section, rest := splitPath(canon)
	sectionMap, ok := s.sections[section]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	old, existed := navigateMap(sectionMap, rest)
	assigned := assignMap(sectionMap, rest, value)
	s.updatedAt = time.Now()
	if !assigned {
		s.mu.Unlock()
		return false, nil
	}
	s.history = append(s.history, HistoryEntry{
		Timestamp: s.updatedAt, Source: source, Action: "set", Path: canon,
		Old: oldOrNil(old, existed), New: value,
	})
	gate := s.gate
	s.mu.Unlock()

	if gate.Active() {
		gate.RecordChange(canon, oldOrNil(old, existed), value)
	}
	return true, nil
}

// SetInternal assigns value at path after schema validation and bounds
// clamping, bypassing the refinable-path mutation gate entirely. It is
// reserved for trusted kernel-internal writers — the synthesis engine's
// lock-guarded hull writes and the conductor's phase bookkeeping — which
// enforce their own write discipline (the synthesis lock, single-owner
// conductor dispatch) in place of the transaction gate.
func (s *Store) SetInternal(path string, value any, source string) (bool, error) {
	canon := kschema.Normalize(path)
	if _, ok := kschema.FieldDefFor(canon); !ok {
		return false, kerrors.InvalidPath(path, source)
	}
	s.mu.Lock()
	if fv, ok := value.(float64); ok {
		if _, hasBound := kschema.ParamBounds[canon]; hasBound {
			clamped, warnings := kschema.ClampToBounds(canon, fv)
			value = clamped
			for _, w := range warnings {
				s.recordWarningLocked(source, canon, w)
			}
		}
	}
	section, rest := splitPath(canon)
	sectionMap, ok := s.sections[section]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	old, existed := navigateMap(sectionMap, rest)
	assigned := assignMap(sectionMap, rest, value)
	s.updatedAt = time.Now()
	if !assigned {
		s.mu.Unlock()
		return false, nil
	}
	s.history = append(s.history, HistoryEntry{
		Timestamp: s.updatedAt, Source: source, Action: "set_internal", Path: canon,
		Old: oldOrNil(old, existed), New: value,
	})
	s.mu.Unlock()
	return true, nil
}

// Patch applies every key/value pair via Set, returning the list of paths
// actually modified. Atomicity across the whole patch is the caller's
// responsibility (call within a transaction).
func (s *Store) Patch(updates map[string]any, source string) ([]string, error) {
	var modified []string
	for path, value := range updates {
		ok, err := s.Set(path, value, source)
		if err != nil {
			return modified, err
		}
		if ok {
			modified = append(modified, path)
		}
	}
	return modified, nil
}

func oldOrNil(v any, existed bool) any {
	if !existed {
		return nil
	}
	return v
}

// recordWarningLocked appends a bounds-clamp warning to history. Caller
// must already hold s.mu.
func (s *Store) recordWarningLocked(source, path, message string) {
	s.history = append(s.history, HistoryEntry{
		Timestamp: time.Now(), Source: source, Action: "bounds_warning", Path: path, New: message,
	})
}

func (s *Store) appendHistory(source, action, path string, old, new any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, HistoryEntry{
		Timestamp: time.Now(), Source: source, Action: action, Path: path, Old: old, New: new,
	})
}

// navigate resolves a canonical path against the current sections map.
// Caller must hold s.mu.
func (s *Store) navigate(canon string) (any, bool) {
	section, rest := splitPath(canon)
	sectionMap, ok := s.sections[section]
	if !ok {
		return nil, false
	}
	return navigateMap(sectionMap, rest)
}

func splitPath(canon string) (section string, rest []string) {
	parts := strings.Split(canon, ".")
	return parts[0], parts[1:]
}

func navigateMap(m map[string]any, rest []string) (any, bool) {
	if len(rest) == 0 {
		return m, true
	}
	cur := any(m)
	for i, key := range rest {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, found := asMap[key]
		if !found {
			return nil, false
		}
		if i == len(rest)-1 {
			return v, true
		}
		cur = v
	}
	return nil, false
}

// assignMap navigates rest within m, materializing intermediate maps, and
// assigns value at the leaf. Returns false if an existing non-map value
// occupies an intermediate segment (the "parent container is null/non-
// container" case from spec.md §4.2).
func assignMap(m map[string]any, rest []string, value any) bool {
	if len(rest) == 0 {
		return false
	}
	cur := m
	for i, key := range rest {
		if i == len(rest)-1 {
			cur[key] = value
			return true
		}
		next, ok := cur[key]
		if !ok {
			nm := make(map[string]any)
			cur[key] = nm
			cur = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return false
		}
		cur = nm
	}
	return false
}
