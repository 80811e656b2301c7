package kstate

import (
	"reflect"
	"time"

	"github.com/papapumpkin/quasar/internal/kschema"
)

// Snapshot is the whole-state serialization described in spec.md §6:
// identity, timestamps, the ~27 sections, and auxiliary maps. It is the
// JSON-shaped form used both for transaction rollback snapshots and for
// ToDict/FromDict round-trips.
type Snapshot struct {
	DesignID      string                     `json:"design_id"`
	DesignName    string                     `json:"design_name"`
	SchemaVersion string                     `json:"schema_version"`
	DesignVersion uint64                     `json:"design_version"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
	Sections      map[string]map[string]any  `json:"sections"`
	PhaseStates   map[string]PhaseMetadata   `json:"phase_states"`
	Locked        []string                   `json:"locked_parameters"`
}

// ToDict returns a deep-copied whole-state snapshot, safe for the caller
// to mutate or persist.
func (s *Store) ToDict() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	sections := make(map[string]map[string]any, len(s.sections))
	for name, m := range s.sections {
		sections[name] = deepCopyMap(m)
	}
	phaseStates := make(map[string]PhaseMetadata, len(s.phaseStates))
	for k, v := range s.phaseStates {
		phaseStates[k] = v
	}
	locked := make([]string, len(s.lockedParameters))
	copy(locked, s.lockedParameters)
	return Snapshot{
		DesignID: s.designID, DesignName: s.designName, SchemaVersion: s.schemaVersion,
		DesignVersion: s.designVersion, CreatedAt: s.createdAt, UpdatedAt: s.updatedAt,
		Sections: sections, PhaseStates: phaseStates, Locked: locked,
	}
}

// FromDict replaces the store's contents with snap. Unknown top-level
// section names in snap are ignored; known sections with missing fields
// keep the schema's empty state (nothing defaults in eagerly — Get/
// GetStrict apply schema defaults lazily on read).
func (s *Store) FromDict(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designID = snap.DesignID
	s.designName = snap.DesignName
	s.schemaVersion = snap.SchemaVersion
	s.designVersion = snap.DesignVersion
	s.createdAt = snap.CreatedAt
	s.updatedAt = snap.UpdatedAt

	sections := make(map[string]map[string]any, len(s.sections))
	for _, name := range sectionNamesLocked(s) {
		sections[name] = make(map[string]any)
	}
	for name, m := range snap.Sections {
		if !kschema.IsSectionName(name) {
			continue
		}
		sections[name] = deepCopyMap(m)
	}
	s.sections = sections

	phaseStates := make(map[string]PhaseMetadata, len(snap.PhaseStates))
	for k, v := range snap.PhaseStates {
		phaseStates[k] = v
	}
	s.phaseStates = phaseStates

	locked := make([]string, len(snap.Locked))
	copy(locked, snap.Locked)
	s.lockedParameters = locked
}

func sectionNamesLocked(s *Store) []string {
	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	return names
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(nested)
			continue
		}
		if list, ok := v.([]any); ok {
			out[k] = append([]any(nil), list...)
			continue
		}
		out[k] = v
	}
	return out
}

// Diff recursively compares two serializations and returns the set of
// paths whose value differs, each mapped to (old, new).
type DiffEntry struct {
	Old, New any
}

func (s *Store) Diff(other *Store) map[string]DiffEntry {
	a := s.ToDict()
	b := other.ToDict()
	out := make(map[string]DiffEntry)
	for section := range unionKeys(a.Sections, b.Sections) {
		diffMaps(section, a.Sections[section], b.Sections[section], out)
	}
	return out
}

func unionKeys(a, b map[string]map[string]any) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func diffMaps(prefix string, a, b map[string]any, out map[string]DiffEntry) {
	keys := make(map[string]bool)
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}
	for k := range keys {
		path := prefix + "." + k
		av, aok := a[k]
		bv, bok := b[k]
		if !aok {
			out[path] = DiffEntry{Old: nil, New: bv}
			continue
		}
		if !bok {
			out[path] = DiffEntry{Old: av, New: nil}
			continue
		}
		am, aIsMap := av.(map[string]any)
		bm, bIsMap := bv.(map[string]any)
		if aIsMap && bIsMap {
			diffMaps(path, am, bm, out)
			continue
		}
		if !valuesEqual(av, bv) {
			out[path] = DiffEntry{Old: av, New: bv}
		}
	}
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Summary is the §4.13 supplemented read-only status view.
type Summary struct {
	DesignID        string
	DesignName      string
	SchemaVersion   string
	DesignVersion   uint64
	SectionCounts   map[string]int
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int, len(s.sections))
	for name, m := range s.sections {
		counts[name] = len(m)
	}
	return Summary{
		DesignID: s.designID, DesignName: s.designName, SchemaVersion: s.schemaVersion,
		DesignVersion: s.designVersion, SectionCounts: counts,
	}
}

// History returns a copy of the recorded history entries.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
