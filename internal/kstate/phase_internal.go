package kstate

import "time"

// SetPhaseStateInternal is the internal API spec.md §6 reserves for the
// conductor/session managers: it writes phase metadata directly,
// bypassing the refinable-path mutation gate entirely (phase_states.* is
// never a user-refinable path).
func (s *Store) SetPhaseStateInternal(phase, state, enteredBy string, attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phaseStates[phase] = PhaseMetadata{
		State: state, EnteredBy: enteredBy, EnteredAt: time.Now(), Attributes: attributes,
	}
	s.history = append(s.history, HistoryEntry{
		Timestamp: time.Now(), Source: "kernel/conductor", Action: "phase_state",
		Path: "phase_states." + phase, New: state,
	})
}

// GetPhaseStatesInternal returns a copy of all phase metadata.
func (s *Store) GetPhaseStatesInternal() map[string]PhaseMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]PhaseMetadata, len(s.phaseStates))
	for k, v := range s.phaseStates {
		out[k] = v
	}
	return out
}

// LockParameter adds a path to the locked_parameters set, recorded as an
// ordered list per spec.md §9 serialization notes (sets serialize as
// ordered lists).
func (s *Store) LockParameter(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.lockedParameters {
		if p == path {
			return
		}
	}
	s.lockedParameters = append(s.lockedParameters, path)
}

// LockedParameters returns a copy of the locked-parameter list.
func (s *Store) LockedParameters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lockedParameters))
	copy(out, s.lockedParameters)
	return out
}
