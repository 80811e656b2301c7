package kmeta

const metaSource = "kernel/meta_validator"

// stateWriter is the trusted internal write surface this package needs.
type stateWriter interface {
	SetInternal(path string, value any, source string) (bool, error)
}

// WriteSummary persists a Summary onto kernel.validation_summary and
// kernel.validation_complete, the two fields spec.md §4.11 names.
func WriteSummary(store stateWriter, summary Summary) error {
	dict := map[string]any{
		"state":                   string(summary.State),
		"completed_phase_count":   summary.CompletedPhaseCount,
		"missing_critical_phases": append([]string(nil), summary.MissingCriticalPhases...),
		"failed_gates":            append([]string(nil), summary.FailedGates...),
		"message":                 summary.Message,
	}
	if _, err := store.SetInternal("kernel.validation_summary", dict, metaSource); err != nil {
		return err
	}
	_, err := store.SetInternal("kernel.validation_complete", summary.IsComplete(), metaSource)
	return err
}
